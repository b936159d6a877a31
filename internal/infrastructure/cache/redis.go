package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"loan-ledger/internal/config"
)

func OpenRedis(cfg *config.Config) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}
