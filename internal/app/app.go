// Package app assembles repositories, usecases and the HTTP router.
package app

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "loan-ledger/internal/adapter/http"
	"loan-ledger/internal/adapter/repository/gormrepo"
	"loan-ledger/internal/config"
	"loan-ledger/internal/usecase/access"
	"loan-ledger/internal/usecase/customer"
	"loan-ledger/internal/usecase/loan"
	"loan-ledger/internal/usecase/payment"
)

// New builds the API. rdb may be nil, which disables idempotency replay.
func New(cfg *config.Config, gdb *gorm.DB, rdb *redis.Client, log *zap.Logger) *echo.Echo {
	if log == nil {
		log = zap.NewNop()
	}
	tx := gormrepo.NewGormUoW(gdb)
	customers := gormrepo.NewCustomerRepository(gdb)
	loans := gormrepo.NewLoanRepository(gdb)
	payments := gormrepo.NewPaymentRepository(gdb)
	details := gormrepo.NewDetailRepository(gdb)
	users := gormrepo.NewUserRepository(gdb)
	keys := gormrepo.NewKeyRepository(gdb)

	checks := []httpadp.Check{{Name: "db", Ping: func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}}
	if rdb != nil {
		checks = append(checks, httpadp.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	return httpadp.NewRouter(httpadp.Deps{
		Customers: customer.NewUsecase(customers, loans, tx, log.Named("customer")),
		Loans:     loan.NewUsecase(loans, tx, log.Named("loan")),
		Payments:  payment.NewUsecase(payments, details, tx, log.Named("payment")),
		Access:    access.NewUsecase(keys, users, tx, cfg.AdminSecretKey, cfg.BcryptCost, log.Named("access")),
		Redis:     rdb,
		IdempTTL:  time.Duration(cfg.IdempTTLSecs) * time.Second,
		Checks:    checks,
		Log:       log,
	})
}
