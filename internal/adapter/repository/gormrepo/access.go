package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loan-ledger/internal/domain/access"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *access.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return access.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*access.User, error) {
	var out access.User
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, translate(err, access.ErrUserNotFound, "user")
	}
	return &out, nil
}

func (r *UserRepository) AdminExists(ctx context.Context) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&access.User{}).Where("is_admin = ?", true).Count(&n).Error
	return n > 0, err
}

type KeyRepository struct{ db *gorm.DB }

func NewKeyRepository(db *gorm.DB) *KeyRepository { return &KeyRepository{db: db} }

func (r *KeyRepository) Create(ctx context.Context, k *access.APIKey) error {
	return translate(r.db.WithContext(ctx).Create(k).Error, access.ErrKeyNotFound, "api key prefix")
}

func (r *KeyRepository) GetByPrefix(ctx context.Context, prefix string) (*access.APIKey, error) {
	var out access.APIKey
	if err := r.db.WithContext(ctx).Where("prefix = ?", prefix).First(&out).Error; err != nil {
		return nil, translate(err, access.ErrKeyNotFound, "api key")
	}
	return &out, nil
}

func (r *KeyRepository) Save(ctx context.Context, k *access.APIKey) error {
	return r.db.WithContext(ctx).Save(k).Error
}
