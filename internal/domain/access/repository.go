package access

import "context"

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	AdminExists(ctx context.Context) (bool, error)
}

type KeyRepository interface {
	Create(ctx context.Context, k *APIKey) error
	GetByPrefix(ctx context.Context, prefix string) (*APIKey, error)
	Save(ctx context.Context, k *APIKey) error
}
