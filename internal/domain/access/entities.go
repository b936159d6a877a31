package access

import (
	"errors"
	"fmt"
	"time"

	"loan-ledger/internal/domain/errs"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrKeyNotFound   = errors.New("api key not found")
	ErrUnauthorized  = errors.New("invalid or missing api key")
	ErrForbidden     = errors.New("forbidden")
	ErrAdminExists   = fmt.Errorf("%w: admin already registered", errs.ErrConflict)
	ErrInvalidSecret = errors.New("invalid admin secret")
	ErrUsernameTaken = fmt.Errorf("%w: username already taken", errs.ErrConflict)
)

// PrefixLen is the length of the public lookup part of an API key.
const PrefixLen = 8

// Table: users
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"column:username;size:150;not null;uniqueIndex:ux_users_username" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;size:100;not null" json:"-"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Table: api_keys. Only the bcrypt hash of the secret part is stored.
type APIKey struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Prefix    string    `gorm:"column:prefix;size:8;not null;uniqueIndex:ux_api_keys_prefix" json:"prefix"`
	HashedKey string    `gorm:"column:hashed_key;size:100;not null" json:"-"`
	Name      string    `gorm:"column:name;size:50;not null" json:"name"`
	Revoked   bool      `gorm:"column:revoked;not null;default:false" json:"revoked"`
	UserID    uint64    `gorm:"column:user_id;not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (APIKey) TableName() string { return "api_keys" }

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	KeyID    uint64 `json:"-"`
}
