package customer

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("customer not found")
)

type Status int8

const (
	StatusActive   Status = 1
	StatusInactive Status = 2
)

func (s Status) Valid() bool { return s == StatusActive || s == StatusInactive }

// Table: customers. Score is the credit limit and is never recomputed.
type Customer struct {
	ID            uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID    string          `gorm:"column:external_id;size:60;not null;uniqueIndex:ux_customers_external_id" json:"external_id"`
	Status        Status          `gorm:"column:status;type:smallint;not null;default:1" json:"status"`
	Score         decimal.Decimal `gorm:"column:score;type:decimal(12,2);not null" json:"score"`
	PreapprovedAt time.Time       `gorm:"column:preapproved_at;not null" json:"preapproved_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
