package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("payment not found")
	ErrDetailNotFound = errors.New("payment detail not found")
	ErrExceedsDebt    = errors.New("payment amount exceeds total debt")
	ErrNotPending     = errors.New("payment is not pending")
)

type Status int8

const (
	StatusPending   Status = 1
	StatusCompleted Status = 2
)

// Table: payments. TotalAmount is immutable once allocated.
type Payment struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID  string          `gorm:"column:external_id;size:60;not null;uniqueIndex:ux_payments_external_id" json:"external_id"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(20,10);not null" json:"total_amount"`
	Status      Status          `gorm:"column:status;type:smallint;not null;default:1" json:"status"`
	PaidAt      time.Time       `gorm:"column:paid_at;not null" json:"paid_at"`
	CustomerID  uint64          `gorm:"column:customer_id;not null;index" json:"customer_id"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// Table: payment_details. One row per loan touched by a payment allocation.
type Detail struct {
	ID        uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(20,10);not null" json:"amount"`
	PaymentID uint64          `gorm:"column:payment_id;not null;index" json:"payment"`
	LoanID    uint64          `gorm:"column:loan_id;not null;index" json:"loan"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Detail) TableName() string { return "payment_details" }
