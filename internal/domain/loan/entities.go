package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("loan not found")
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")
)

type Status int8

const (
	StatusPending  Status = 1
	StatusActive   Status = 2
	StatusRejected Status = 3
	StatusPaid     Status = 4
)

// OpenStatuses are the statuses that still carry debt and accept repayment.
var OpenStatuses = []Status{StatusPending, StatusActive}

func (s Status) Open() bool { return s == StatusPending || s == StatusActive }

// Table: loans. Amount is the original principal; Outstanding is the running
// balance and only moves through payment allocation.
type Loan struct {
	ID                 uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID         string          `gorm:"column:external_id;size:60;not null;uniqueIndex:ux_loans_external_id" json:"external_id"`
	Amount             decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	Status             Status          `gorm:"column:status;type:smallint;not null;default:2" json:"status"`
	ContractVersion    *string         `gorm:"column:contract_version;size:30" json:"contract_version"`
	MaximumPaymentDate time.Time       `gorm:"column:maximum_payment_date;not null;index:idx_loans_customer_due,priority:2" json:"maximum_payment_date"`
	TakenAt            *time.Time      `gorm:"column:taken_at" json:"taken_at"`
	CustomerID         uint64          `gorm:"column:customer_id;not null;index:idx_loans_customer_due,priority:1" json:"customer_id"`
	Outstanding        decimal.Decimal `gorm:"column:outstanding;type:decimal(12,2);not null" json:"outstanding"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }
