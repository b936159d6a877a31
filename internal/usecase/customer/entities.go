package customer

import (
	"time"

	"github.com/shopspring/decimal"

	domain "loan-ledger/internal/domain/customer"
)

type CreateCustomerInput struct {
	ExternalID    string
	Score         decimal.Decimal
	PreapprovedAt time.Time
}

// UpdateCustomerInput carries the only fields a customer may change after
// registration; nil means untouched.
type UpdateCustomerInput struct {
	Status        *domain.Status
	PreapprovedAt *time.Time
}

type BalanceDTO struct {
	ExternalID      string          `json:"external_id"`
	Score           decimal.Decimal `json:"score"`
	TotalDebt       decimal.Decimal `json:"total_debt"`
	AvailableAmount decimal.Decimal `json:"available_amount"`
}
