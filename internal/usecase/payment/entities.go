package payment

import (
	"time"

	"github.com/shopspring/decimal"

	domain "loan-ledger/internal/domain/payment"
)

type CreatePaymentInput struct {
	ExternalID  string
	CustomerID  uint64
	TotalAmount decimal.Decimal
	PaidAt      time.Time
}

type UpdatePaymentInput struct {
	PaidAt *time.Time
}

// Receipt is a created payment with its per-loan breakdown.
type Receipt struct {
	Payment domain.Payment  `json:"payment"`
	Details []domain.Detail `json:"details"`
}
