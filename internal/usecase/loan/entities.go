package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	ExternalID         string
	CustomerID         uint64
	Amount             decimal.Decimal
	ContractVersion    *string
	MaximumPaymentDate time.Time
	TakenAt            *time.Time
}

// UpdateLoanInput carries the descriptive fields only; amount, outstanding
// and status belong to the guard and the allocation engine.
type UpdateLoanInput struct {
	ContractVersion *string
	TakenAt         *time.Time
}
