package payment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"loan-ledger/internal/domain/loan"
)

// Allocation is one step of the waterfall: Amount of the payment applied to
// the loan at Index in the input slice, leaving Outstanding behind.
type Allocation struct {
	Index       int
	LoanID      uint64
	Amount      decimal.Decimal
	Outstanding decimal.Decimal
	Paid        bool
}

// Allocate plans how total is spread over open loans. open must already be in
// repayment order (earliest maximum_payment_date first). Allocate does not
// touch the loans; the caller applies the plan.
//
// It fails with ErrExceedsDebt when total is larger than the open debt. A
// zero total yields an empty plan.
func Allocate(total decimal.Decimal, open []loan.Loan) ([]Allocation, error) {
	debt := loan.TotalDebt(open)
	if total.GreaterThan(debt) {
		return nil, fmt.Errorf("%w: amount %s, debt %s", ErrExceedsDebt, total.String(), debt.StringFixed(2))
	}

	remaining := total
	plan := make([]Allocation, 0, len(open))
	for i, l := range open {
		if !remaining.IsPositive() {
			break
		}
		if !l.Status.Open() || !l.Outstanding.IsPositive() {
			continue
		}
		due := l.Outstanding
		if remaining.GreaterThanOrEqual(due) {
			plan = append(plan, Allocation{Index: i, LoanID: l.ID, Amount: due, Outstanding: decimal.Zero, Paid: true})
			remaining = remaining.Sub(due)
			continue
		}
		plan = append(plan, Allocation{Index: i, LoanID: l.ID, Amount: remaining, Outstanding: due.Sub(remaining)})
		remaining = decimal.Zero
	}
	return plan, nil
}

// Apply mutates l according to a.
func (a Allocation) Apply(l *loan.Loan) {
	l.Outstanding = a.Outstanding
	if a.Paid {
		l.Status = loan.StatusPaid
	}
}
