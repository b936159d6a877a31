package loan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TotalDebt sums the outstanding balance of the open loans in ls.
// Closed loans (Paid, Rejected) are ignored.
func TotalDebt(ls []Loan) decimal.Decimal {
	total := decimal.Zero
	for _, l := range ls {
		if l.Status.Open() {
			total = total.Add(l.Outstanding)
		}
	}
	return total
}

// ValidateLoan reports whether a new loan of amount fits under score given
// the customer's current loans.
func ValidateLoan(score decimal.Decimal, current []Loan, amount decimal.Decimal) error {
	debt := TotalDebt(current)
	if amount.Add(debt).GreaterThan(score) {
		return fmt.Errorf("%w: requested %s with debt %s over score %s",
			ErrCreditLimitExceeded, amount.StringFixed(2), debt.StringFixed(2), score.StringFixed(2))
	}
	return nil
}

// Available is score minus current debt. It can be negative when loans were
// seeded outside the guard.
func Available(score decimal.Decimal, current []Loan) decimal.Decimal {
	return score.Sub(TotalDebt(current))
}
