// Package money holds the input rules shared by every decimal amount.
package money

import (
	"github.com/shopspring/decimal"

	"loan-ledger/internal/domain/errs"
)

// Scale is the number of fraction digits an input amount may carry.
const Scale int32 = 2

// Positive rejects amounts that are not > 0 or carry more than Scale digits.
func Positive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return errs.Invalid("%s must be greater than 0", field)
	}
	return scaled(field, v)
}

// NonNegative rejects amounts below 0 or with more than Scale digits.
func NonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return errs.Invalid("%s must not be negative", field)
	}
	return scaled(field, v)
}

func scaled(field string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(Scale)) {
		return errs.Invalid("%s must have at most %d decimal places", field, Scale)
	}
	return nil
}
