package domain

import "github.com/shopspring/decimal"

// AmountScale is the number of decimal places money is stored with
const AmountScale = 2

// MaxAmount is the exclusive upper bound of a stored money value
var MaxAmount = decimal.New(1, 12)

// ValidateAmount rejects negative values, values with more than AmountScale
// decimal places and values at or above MaxAmount
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewFieldError(field, "Amount cannot be negative")
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return NewFieldError(field, "Amount can have at most 2 decimal places")
	}
	if amount.GreaterThanOrEqual(MaxAmount) {
		return NewFieldError(field, "Amount must be less than 1000000000000")
	}
	return nil
}
