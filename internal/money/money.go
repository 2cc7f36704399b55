// Package money implements currency arithmetic for the pricing engine.
//
// Amounts are exact decimals rounded to the whole currency unit (the domain
// currency has no subunit) using round-half-up. Every sum downstream operates
// on already-rounded line totals: round-then-sum, matching the per-line
// display rounding of the documents this system produces.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates a negative amount, negative quantity, or an
// out-of-range percentage passed to a pricing function.
var ErrInvalidAmount = errors.New("invalid amount")

var hundred = decimal.NewFromInt(100)

// Round rounds to the nearest whole currency unit, halves away from zero.
// Monetary values in this domain are non-negative, so this is round-half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// ApplyPercent returns round(base * percent / 100).
// base must be >= 0 and percent >= 0.
func ApplyPercent(base, percent decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: base %s is negative", ErrInvalidAmount, base)
	}
	if percent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: percent %s is negative", ErrInvalidAmount, percent)
	}
	return Round(base.Mul(percent).Div(hundred)), nil
}

// LineTotal returns round(quantity * unitPrice * (1 - discountPercent/100)).
// quantity must be >= 0, unitPrice >= 0 and discountPercent within [0,100].
func LineTotal(quantity int, unitPrice, discountPercent decimal.Decimal) (decimal.Decimal, error) {
	if quantity < 0 {
		return decimal.Zero, fmt.Errorf("%w: quantity %d is negative", ErrInvalidAmount, quantity)
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: unit price %s is negative", ErrInvalidAmount, unitPrice)
	}
	if err := CheckDiscountPercent(discountPercent); err != nil {
		return decimal.Zero, err
	}
	gross := decimal.NewFromInt(int64(quantity)).Mul(unitPrice)
	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	return Round(gross.Mul(factor)), nil
}

// SplitHalf splits an amount into two halves that always sum back to the
// amount: the first half is rounded, the second is the remainder. Used for
// the CGST/SGST display split.
func SplitHalf(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	first := Round(amount.Div(decimal.NewFromInt(2)))
	return first, amount.Sub(first)
}

// CheckDiscountPercent validates a discount percentage is within [0,100].
func CheckDiscountPercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return fmt.Errorf("%w: discount percent %s outside [0,100]", ErrInvalidAmount, percent)
	}
	return nil
}

// CheckNonNegative validates a flat amount is not negative.
func CheckNonNegative(name string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s %s is negative", ErrInvalidAmount, name, amount)
	}
	return nil
}
