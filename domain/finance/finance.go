// Package finance holds the money rules shared by order details, order
// listings, cart quotes and the dashboard revenue rollup.
package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountType selects how an order's discount value is applied.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// ErrInvalidDiscount is returned when a discount policy cannot be applied.
var ErrInvalidDiscount = errors.New("invalid discount")

var hundred = decimal.NewFromInt(100)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountPercent || t == DiscountFixed
}

// Line is one priced quantity of an order or cart.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Summary is the financial breakdown of an order.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ValidateDiscount checks a discount policy before it is stored. Discounts
// larger than the subtotal are allowed; Summarize clamps the total.
func ValidateDiscount(t DiscountType, value decimal.Decimal) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidDiscount, t)
	}
	if value.IsNegative() {
		return fmt.Errorf("%w: value must not be negative", ErrInvalidDiscount)
	}
	return nil
}

// Subtotal sums quantity times unit price over all lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Discount applies the policy to a subtotal. Unknown types discount nothing.
func Discount(subtotal decimal.Decimal, t DiscountType, value decimal.Decimal) decimal.Decimal {
	switch t {
	case DiscountPercent:
		return subtotal.Mul(value).Div(hundred)
	case DiscountFixed:
		return value
	default:
		return decimal.Zero
	}
}

// Summarize computes subtotal, discount and total. The total never drops
// below zero and every amount is rounded to cents.
func Summarize(lines []Line, t DiscountType, value decimal.Decimal) Summary {
	subtotal := Subtotal(lines)
	discount := Discount(subtotal, t, value)

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Summary{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Total:    total.Round(2),
	}
}

// Completion returns delivered/ordered as a whole percentage capped at 100.
func Completion(ordered, delivered int) int {
	if ordered <= 0 || delivered <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(delivered)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(ordered))).
		Round(0).
		IntPart()
	if pct > 100 {
		return 100
	}
	return int(pct)
}
