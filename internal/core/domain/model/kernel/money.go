package kernel

import (
	"fmt"

	"tagging/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a non-negative amount with cent precision. Package prices and every
// revenue aggregate are expressed in it so that sums stay exact.
type Money struct {
	amount decimal.Decimal
}

// Zero is the additive identity.
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney rounds the amount to two decimals and rejects negative values.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount))
	}
	return Money{amount: amount.Round(2)}, nil
}

// MoneyFromString parses a decimal string such as "19.99".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// MustMoney is NewMoney for constants and tests.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the rounded amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Add returns the sum of both amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount).Round(2)}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equal compares by value, ignoring representation ("10" equals "10.00").
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Float64 is used only for JSON and chart output.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
