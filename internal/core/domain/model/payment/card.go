// Package payment validates the card details submitted with an order. No
// payment is settled; the checks only reject malformed input at the boundary.
package payment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tagging/internal/pkg/errs"
)

const (
	minCardDigits  = 13
	maxCardDigits  = 19
	minHolderChars = 3
)

// Card is a validated card. Only the last four digits are kept.
type Card struct {
	last4       string
	holder      string
	expiryMonth int
	expiryYear  int
}

// NewCard validates the raw form values. now decides whether the expiry month
// already passed; the current month is still accepted.
func NewCard(number, holder, expiry, cvv string, now time.Time) (Card, error) {
	c := Card{}

	if err := errors.Join(
		c.setNumber(number),
		c.setHolder(holder),
		c.setExpiry(expiry, now),
		validateCVV(cvv),
	); err != nil {
		return Card{}, err
	}
	return c, nil
}

func (c Card) Last4() string    { return c.last4 }
func (c Card) Holder() string   { return c.holder }
func (c Card) ExpiryMonth() int { return c.expiryMonth }
func (c Card) ExpiryYear() int  { return c.expiryYear }

func (c *Card) setNumber(number string) error {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(number)
	if digits == "" {
		return errs.NewValueIsRequiredError("card number")
	}
	if !isDigits(digits) {
		return errs.NewValueIsInvalidErrorWithCause("card number", errors.New("must contain digits only"))
	}
	if len(digits) < minCardDigits || len(digits) > maxCardDigits {
		return errs.NewValueIsOutOfRangeError("card number length", len(digits), minCardDigits, maxCardDigits)
	}
	c.last4 = digits[len(digits)-4:]
	return nil
}

func (c *Card) setHolder(holder string) error {
	holder = strings.TrimSpace(holder)
	if len([]rune(holder)) < minHolderChars {
		return errs.NewValueIsInvalidErrorWithCause("card holder", fmt.Errorf("must be at least %d characters", minHolderChars))
	}
	c.holder = holder
	return nil
}

func (c *Card) setExpiry(expiry string, now time.Time) error {
	mm, yy, ok := strings.Cut(strings.TrimSpace(expiry), "/")
	if !ok || len(mm) != 2 || len(yy) != 2 || !isDigits(mm) || !isDigits(yy) {
		return errs.NewValueIsInvalidErrorWithCause("card expiry", fmt.Errorf("%q is not in MM/YY format", expiry))
	}

	month, _ := strconv.Atoi(mm)
	year, _ := strconv.Atoi(yy)
	if month < 1 || month > 12 {
		return errs.NewValueIsOutOfRangeError("card expiry month", month, 1, 12)
	}
	year += 2000

	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return errs.NewValueIsInvalidErrorWithCause("card expiry", errors.New("card has expired"))
	}

	c.expiryMonth = month
	c.expiryYear = year
	return nil
}

func validateCVV(cvv string) error {
	cvv = strings.TrimSpace(cvv)
	if !isDigits(cvv) || len(cvv) < 3 || len(cvv) > 4 {
		return errs.NewValueIsInvalidErrorWithCause("card cvv", errors.New("must be 3 or 4 digits"))
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
