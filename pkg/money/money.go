package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/calderwood/conreg-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// amountPattern accepts whole amounts with an optional two-decimal fraction.
var amountPattern = regexp.MustCompile(`^(\d*(\.\d{2})?)$`)

// Amount is a fixed-point monetary value. Amounts are never compared as raw
// strings or floats; all arithmetic goes through decimal.
type Amount struct {
	value decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// FromDecimal wraps an existing decimal value.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{value: d}
}

// FromFloat converts a float, rounding to two decimal places.
func FromFloat(f float64) Amount {
	return Amount{value: decimal.NewFromFloat(f).Round(2)}
}

// IsWellFormed reports whether raw matches the accepted amount syntax.
// The empty string is well formed; emptiness is a separate requirement check.
func IsWellFormed(raw string) bool {
	return amountPattern.MatchString(strings.TrimSpace(raw))
}

// Parse converts raw user input into an Amount. Input must already satisfy
// IsWellFormed; Parse rejects anything else.
func Parse(raw string) (Amount, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !amountPattern.MatchString(trimmed) {
		return Amount{}, fmt.Errorf("malformed amount %q", raw)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return Amount{value: d}, nil
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// IsZero reports whether the amount equals zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// LessThan reports a < other.
func (a Amount) LessThan(other Amount) bool {
	return a.value.LessThan(other.value)
}

// GreaterThan reports a > other.
func (a Amount) GreaterThan(other Amount) bool {
	return a.value.GreaterThan(other.value)
}

// Equal reports a == other.
func (a Amount) Equal(other Amount) bool {
	return a.value.Equal(other.value)
}

// Add returns a + other.
func (a Amount) Add(other Amount) Amount {
	return Amount{value: a.value.Add(other.value)}
}

// String renders the amount with exactly two decimal places, e.g. "10.00".
func (a Amount) String() string {
	return a.value.StringFixed(2)
}

// Display renders the amount with its currency, e.g. "USD 10.00".
func Display(a Amount, currency enums.Currency) string {
	return fmt.Sprintf("%s %s", currency, a.String())
}
