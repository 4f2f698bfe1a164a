// Package core holds the domain model shared by every other package.
//
// This file contains the Money type: a fixed-point currency amount used for
// all budget/actual arithmetic. Amounts reaching this type from outside the
// process (HTTP bodies, database columns, spreadsheet cells) must go through
// the strict parsers here; a decimal that arrives as text and cannot be
// parsed is rejected as ErrMalformedAmount instead of being silently
// coerced to zero or passed through as a string.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of decimal places every Money carries.
const moneyScale = 2

// ratioScale is the precision used for derived ratios (margin, runway).
const ratioScale = 4

// Money is a fixed-point currency amount with two decimal places.
//
// Addition and subtraction are exact. Division rounds half-up and yields
// zero when the divisor is zero, so downstream metrics are always finite.
// The zero value is a valid zero amount.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero currency amount.
var Zero = Money{}

// ParseAmount parses a decimal string into Money.
//
// It accepts an optional sign, digits and at most one dot separator
// ("45", "-12.5", "0.01"). Anything else, including empty strings,
// exponent notation, thousands separators and trailing garbage, returns
// ErrMalformedAmount. The result is rounded half-up to two decimals.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty value", ErrMalformedAmount)
	}
	body := s
	if body[0] == '+' || body[0] == '-' {
		body = body[1:]
	}
	if body == "" || strings.Count(body, ".") > 1 {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	digits := 0
	for _, r := range body {
		if r == '.' {
			continue
		}
		if r < '0' || r > '9' {
			return Money{}, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
		}
		digits++
	}
	if digits == 0 {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return Money{d: d.Round(moneyScale)}, nil
}

// MustAmount parses a decimal string and panics on malformed input.
// Intended for seed data and tests, never for external input.
func MustAmount(s string) Money {
	m, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return m
}

// AmountFromFloat converts a float into Money, rounding to two decimals.
// Used at JSON boundaries where encoding/json has already produced a float.
func AmountFromFloat(f float64) Money {
	return Money{d: decimal.NewFromFloat(f).Round(moneyScale)}
}

// Add returns m + o exactly.
func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

// Sub returns m - o exactly.
func (m Money) Sub(o Money) Money {
	return Money{d: m.d.Sub(o.d)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{d: m.d.Neg()}
}

// DivInt divides m by n, rounding half-up to two decimals.
// Returns zero when n is zero.
func (m Money) DivInt(n int) Money {
	if n == 0 {
		return Money{}
	}
	return Money{d: m.d.Div(decimal.NewFromInt(int64(n))).Round(moneyScale)}
}

// Ratio returns m / o rounded half-up to four decimals, as a plain float
// suitable for non-currency metrics. Returns 0 when o is zero.
func (m Money) Ratio(o Money) float64 {
	if o.d.IsZero() {
		return 0
	}
	f, _ := m.d.Div(o.d).Round(ratioScale).Float64()
	return f
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// Cmp compares two amounts: -1 if m < o, 0 if equal, +1 if m > o.
func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

// Equal reports whether two amounts are numerically equal.
func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

// Float64 returns the amount as a float for display adapters that cannot
// consume decimals. Arithmetic must stay on Money.
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

// String formats the amount in plain decimal notation ("45", "-12.5").
func (m Money) String() string {
	return m.d.String()
}

// MarshalJSON emits the amount as a bare JSON number, never a quoted
// string. Chart consumers break on numeric-looking text, so this is a
// hard contract of the API surface.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string and parses it
// strictly. Non-numeric input fails with ErrMalformedAmount.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*m = Money{}
		return nil
	}
	s = strings.Trim(s, `"`)
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
