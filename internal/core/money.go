// Package core provides money parsing and handling utilities.
//
// Amounts are exact decimals. Parsing, addition and subtraction never go
// through floating point.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. The zero value is 0.
type Money struct {
	decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{Decimal: decimal.Zero}

// NewMoney builds an amount from an integer coefficient and a base-10
// exponent: NewMoney(1234, -2) is 12.34.
func NewMoney(value int64, exp int32) Money {
	return Money{Decimal: decimal.New(value, exp)}
}

// MustMoney parses s and panics on failure. Intended for tests and constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return Money{Decimal: d}
}

// ParseAmount converts a user-entered decimal string into Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and keeps
// every fractional digit. Negative values and malformed input are rejected;
// zero is a valid amount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.345, nil
//	ParseAmount("-1")     -> ErrNegativeAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrMissingAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		// Scientific notation is not a money format.
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Decimal: d}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// Validate checks that the amount is a non-negative magnitude.
func (m Money) Validate() error {
	if m.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

func (m Money) Sub(o Money) Money {
	return Money{Decimal: m.Decimal.Sub(o.Decimal)}
}

// Equal compares by value, so 1.50 equals 1.5.
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}
