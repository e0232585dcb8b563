// Package core provides the domain value types shared by every component:
// transactions, amounts, calendar days and filter specifications.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a user-entered amount string to Money.
//
// Amounts are whole currency units; thousands separators (dot, comma or
// space) are tolerated and stripped, fractional parts and signs are not.
// The result must be strictly positive.
//
// Examples:
//
//	ParseAmount("50000")   -> {50000}, nil
//	ParseAmount("50.000")  -> {50000}, nil
//	ParseAmount("50 000")  -> {50000}, nil
//	ParseAmount("-5")      -> error
//	ParseAmount("0")       -> error
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == ',' || r == ' ':
			// separator, dropped
		default:
			return Money{}, ErrInvalidAmount
		}
	}
	if b.Len() == 0 {
		return Money{}, ErrInvalidAmount
	}
	units, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if units <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Units: units}, nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Units: m.Units + other.Units}
}

// Sub returns m - other. The result may be negative (net totals).
func (m Money) Sub(other Money) Money {
	return Money{Units: m.Units - other.Units}
}
