// Package format renders money and report data for display.
package format

import (
	"strconv"
	"strings"

	"thuchi/internal/core"
	"thuchi/internal/report"
)

const currencySymbol = "đ" // đ

// Money renders whole currency units with dot thousands separators, the way
// amounts are written locally: 1234567 becomes "1.234.567 đ".
func Money(m core.Money) string {
	return group(m.Units) + " " + currencySymbol
}

// Signed renders a net amount with an explicit sign for non-negative values.
func Signed(m core.Money) string {
	if m.Units >= 0 {
		return "+" + Money(m)
	}
	return "-" + Money(core.Money{Units: -m.Units})
}

func group(units int64) string {
	neg := units < 0
	if neg {
		units = -units
	}
	digits := strconv.FormatInt(units, 10)

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// PieSlice is one chart segment ready for rendering.
type PieSlice struct {
	Label   string  `json:"label"`
	Value   int64   `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
	Display string  `json:"display"`
}

// Pie converts report buckets into chart slices, preserving their order.
func Pie(buckets []report.Bucket) []PieSlice {
	slices := make([]PieSlice, len(buckets))
	for i, b := range buckets {
		slices[i] = PieSlice{
			Label:   b.Label,
			Value:   b.Total.Units,
			Percent: b.Percent,
			Color:   b.Color,
			Display: Money(b.Total),
		}
	}
	return slices
}
