// Package report is the pure aggregation engine: it turns a record set and a
// reporting granularity into grouped totals, percentages and summary sums.
// Everything here is side-effect free; the same input always produces the
// same output (color assignment is cosmetic and follows bucket order).
package report

import (
	"math"
	"sort"
	"time"

	"thuchi/internal/core"
)

const (
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// IncomeLabel is the single bucket all income records fall into at month
// granularity, where expenses are broken down by category.
const IncomeLabel = "income"

type (
	// Granularity selects the reporting window and grouping rule.
	Granularity string

	// Bucket is one aggregation group: a label with a running total, its
	// share of the report and a chart color.
	Bucket struct {
		Type    core.TxType
		Label   string
		Total   core.Money
		Percent float64
		Color   string
	}

	// Summary carries the income/expense/net sums of a record set.
	Summary struct {
		TotalIncome  core.Money
		TotalExpense core.Money
		Net          core.Money
	}

	// Report is the chart-ready output for one granularity and reference
	// day. Buckets are sorted descending by total.
	Report struct {
		Granularity Granularity
		From, To    core.Day
		Buckets     []Bucket
		Summary
	}
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Palette cycled over buckets for chart rendering.
var palette = [...]string{"#FF6384", "#FF9F40", "#FFCD56", "#4BC0C0", "#36A2EB", "#9966FF", "#C9CBCF"}

func (g Granularity) Valid() bool {
	return g == Week || g == Month || g == Year
}

// Totals sums a record set into income, expense and net. Records whose date
// does not parse still count here; date validity only matters once a window
// or grouping needs the day.
func Totals(records []core.Transaction) Summary {
	var s Summary
	for _, rec := range records {
		switch rec.Type {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(rec.Amount)
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(rec.Amount)
		}
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// Build aggregates records into the report for granularity g anchored at
// ref: week is the Monday-anchored 7-day window containing ref, month is
// ref's calendar month, year is ref's calendar year. Records outside the
// window or with malformed dates are skipped, never fatal.
func Build(records []core.Transaction, g Granularity, ref time.Time) Report {
	from, to := window(g, ref)
	rep := Report{Granularity: g, From: from, To: to}

	type key struct {
		t     core.TxType
		label string
	}
	totals := map[key]int64{}

	for _, rec := range records {
		if !rec.Type.Valid() {
			continue
		}
		day, err := rec.Day()
		if err != nil {
			continue
		}
		if day.BeforeDay(from) || day.AfterDay(to) {
			continue
		}

		switch rec.Type {
		case core.Income:
			rep.TotalIncome = rep.TotalIncome.Add(rec.Amount)
		case core.Expense:
			rep.TotalExpense = rep.TotalExpense.Add(rec.Amount)
		}

		var k key
		switch g {
		case Week:
			k = key{rec.Type, weekdayLabels[(int(day.Weekday())+6)%7]}
		case Month:
			if rec.Type == core.Income {
				k = key{core.Income, IncomeLabel}
			} else {
				k = key{core.Expense, rec.CategoryOrDefault()}
			}
		case Year:
			k = key{rec.Type, monthLabels[day.Month()-1]}
		}
		totals[k] += rec.Amount.Units
	}
	rep.Net = rep.TotalIncome.Sub(rep.TotalExpense)

	var base int64
	for _, units := range totals {
		base += units
	}

	rep.Buckets = make([]Bucket, 0, len(totals))
	for k, units := range totals {
		rep.Buckets = append(rep.Buckets, Bucket{
			Type:    k.t,
			Label:   k.label,
			Total:   core.Money{Units: units},
			Percent: share(units, base),
		})
	}
	sort.Slice(rep.Buckets, func(i, j int) bool {
		bi, bj := rep.Buckets[i], rep.Buckets[j]
		if bi.Total != bj.Total {
			return bi.Total.Units > bj.Total.Units
		}
		if bi.Label != bj.Label {
			return bi.Label < bj.Label
		}
		return bi.Type < bj.Type
	})
	for i := range rep.Buckets {
		rep.Buckets[i].Color = palette[i%len(palette)]
	}
	return rep
}

// share is units/base as a percentage rounded to one decimal, 0 when the
// base is zero.
func share(units, base int64) float64 {
	if base == 0 {
		return 0
	}
	return math.Round(float64(units)/float64(base)*1000) / 10
}

func window(g Granularity, ref time.Time) (core.Day, core.Day) {
	day := core.DayOf(ref)
	switch g {
	case Week:
		monday := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
		return core.Day{Time: monday}, core.Day{Time: monday.AddDate(0, 0, 6)}
	case Year:
		return core.NewDay(day.Year(), 1, 1), core.NewDay(day.Year(), 12, 31)
	default: // Month
		first := core.NewDay(day.Year(), int(day.Time.Month()), 1)
		return first, core.Day{Time: first.AddDate(0, 1, -1)}
	}
}
