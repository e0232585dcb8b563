package report

import (
	"thuchi/internal/core"
)

// DayMark flags which transaction types occurred on a day. The calendar
// renders at most one dot per type per day.
type DayMark struct {
	Income  bool `json:"income"`
	Expense bool `json:"expense"`
}

// Marks builds the calendar marking data for a whole record set, keyed by
// "YYYY-MM-DD". Records with malformed dates are skipped.
func Marks(records []core.Transaction) map[string]DayMark {
	marks := make(map[string]DayMark)
	for _, rec := range records {
		day, err := rec.Day()
		if err != nil {
			continue
		}
		m := marks[day.String()]
		switch rec.Type {
		case core.Income:
			m.Income = true
		case core.Expense:
			m.Expense = true
		default:
			continue
		}
		marks[day.String()] = m
	}
	return marks
}

// OnDay returns the records dated exactly day, in input order.
func OnDay(records []core.Transaction, day core.Day) []core.Transaction {
	out := make([]core.Transaction, 0, 4)
	for _, rec := range records {
		d, err := rec.Day()
		if err != nil {
			continue
		}
		if d.Equal(day.Time) {
			out = append(out, rec)
		}
	}
	return out
}

// MonthTotals sums the records falling in the given calendar month. Used by
// the calendar header, which shows income/expense/net for the visible month.
func MonthTotals(records []core.Transaction, year, month int) Summary {
	var s Summary
	for _, rec := range records {
		day, err := rec.Day()
		if err != nil {
			continue
		}
		if day.Year() != year || int(day.Time.Month()) != month {
			continue
		}
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
