package report

import (
	"testing"

	"thuchi/internal/core"
)

func TestMarks(t *testing.T) {
	records := []core.Transaction{
		tx("a", core.Expense, 100, "2025-05-02", ""),
		tx("b", core.Expense, 200, "2025-05-02", ""), // same day, same type
		tx("c", core.Income, 300, "2025-05-02", ""),
		tx("d", core.Income, 400, "2025-05-03", ""),
		tx("e", core.Expense, 500, "not-a-date", ""),
	}
	marks := Marks(records)
	if len(marks) != 2 {
		t.Fatalf("expected 2 marked days, got %v", marks)
	}
	if m := marks["2025-05-02"]; !m.Income || !m.Expense {
		t.Fatalf("2025-05-02: %+v", m)
	}
	if m := marks["2025-05-03"]; !m.Income || m.Expense {
		t.Fatalf("2025-05-03: %+v", m)
	}
}

func TestOnDay(t *testing.T) {
	records := []core.Transaction{
		tx("a", core.Expense, 100, "2025-05-02", ""),
		tx("b", core.Income, 200, "2025-05-03", ""),
		tx("c", core.Expense, 300, "2025-05-02T08:00:00.000Z", ""),
	}
	got := OnDay(records, core.NewDay(2025, 5, 2))
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("got %+v", got)
	}
}

func TestMonthTotals(t *testing.T) {
	records := []core.Transaction{
		tx("a", core.Income, 1000000, "2025-05-01", ""),
		tx("b", core.Expense, 400000, "2025-05-20", ""),
		tx("c", core.Expense, 999, "2025-04-30", ""),
		tx("d", core.Expense, 999, "bad", ""),
	}
	s := MonthTotals(records, 2025, 5)
	if s.TotalIncome.Units != 1000000 || s.TotalExpense.Units != 400000 || s.Net.Units != 600000 {
		t.Fatalf("got %+v", s)
	}
}
