package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"thuchi/internal/core"
	"thuchi/internal/faults"
	"thuchi/internal/log"
	"thuchi/internal/mirror"
	"thuchi/internal/report"
	"thuchi/internal/store/memory"
)

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *log.Logger {
	return log.NewWithHandler(slog.NewTextHandler(testWriter{}, nil), "test")
}

var fixedNow = time.Date(2025, 5, 15, 10, 0, 0, 0, time.UTC)

func newTxService(t *testing.T) (*TransactionService, *memory.Store) {
	t.Helper()
	s := memory.New()
	svc := NewTransactionService(s, mirror.New(s, testLogger()), testLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc, s
}

func TestAddAssignsIDAndTimestamps(t *testing.T) {
	svc, _ := newTxService(t)
	tx, err := svc.Add(context.Background(), "u1", TransactionInput{
		Name:   "Monthly salary",
		Amount: core.Money{Units: 50000},
		Type:   core.Income,
		Date:   "2025-05-10T08:00:00Z",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if tx.ID == "" {
		t.Error("Add returned empty id")
	}
	if !tx.CreatedAt.Equal(fixedNow) || !tx.UpdatedAt.Equal(fixedNow) {
		t.Errorf("timestamps = %v/%v, want %v", tx.CreatedAt, tx.UpdatedAt, fixedNow)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	svc, _ := newTxService(t)
	tests := []struct {
		name  string
		input TransactionInput
	}{
		{"empty name", TransactionInput{Amount: core.Money{Units: 100}, Type: core.Expense, Date: "2025-05-10"}},
		{"zero amount", TransactionInput{Name: "Coffee", Type: core.Expense, Date: "2025-05-10"}},
		{"bad type", TransactionInput{Name: "Coffee", Amount: core.Money{Units: 100}, Type: "transfer", Date: "2025-05-10"}},
		{"bad date", TransactionInput{Name: "Coffee", Amount: core.Money{Units: 100}, Type: core.Expense, Date: "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), "u1", tt.input)
			if faults.KindOf(err) != faults.KindValidation {
				t.Errorf("Add = %v, want validation error", err)
			}
		})
	}
}

func TestEditRequiresID(t *testing.T) {
	svc, _ := newTxService(t)
	err := svc.Edit(context.Background(), "u1", "", TransactionInput{
		Name:   "Coffee",
		Amount: core.Money{Units: 100},
		Type:   core.Expense,
		Date:   "2025-05-10",
	})
	if faults.KindOf(err) != faults.KindValidation {
		t.Errorf("Edit without id = %v, want validation error", err)
	}
}

func TestListFiltersSortsAndTotals(t *testing.T) {
	svc, _ := newTxService(t)
	ctx := context.Background()

	add := func(name string, units int64, typ core.TxType, date string) {
		t.Helper()
		if _, err := svc.Add(ctx, "u1", TransactionInput{
			Name: name, Amount: core.Money{Units: units}, Type: typ, Date: date,
		}); err != nil {
			t.Fatalf("Add %s: %v", name, err)
		}
	}
	add("Salary", 900000, core.Income, "2025-05-01T09:00:00Z")
	add("Rent", 300000, core.Expense, "2025-05-02T09:00:00Z")
	add("Coffee", 40000, core.Expense, "2025-05-14T09:00:00Z")
	add("Old bill", 70000, core.Expense, "2025-04-20T09:00:00Z")

	// Default spec restricts to the month of now (May 2025).
	res, err := svc.List(ctx, "u1", core.FilterSpec{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("got %d records, want 3 (April excluded)", len(res.Records))
	}
	if res.Records[0].Name != "Coffee" {
		t.Errorf("first record = %q, want newest first (Coffee)", res.Records[0].Name)
	}
	if res.Summary.TotalIncome.Units != 900000 || res.Summary.TotalExpense.Units != 340000 {
		t.Errorf("summary = %+v, want income 900000 expense 340000", res.Summary)
	}
	if res.Summary.Net.Units != 560000 {
		t.Errorf("net = %d, want 560000", res.Summary.Net.Units)
	}

	// An explicit bound disables the current-month default.
	res, err = svc.List(ctx, "u1", core.FilterSpec{End: core.NewDay(2025, 4, 30)})
	if err != nil {
		t.Fatalf("List with bound: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].Name != "Old bill" {
		t.Errorf("bounded list = %+v, want only Old bill", res.Records)
	}
}

func TestListRejectsInvertedRange(t *testing.T) {
	svc, _ := newTxService(t)
	_, err := svc.List(context.Background(), "u1", core.FilterSpec{
		Start: core.NewDay(2025, 5, 20),
		End:   core.NewDay(2025, 5, 1),
	})
	if faults.KindOf(err) != faults.KindValidation {
		t.Errorf("List inverted range = %v, want validation error", err)
	}
}

func TestReportRejectsUnknownGranularity(t *testing.T) {
	svc, _ := newTxService(t)
	_, err := svc.Report(context.Background(), "u1", report.Granularity("decade"), fixedNow)
	if faults.KindOf(err) != faults.KindValidation {
		t.Errorf("Report = %v, want validation error", err)
	}
}

func TestCalendarAndDay(t *testing.T) {
	svc, _ := newTxService(t)
	ctx := context.Background()

	for _, in := range []TransactionInput{
		{Name: "Salary", Amount: core.Money{Units: 900000}, Type: core.Income, Date: "2025-05-01T09:00:00Z"},
		{Name: "Rent", Amount: core.Money{Units: 300000}, Type: core.Expense, Date: "2025-05-01T18:00:00Z"},
		{Name: "Coffee", Amount: core.Money{Units: 40000}, Type: core.Expense, Date: "2025-05-14T09:00:00Z"},
	} {
		if _, err := svc.Add(ctx, "u1", in); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	// another user's record must not leak through the full-collection scan
	other := TransactionInput{Name: "Bonus", Amount: core.Money{Units: 500000}, Type: core.Income, Date: "2025-05-02T09:00:00Z"}
	if _, err := svc.Add(ctx, "u2", other); err != nil {
		t.Fatalf("Add: %v", err)
	}

	view, err := svc.Calendar(ctx, "u1", 2025, 5)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	if _, ok := view.Marks["2025-05-02"]; ok {
		t.Error("foreign record marked on u1's calendar")
	}
	mark, ok := view.Marks["2025-05-01"]
	if !ok || !mark.Income || !mark.Expense {
		t.Errorf("mark for 2025-05-01 = (%+v, %v), want both dots", mark, ok)
	}
	if view.Totals.Net.Units != 560000 {
		t.Errorf("month net = %d, want 560000", view.Totals.Net.Units)
	}

	day, err := svc.Day(ctx, "u1", core.NewDay(2025, 5, 1))
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(day) != 2 {
		t.Errorf("day list has %d records, want 2", len(day))
	}
}
