// Package services orchestrates the hosted store, the local preference
// database and the aggregation engine behind the API surface.
package services

import (
	"context"
	"time"

	"thuchi/internal/core"
	"thuchi/internal/faults"
	"thuchi/internal/log"
	"thuchi/internal/mirror"
	"thuchi/internal/report"
	"thuchi/internal/store"
)

// TransactionService owns the write path and the filtered read path for the
// income and expense log.
type TransactionService struct {
	store  store.TransactionStore
	mirror *mirror.Mirror
	log    *log.Logger
	now    func() time.Time
}

func NewTransactionService(s store.TransactionStore, m *mirror.Mirror, logger *log.Logger) *TransactionService {
	return &TransactionService{
		store:  s,
		mirror: m,
		log:    logger.WithComponent(log.ComponentService),
		now:    time.Now,
	}
}

// TransactionInput carries the user-editable fields of a record.
type TransactionInput struct {
	Name     string
	Amount   core.Money
	Type     core.TxType
	Date     string
	Category string
}

// ListResult pairs the filtered records with their running totals.
type ListResult struct {
	Records []core.Transaction
	Summary report.Summary
}

func (s *TransactionService) Add(ctx context.Context, userID string, in TransactionInput) (core.Transaction, error) {
	now := s.now().UTC()
	tx := core.Transaction{
		Name:      in.Name,
		Amount:    in.Amount,
		Type:      in.Type,
		Date:      in.Date,
		UserID:    userID,
		Category:  in.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, faults.Wrap(faults.KindValidation, "add transaction", err)
	}

	id, err := s.store.Create(ctx, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.ID = id

	s.log.InfoContext(ctx, "Transaction added",
		log.FieldOperation, log.OpCreate,
		log.FieldTxID, id,
		log.FieldUserID, userID,
		log.FieldTxType, string(tx.Type),
		log.FieldAmount, tx.Amount.Units)
	return tx, nil
}

// Edit rewrites the mutable fields of an existing record. Date, owner and
// category are fixed at creation time.
func (s *TransactionService) Edit(ctx context.Context, userID, id string, in TransactionInput) error {
	if id == "" {
		return faults.New(faults.KindValidation, "edit transaction: missing id")
	}
	tx := core.Transaction{
		ID:        id,
		Name:      in.Name,
		Amount:    in.Amount,
		Type:      in.Type,
		Date:      in.Date,
		UserID:    userID,
		UpdatedAt: s.now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return faults.Wrap(faults.KindValidation, "edit transaction", err)
	}
	if err := s.store.Update(ctx, tx); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldTxID, id,
		log.FieldUserID, userID)
	return nil
}

func (s *TransactionService) Remove(ctx context.Context, userID, id string) error {
	if id == "" {
		return faults.New(faults.KindValidation, "remove transaction: missing id")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Transaction removed",
		log.FieldOperation, log.OpDelete,
		log.FieldTxID, id,
		log.FieldUserID, userID)
	return nil
}

// List fetches the user's records, applies the view filter and returns them
// newest first together with income, expense and net totals over the
// filtered set.
func (s *TransactionService) List(ctx context.Context, userID string, spec core.FilterSpec) (ListResult, error) {
	if err := spec.Validate(); err != nil {
		return ListResult{}, faults.Wrap(faults.KindValidation, "list transactions", err)
	}
	records, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return ListResult{}, err
	}

	filtered := core.Filter(records, spec, s.now())
	core.SortNewestFirst(filtered)
	return ListResult{
		Records: filtered,
		Summary: report.Totals(filtered),
	}, nil
}

// Report aggregates the user's records at the requested granularity around
// the reference time.
func (s *TransactionService) Report(ctx context.Context, userID string, g report.Granularity, ref time.Time) (report.Report, error) {
	if !g.Valid() {
		return report.Report{}, faults.New(faults.KindValidation, "report: unknown granularity")
	}
	records, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return report.Report{}, err
	}
	rep := report.Build(records, g, ref)

	s.log.DebugContext(ctx, "Report built",
		log.FieldOperation, log.OpFetch,
		log.FieldUserID, userID,
		log.FieldGranularity, string(g),
		log.FieldRecords, len(records))
	return rep, nil
}

// Calendar returns the per-day markers and monthly totals backing the
// calendar screen. It reads the full record set and scopes client-side.
func (s *TransactionService) Calendar(ctx context.Context, userID string, year, month int) (CalendarView, error) {
	records, err := s.mirror.FetchOnce(ctx, "")
	if err != nil {
		return CalendarView{}, err
	}
	records = scopeUser(records, userID)
	return CalendarView{
		Marks:  report.Marks(records),
		Totals: report.MonthTotals(records, year, month),
	}, nil
}

// Day lists one day's records newest first, for the calendar detail pane.
func (s *TransactionService) Day(ctx context.Context, userID string, day core.Day) ([]core.Transaction, error) {
	records, err := s.mirror.FetchOnce(ctx, "")
	if err != nil {
		return nil, err
	}
	selected := report.OnDay(scopeUser(records, userID), day)
	core.SortNewestFirst(selected)
	return selected, nil
}

func scopeUser(records []core.Transaction, userID string) []core.Transaction {
	scoped := make([]core.Transaction, 0, len(records))
	for _, tx := range records {
		if tx.UserID == userID {
			scoped = append(scoped, tx)
		}
	}
	return scoped
}

type CalendarView struct {
	Marks  map[string]report.DayMark
	Totals report.Summary
}
