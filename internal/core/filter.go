package core

import (
	"errors"
	"sort"
	"strings"
	"time"
)

const (
	TypeAll     TypeFilter = "all"
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"
)

type (
	// TypeFilter restricts a view to one transaction type, or none.
	TypeFilter string

	// FilterSpec is an immutable description of the user's current view
	// constraints. The zero value means "type all, no keyword, no bounds",
	// which by product rule restricts to the current calendar month at
	// evaluation time.
	FilterSpec struct {
		Type    TypeFilter
		Keyword string
		Start   Day // zero = no lower bound
		End     Day // zero = no upper bound
	}
)

var ErrInvalidRange = errors.New("start date after end date")

func (f TypeFilter) Valid() bool {
	return f == TypeAll || f == TypeIncome || f == TypeExpense
}

// Matches reports whether the filter admits the given type.
func (f TypeFilter) Matches(t TxType) bool {
	return f == TypeAll || string(f) == string(t)
}

func (f FilterSpec) Validate() error {
	if f.Type != "" && !f.Type.Valid() {
		return ErrInvalidType
	}
	if !f.Start.IsZero() && !f.End.IsZero() && f.Start.AfterDay(f.End) {
		return ErrInvalidRange
	}
	return nil
}

// Explicit reports whether the spec supplies at least one date bound.
// Supplying either bound disables the implicit current-month restriction
// entirely; the other side stays open.
func (f FilterSpec) Explicit() bool {
	return !f.Start.IsZero() || !f.End.IsZero()
}

// Filter applies spec to records and returns the admitted subset, in input
// order. Predicates run in a fixed order: type, keyword, date range. When no
// bound is supplied the date predicate restricts to the calendar month of
// now. Records whose date does not parse are always excluded; the rest of
// the set is still processed.
func Filter(records []Transaction, spec FilterSpec, now time.Time) []Transaction {
	ftype := spec.Type
	if ftype == "" {
		ftype = TypeAll
	}
	keyword := strings.ToLower(strings.TrimSpace(spec.Keyword))
	explicit := spec.Explicit()
	thisMonth := DayOf(now)

	out := make([]Transaction, 0, len(records))
	for _, rec := range records {
		if !ftype.Matches(rec.Type) {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(rec.Name), keyword) {
			continue
		}
		day, err := rec.Day()
		if err != nil {
			continue
		}
		if explicit {
			if !spec.Start.IsZero() && day.BeforeDay(spec.Start) {
				continue
			}
			if !spec.End.IsZero() && day.AfterDay(spec.End) {
				continue
			}
		} else {
			if day.Year() != thisMonth.Year() || day.Month() != thisMonth.Month() {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// SortNewestFirst orders records by date descending, ties broken by id so
// the order is stable for equal days. Records with malformed dates sort
// last. The slice is sorted in place.
func SortNewestFirst(records []Transaction) {
	sort.SliceStable(records, func(i, j int) bool {
		di, erri := records[i].Day()
		dj, errj := records[j].Day()
		switch {
		case erri != nil && errj != nil:
			return records[i].ID < records[j].ID
		case erri != nil:
			return false
		case errj != nil:
			return true
		case !di.Equal(dj.Time):
			return di.AfterDay(dj)
		default:
			return records[i].ID > records[j].ID
		}
	})
}
