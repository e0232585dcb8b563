package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// CategoryOther is the documented default bucket for records without a
// category. A record's Category field being empty means "absent", never
// "named empty"; use Transaction.CategoryOrDefault instead of testing the
// field directly.
const CategoryOther = "other"

type (
	// TxType is the kind of a transaction, exactly income or expense.
	TxType string

	// Money is an amount in whole currency-agnostic units.
	Money struct {
		Units int64
	}

	// Day is a calendar date truncated to day precision, UTC.
	Day struct {
		time.Time
	}

	// Transaction is one income or expense event owned by a user.
	// ID is assigned by the remote store on creation and immutable after.
	// Date stays the raw ISO-8601 string as stored remotely; it may be
	// malformed on records written by older clients, so consumers go
	// through Day() and skip records it rejects.
	Transaction struct {
		ID        string
		Name      string
		Amount    Money
		Type      TxType
		Date      string
		UserID    string
		Category  string
		CreatedAt time.Time
		UpdatedAt time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrMissingUser   = errors.New("missing user id")
)

// Valid reports whether t is one of the two known transaction types.
func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

func (m Money) Validate() error {
	if m.Units <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NewDay creates a Day from year, month, day.
func NewDay(year, month, day int) Day {
	return Day{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates an instant to its calendar day.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), int(t.Month()), t.Day())
}

// ParseDay parses the calendar-day prefix of an ISO-8601 string
// ("2025-03-14" or "2025-03-14T09:30:00.000Z"). Anything other than a
// time-of-day suffix after the day is rejected.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		if s[10] != 'T' {
			return Day{}, ErrInvalidDate
		}
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, ErrInvalidDate
	}
	return Day{Time: t}, nil
}

func (d Day) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d is strictly before other.
func (d Day) BeforeDay(other Day) bool {
	return d.Time.Before(other.Time)
}

// AfterDay reports whether d is strictly after other.
func (d Day) AfterDay(other Day) bool {
	return d.Time.After(other.Time)
}

// Day parses the record's date field. Records for which this fails are
// excluded from filtering and aggregation but never abort a batch.
func (t Transaction) Day() (Day, error) {
	return ParseDay(t.Date)
}

// CategoryOrDefault returns the record's category, or CategoryOther when
// the record carries none.
func (t Transaction) CategoryOrDefault() string {
	c := strings.TrimSpace(t.Category)
	if c == "" {
		return CategoryOther
	}
	return c
}

// Validate checks the local preconditions for writing a transaction.
// Store-side rules (ownership enforcement) are not duplicated here.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if _, err := t.Day(); err != nil {
		return err
	}
	if strings.TrimSpace(t.UserID) == "" {
		return ErrMissingUser
	}
	return nil
}
