// Package faults defines the error taxonomy shared by all components.
//
// Provider and store errors are converted to one of four kinds at the call
// site that observed them; nothing above the service layer ever sees a raw
// SDK error.
package faults

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindValidation: user input failed a local precondition. Never reaches
	// the network layer.
	KindValidation Kind = iota + 1
	// KindAuth: the identity provider rejected a credential operation.
	KindAuth
	// KindStore: a document-store read, write or subscription failed.
	KindStore
	// KindDataShape: a fetched record failed to parse. Per-record, the rest
	// of the set is still processed.
	KindDataShape
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindStore:
		return "store"
	case KindDataShape:
		return "data_shape"
	default:
		return "unknown"
	}
}

// Error carries a kind alongside the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a taxonomy error without an underlying cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates a taxonomy error with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an existing error. Returns nil for a nil cause.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the kind of err, or 0 if err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsAuth(err error) bool       { return KindOf(err) == KindAuth }
func IsStore(err error) bool      { return KindOf(err) == KindStore }
func IsDataShape(err error) bool  { return KindOf(err) == KindDataShape }
