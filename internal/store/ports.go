// Package store defines the outbound ports for the hosted document store.
// Adapters live in subpackages; the rest of the codebase depends only on
// the interfaces here.
package store

import (
	"context"
	"time"

	"thuchi/internal/core"
)

// Snapshot is one full point-in-time view of the matching records, as
// emitted by a live subscription. Err is set instead of Records when the
// subscription itself failed; Dropped counts records excluded because they
// did not decode ("skip and continue", never fatal for the batch).
type Snapshot struct {
	Records []core.Transaction
	Dropped int
	Err     error
}

// Profile is the per-user document kept next to the transactions.
type Profile struct {
	FullName  string
	Age       int
	Gender    string
	AvatarURL string
	Email     string
	CreatedAt time.Time
}

// TransactionStore is the remote transaction collection. Ownership rules
// (a record is visible only to its userId) are enforced by the store's
// access rules, not re-checked here.
type TransactionStore interface {
	// Create writes a new record and returns the store-assigned id.
	Create(ctx context.Context, tx core.Transaction) (string, error)

	// Update overwrites name, amount, type and updatedAt of an existing
	// record. Identity fields (id, userId, createdAt) never change.
	Update(ctx context.Context, tx core.Transaction) error

	// Delete removes the record. Hard delete; unknown ids are an error.
	Delete(ctx context.Context, id string) error

	// ListByUser reads the records owned by userID, filtered store-side
	// where the backend supports indexed queries.
	ListByUser(ctx context.Context, userID string) ([]core.Transaction, error)

	// ListAll reads the whole collection. The calendar view scans all
	// records to build its marking data and filters client-side.
	ListAll(ctx context.Context) ([]core.Transaction, error)

	// Watch opens a live subscription scoped to userID, or to the whole
	// collection when userID is empty. A new full snapshot is delivered
	// for every remote change until ctx is cancelled or stop is called;
	// the channel is closed on teardown.
	Watch(ctx context.Context, userID string) (snapshots <-chan Snapshot, stop func(), err error)
}

// ProfileStore is the remote users collection.
type ProfileStore interface {
	// Get reads a profile; ok is false when none exists yet.
	Get(ctx context.Context, userID string) (p Profile, ok bool, err error)

	// Put overwrites the profile document.
	Put(ctx context.Context, userID string, p Profile) error
}
