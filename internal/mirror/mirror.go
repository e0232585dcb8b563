// Package mirror keeps a live local copy of the hosted transaction set.
// It wraps the store's watch primitive with coalescing delivery and a
// cached latest snapshot, so views always render the most recent state
// without queueing every intermediate update.
package mirror

import (
	"context"
	"sync"

	"thuchi/internal/core"
	"thuchi/internal/log"
	"thuchi/internal/store"
)

type Mirror struct {
	store store.TransactionStore
	log   *log.Logger
}

func New(s store.TransactionStore, logger *log.Logger) *Mirror {
	return &Mirror{store: s, log: logger.WithComponent(log.ComponentMirror)}
}

// Subscription is a live feed of snapshots for one scope. C closes after
// Cancel, when the watch context ends or when the store reports a terminal
// error. The error is delivered as the final snapshot, never swallowed.
type Subscription struct {
	C <-chan store.Snapshot

	stop     func()
	stopOnce sync.Once

	mu     sync.Mutex
	latest store.Snapshot
	seen   bool
}

func (s *Subscription) Cancel() {
	s.stopOnce.Do(s.stop)
}

// Latest returns the most recent snapshot observed on this subscription
// and whether any snapshot has arrived yet.
func (s *Subscription) Latest() (store.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.seen
}

func (s *Subscription) setLatest(snap store.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	s.seen = true
	s.mu.Unlock()
}

// Subscribe follows the transactions of a single user using the store's
// server-side scoping.
func (m *Mirror) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	return m.subscribe(ctx, userID)
}

// SubscribeAll follows the full transaction set. Calendar and overview
// screens filter client-side from this feed.
func (m *Mirror) SubscribeAll(ctx context.Context) (*Subscription, error) {
	return m.subscribe(ctx, "")
}

func (m *Mirror) subscribe(ctx context.Context, userID string) (*Subscription, error) {
	in, stop, err := m.store.Watch(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(chan store.Snapshot, 1)
	sub := &Subscription{C: out, stop: stop}

	go func() {
		defer close(out)
		for snap := range in {
			sub.setLatest(snap)
			if snap.Err != nil {
				m.log.ErrorContext(ctx, "Subscription failed",
					log.FieldOperation, log.OpWatch,
					log.FieldUserID, userID,
					log.FieldError, snap.Err)
			} else if snap.Dropped > 0 {
				m.log.WarnContext(ctx, "Snapshot dropped malformed records",
					log.FieldOperation, log.OpWatch,
					log.FieldUserID, userID,
					log.FieldDropped, snap.Dropped)
			}
			forward(out, snap)
		}
	}()
	return sub, nil
}

// FetchOnce reads the current state without subscribing. An empty userID
// fetches every record.
func (m *Mirror) FetchOnce(ctx context.Context, userID string) ([]core.Transaction, error) {
	if userID == "" {
		return m.store.ListAll(ctx)
	}
	return m.store.ListByUser(ctx, userID)
}

// forward replaces an unconsumed snapshot instead of blocking: a slow
// consumer only ever sees the newest state.
func forward(out chan store.Snapshot, snap store.Snapshot) {
	select {
	case out <- snap:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- snap:
	default:
	}
}
