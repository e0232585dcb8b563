// Package memory is an in-memory document store used by tests and the
// memory backend. It reproduces the hosted store's observable contract:
// store-assigned ids, full-snapshot notifications on every change, and
// per-watcher scoping.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"thuchi/internal/core"
	"thuchi/internal/store"
)

var ErrNotFound = errors.New("record not found")

type watcher struct {
	userID string // empty = whole collection
	ch     chan store.Snapshot
	done   chan struct{}
}

type Store struct {
	mu       sync.Mutex
	records  map[string]core.Transaction
	profiles map[string]store.Profile
	watchers map[*watcher]struct{}
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.ProfileStore     = (*Store)(nil)
)

func New() *Store {
	return &Store{
		records:  make(map[string]core.Transaction),
		profiles: make(map[string]store.Profile),
		watchers: make(map[*watcher]struct{}),
	}
}

func (s *Store) Create(_ context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	tx.ID = uuid.NewString()
	s.records[tx.ID] = tx
	s.mu.Unlock()
	s.broadcast()
	return tx.ID, nil
}

func (s *Store) Update(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	cur, ok := s.records[tx.ID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	cur.Name = tx.Name
	cur.Amount = tx.Amount
	cur.Type = tx.Type
	cur.UpdatedAt = tx.UpdatedAt
	s.records[tx.ID] = cur
	s.mu.Unlock()
	s.broadcast()
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.records[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.records, id)
	s.mu.Unlock()
	s.broadcast()
	return nil
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(userID), nil
}

func (s *Store) ListAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(""), nil
}

func (s *Store) Watch(ctx context.Context, userID string) (<-chan store.Snapshot, func(), error) {
	w := &watcher{
		userID: userID,
		ch:     make(chan store.Snapshot, 1),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.watchers[w] = struct{}{}
	// Buffered send cannot block here: the watcher was registered under
	// the same lock every other sender takes.
	w.ch <- store.Snapshot{Records: s.snapshotLocked(userID)}
	s.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, w)
			s.mu.Unlock()
			close(w.done)
			close(w.ch)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-w.done:
		}
	}()
	return w.ch, stop, nil
}

func (s *Store) Get(_ context.Context, userID string) (store.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	return p, ok, nil
}

func (s *Store) Put(_ context.Context, userID string, p store.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = p
	return nil
}

// broadcast delivers a fresh full snapshot to every watcher. A watcher that
// has not consumed the previous snapshot gets it replaced: only the latest
// state matters.
func (s *Store) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for w := range s.watchers {
		snap := store.Snapshot{Records: s.snapshotLocked(w.userID)}
		select {
		case w.ch <- snap:
		default:
			select {
			case <-w.ch:
			default:
			}
			w.ch <- snap
		}
	}
}

// snapshotLocked copies the matching records sorted by id so snapshots are
// deterministic. Callers hold s.mu.
func (s *Store) snapshotLocked(userID string) []core.Transaction {
	out := make([]core.Transaction, 0, len(s.records))
	for _, rec := range s.records {
		if userID != "" && rec.UserID != userID {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
