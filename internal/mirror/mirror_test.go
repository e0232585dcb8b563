package mirror

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"thuchi/internal/core"
	"thuchi/internal/log"
	"thuchi/internal/store"
	"thuchi/internal/store/memory"
)

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func newMirror(t *testing.T) (*Mirror, *memory.Store) {
	t.Helper()
	s := memory.New()
	logger := log.NewWithHandler(slog.NewTextHandler(testWriter{}, nil), "test")
	return New(s, logger), s
}

func seed(t *testing.T, s *memory.Store, userID, name string, units int64) string {
	t.Helper()
	id, err := s.Create(context.Background(), core.Transaction{
		Name:   name,
		Amount: core.Money{Units: units},
		Type:   core.Expense,
		Date:   "2025-05-10T08:00:00Z",
		UserID: userID,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return id
}

func waitSnapshot(t *testing.T, c <-chan store.Snapshot) store.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-c:
		if !ok {
			t.Fatal("subscription channel closed unexpectedly")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return store.Snapshot{}
	}
}

func TestSubscribeScopesToUser(t *testing.T) {
	m, s := newMirror(t)
	seed(t, s, "u1", "Coffee", 40000)
	seed(t, s, "u2", "Taxi", 90000)

	sub, err := m.Subscribe(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Cancel()

	snap := waitSnapshot(t, sub.C)
	if len(snap.Records) != 1 || snap.Records[0].Name != "Coffee" {
		t.Errorf("unexpected scoped snapshot: %+v", snap.Records)
	}
}

func TestSubscribeAllSeesEveryUser(t *testing.T) {
	m, s := newMirror(t)
	seed(t, s, "u1", "Coffee", 40000)
	seed(t, s, "u2", "Taxi", 90000)

	sub, err := m.SubscribeAll(context.Background())
	if err != nil {
		t.Fatalf("SubscribeAll: %v", err)
	}
	defer sub.Cancel()

	snap := waitSnapshot(t, sub.C)
	if len(snap.Records) != 2 {
		t.Errorf("got %d records, want 2", len(snap.Records))
	}
}

func TestSubscriptionTracksWrites(t *testing.T) {
	m, s := newMirror(t)
	sub, err := m.Subscribe(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Cancel()

	first := waitSnapshot(t, sub.C)
	if len(first.Records) != 0 {
		t.Fatalf("initial snapshot should be empty, got %d records", len(first.Records))
	}

	seed(t, s, "u1", "Lunch", 55000)
	next := waitSnapshot(t, sub.C)
	if len(next.Records) != 1 || next.Records[0].Name != "Lunch" {
		t.Errorf("unexpected snapshot after write: %+v", next.Records)
	}

	latest, ok := sub.Latest()
	if !ok || len(latest.Records) != 1 {
		t.Errorf("Latest() = (%+v, %v), want the post-write snapshot", latest, ok)
	}
}

func TestCancelClosesChannel(t *testing.T) {
	m, _ := newMirror(t)
	sub, err := m.Subscribe(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	waitSnapshot(t, sub.C)
	sub.Cancel()
	sub.Cancel() // idempotent

	select {
	case _, ok := <-sub.C:
		if ok {
			// A snapshot may still be buffered; the next read must
			// observe the close.
			if _, ok := <-sub.C; ok {
				t.Error("channel still open after Cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after Cancel")
	}
}

func TestFetchOnce(t *testing.T) {
	m, s := newMirror(t)
	seed(t, s, "u1", "Coffee", 40000)
	seed(t, s, "u2", "Taxi", 90000)

	scoped, err := m.FetchOnce(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FetchOnce(u1): %v", err)
	}
	if len(scoped) != 1 {
		t.Errorf("scoped fetch returned %d records, want 1", len(scoped))
	}

	all, err := m.FetchOnce(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchOnce(all): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("full fetch returned %d records, want 2", len(all))
	}
}
