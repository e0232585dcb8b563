package session

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"thuchi/internal/identity"
	"thuchi/internal/log"
	"thuchi/internal/prefs"
)

func newKeeper(t *testing.T) *Keeper {
	t.Helper()
	p, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("prefs.Open: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return NewKeeper(p, log.NewWithHandler(slog.NewTextHandler(testWriter{}, nil), "test"))
}

func TestKeeperRoundTrip(t *testing.T) {
	k := newKeeper(t)
	ctx := context.Background()

	if _, ok := k.Load(ctx); ok {
		t.Fatal("fresh keeper reported a persisted session")
	}

	ident := identity.Identity{UserID: "u1", Email: "a@example.com", Token: "tok-1"}
	if err := k.Save(ctx, ident); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok := k.Load(ctx)
	if !ok || got != ident {
		t.Fatalf("Load = (%+v, %v), want saved identity", got, ok)
	}

	if err := k.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := k.Load(ctx); ok {
		t.Fatal("session survived Clear")
	}
}

func TestKeeperIgnoresIncompleteSession(t *testing.T) {
	k := newKeeper(t)
	ctx := context.Background()

	if err := k.Save(ctx, identity.Identity{UserID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := k.Load(ctx); ok {
		t.Fatal("identity without a token must not restore")
	}
}

func TestRestoreFromKeeper(t *testing.T) {
	k := newKeeper(t)
	ctx := context.Background()

	ident := identity.Identity{UserID: "u1", Email: "a@example.com", Token: "tok-1"}
	if err := k.Save(ctx, ident); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// a fresh gate, as on process start
	g, _ := newGate()
	saved, ok := k.Load(ctx)
	if !ok || !g.Restore(saved) {
		t.Fatalf("restore: (%+v, %v)", saved, ok)
	}
	cur, ok := g.Current()
	if !ok || cur != ident {
		t.Fatalf("current after restore = (%+v, %v)", cur, ok)
	}
}
