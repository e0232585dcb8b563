package prefs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, KeyTheme, "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, KeyTheme)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "dark" {
		t.Errorf("Get = %q, want %q", got, "dark")
	}

	// Overwrite wins.
	if err := s.Set(ctx, KeyTheme, "light"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = s.Get(ctx, KeyTheme)
	if got != "light" {
		t.Errorf("Get after overwrite = %q, want %q", got, "light")
	}
}

func TestGetMissingKey(t *testing.T) {
	s := openStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestGetOrFallback(t *testing.T) {
	s := openStore(t)
	got, err := s.GetOr(context.Background(), KeyLanguage, "vi")
	if err != nil {
		t.Fatalf("GetOr: %v", err)
	}
	if got != "vi" {
		t.Errorf("GetOr = %q, want fallback %q", got, "vi")
	}
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	if err := s.Set(ctx, KeyAvatarPath, "avatars/u1.png"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete(ctx, KeyAvatarPath); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, KeyAvatarPath); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestPIN(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for _, bad := range []string{"", "123", "1234567", "12a4", "12 34"} {
		if err := s.SetPIN(ctx, bad); !errors.Is(err, ErrInvalidPIN) {
			t.Errorf("SetPIN(%q) = %v, want ErrInvalidPIN", bad, err)
		}
	}

	// No PIN configured means the lock is off.
	ok, err := s.CheckPIN(ctx, "0000")
	if err != nil || !ok {
		t.Fatalf("CheckPIN without PIN = (%v, %v), want (true, nil)", ok, err)
	}

	if err := s.SetPIN(ctx, "4821"); err != nil {
		t.Fatalf("SetPIN: %v", err)
	}
	if ok, _ := s.CheckPIN(ctx, "4821"); !ok {
		t.Error("CheckPIN with correct PIN = false")
	}
	if ok, _ := s.CheckPIN(ctx, "0000"); ok {
		t.Error("CheckPIN with wrong PIN = true")
	}
}
