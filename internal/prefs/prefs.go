// Package prefs stores device-local settings in SQLite: things that belong
// to the installation rather than the account, like the unlock PIN, the
// saved avatar path, theme and language.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	_ "modernc.org/sqlite"
)

// Well-known keys. Values are plain strings; callers own the encoding.
const (
	KeyAvatarPath = "avatar_path"
	KeyAppPIN     = "app_pin"
	KeyTheme      = "theme"
	KeyLanguage   = "language"

	KeySessionUserID = "session_user_id"
	KeySessionEmail  = "session_email"
	KeySessionToken  = "session_token"
)

var (
	ErrNotFound   = errors.New("preference not found")
	ErrInvalidPIN = errors.New("pin must be 4 to 6 digits")
)

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference %s: %w", key, err)
	}
	return value, nil
}

// GetOr returns the stored value or fallback when the key is unset.
func (s *Store) GetOr(ctx context.Context, key, fallback string) (string, error) {
	value, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM prefs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete preference %s: %w", key, err)
	}
	return nil
}

// SetPIN validates and stores the app unlock PIN.
func (s *Store) SetPIN(ctx context.Context, pin string) error {
	if !validPIN(pin) {
		return ErrInvalidPIN
	}
	return s.Set(ctx, KeyAppPIN, pin)
}

// CheckPIN reports whether the candidate matches the stored PIN. With no
// PIN configured the lock screen is disabled and every candidate passes.
func (s *Store) CheckPIN(ctx context.Context, candidate string) (bool, error) {
	stored, err := s.Get(ctx, KeyAppPIN)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return stored == candidate, nil
}

func validPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 6 {
		return false
	}
	return strings.IndexFunc(pin, func(r rune) bool { return !unicode.IsDigit(r) }) == -1
}
