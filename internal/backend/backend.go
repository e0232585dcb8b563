// Package backend assembles the storage and identity adapters selected by
// configuration: the hosted Firebase pair for production, the in-memory
// pair for development and tests.
package backend

import (
	"context"

	"thuchi/internal/identity"
	"thuchi/internal/store"
)

// Backend bundles the adapters every service layer component needs.
type Backend struct {
	Transactions store.TransactionStore
	Profiles     store.ProfileStore
	Identity     identity.Provider
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result contains the backend instance and its cleanup function.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*Result, error)
}

// Config holds everything backend creation needs.
type Config struct {
	Type Type

	// Firebase specific
	FirebaseProjectID     string
	FirebaseAPIKey        string
	GoogleCredentialsFile string
}

type Type string

const (
	FirebaseBackend Type = "firebase"
	MemoryBackend   Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case FirebaseBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
