// Package session implements the session gate: it tracks whether a user
// identity is established, validates credentials locally before any network
// call, and owns the context that scopes live subscriptions to the current
// session.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/badoux/checkmail"

	"thuchi/internal/faults"
	"thuchi/internal/identity"
	"thuchi/internal/log"
)

type State int

const (
	SignedOut State = iota
	SignedIn
)

func (s State) String() string {
	if s == SignedIn {
		return "signed_in"
	}
	return "signed_out"
}

// MinPasswordLength matches the provider's own weak-password rule so the
// obvious case is rejected before the network round-trip.
const MinPasswordLength = 6

// Gate is the only holder of the current identity. The state machine is
// SignedOut -> SignedIn on credential exchange and SignedIn -> SignedOut on
// sign-out or session invalidation; there are no other transitions.
type Gate struct {
	provider identity.Provider
	log      *log.Logger

	mu     sync.Mutex
	state  State
	ident  identity.Identity
	ctx    context.Context
	cancel context.CancelFunc
}

func NewGate(provider identity.Provider, logger *log.Logger) *Gate {
	g := &Gate{
		provider: provider,
		log:      logger.WithComponent(log.ComponentSession),
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())
	g.cancel() // signed out: session context starts cancelled
	return g
}

// Current returns the identity and whether a session is established.
func (g *Gate) Current() (identity.Identity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ident, g.state == SignedIn
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Context returns the session-scoped context. It is cancelled the moment
// the session ends, which tears down every subscription derived from it;
// while signed out it is already cancelled.
func (g *Gate) Context() context.Context {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ctx
}

// SignUp registers a new account and establishes the session.
func (g *Gate) SignUp(ctx context.Context, email, password, confirm string) (identity.Identity, error) {
	if err := validateEmail(email); err != nil {
		return identity.Identity{}, err
	}
	if len(password) < MinPasswordLength {
		return identity.Identity{}, faults.Newf(faults.KindValidation, "password must be at least %d characters", MinPasswordLength)
	}
	if password != confirm {
		return identity.Identity{}, faults.New(faults.KindValidation, "password confirmation does not match")
	}
	ident, err := g.provider.SignUp(ctx, email, password)
	if err != nil {
		return identity.Identity{}, faults.Wrap(faults.KindAuth, "sign up", err)
	}
	g.establish(ident)
	g.log.InfoContext(ctx, "Signed up", log.FieldOperation, log.OpSignUp, log.FieldUserID, ident.UserID)
	return ident, nil
}

// SignIn exchanges credentials for a session. Any previous session is torn
// down first so no subscription outlives the identity it was opened for.
func (g *Gate) SignIn(ctx context.Context, email, password string) (identity.Identity, error) {
	if err := validateEmail(email); err != nil {
		return identity.Identity{}, err
	}
	if password == "" {
		return identity.Identity{}, faults.New(faults.KindValidation, "password is required")
	}
	ident, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		return identity.Identity{}, faults.Wrap(faults.KindAuth, "sign in", err)
	}
	g.establish(ident)
	g.log.InfoContext(ctx, "Signed in", log.FieldOperation, log.OpSignIn, log.FieldUserID, ident.UserID)
	return ident, nil
}

// SignOut ends the session and cancels the session context.
func (g *Gate) SignOut() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == SignedOut {
		return
	}
	g.cancel()
	g.state = SignedOut
	g.ident = identity.Identity{}
	g.log.Info("Signed out", log.FieldOperation, log.OpSignOut)
}

// Invalidate handles the provider reporting an expired or revoked session.
// Same transition as SignOut; kept separate so call sites read honestly.
func (g *Gate) Invalidate() {
	g.SignOut()
}

// Restore seeds the gate from a persisted identity (process restart with a
// stored token). Returns false when the identity is unusable.
func (g *Gate) Restore(ident identity.Identity) bool {
	if ident.UserID == "" || ident.Token == "" {
		return false
	}
	g.establish(ident)
	g.log.Info("Session restored", log.FieldUserID, ident.UserID)
	return true
}

// SendPasswordReset validates the address locally, then delegates.
func (g *Gate) SendPasswordReset(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := g.provider.SendPasswordReset(ctx, email); err != nil {
		return faults.Wrap(faults.KindAuth, "password reset", err)
	}
	return nil
}

// ChangePassword re-authenticates and updates the credential for the
// current session. The refreshed identity replaces the held one.
func (g *Gate) ChangePassword(ctx context.Context, currentPassword, newPassword, confirm string) error {
	ident, ok := g.Current()
	if !ok {
		return faults.New(faults.KindAuth, "not signed in")
	}
	if currentPassword == "" {
		return faults.New(faults.KindValidation, "current password is required")
	}
	if len(newPassword) < MinPasswordLength {
		return faults.Newf(faults.KindValidation, "password must be at least %d characters", MinPasswordLength)
	}
	if newPassword != confirm {
		return faults.New(faults.KindValidation, "password confirmation does not match")
	}
	fresh, err := g.provider.ChangePassword(ctx, ident, currentPassword, newPassword)
	if err != nil {
		return faults.Wrap(faults.KindAuth, "change password", err)
	}
	g.mu.Lock()
	if g.state == SignedIn && g.ident.UserID == fresh.UserID {
		g.ident = fresh
	}
	g.mu.Unlock()
	return nil
}

func (g *Gate) establish(ident identity.Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == SignedIn {
		// Replacing a session: cancel the old scope first.
		g.cancel()
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())
	g.state = SignedIn
	g.ident = ident
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return faults.New(faults.KindValidation, "email is required")
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return faults.Wrap(faults.KindValidation, "invalid email", err)
	}
	return nil
}
