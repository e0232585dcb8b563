// Package memory is an in-memory identity.Provider used by tests and the
// memory backend. It mirrors the hosted provider's observable behavior:
// the same error categories, opaque uids and rotating session tokens.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"thuchi/internal/identity"
)

type account struct {
	userID   string
	password string
}

type Provider struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by email
	resets   []string            // emails a reset mail was "sent" to
}

var _ identity.Provider = (*Provider)(nil)

func New() *Provider {
	return &Provider{accounts: make(map[string]*account)}
}

func (p *Provider) SignUp(_ context.Context, email, password string) (identity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.accounts[email]; exists {
		return identity.Identity{}, identity.ErrEmailInUse
	}
	if len(password) < 6 {
		return identity.Identity{}, identity.ErrWeakPassword
	}
	acc := &account{userID: uuid.NewString(), password: password}
	p.accounts[email] = acc
	return identity.Identity{UserID: acc.userID, Email: email, Token: uuid.NewString()}, nil
}

func (p *Provider) SignIn(_ context.Context, email, password string) (identity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	acc, exists := p.accounts[email]
	if !exists {
		return identity.Identity{}, identity.ErrUserNotFound
	}
	if acc.password != password {
		return identity.Identity{}, identity.ErrWrongPassword
	}
	return identity.Identity{UserID: acc.userID, Email: email, Token: uuid.NewString()}, nil
}

func (p *Provider) SendPasswordReset(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.accounts[email]; !exists {
		return identity.ErrUserNotFound
	}
	p.resets = append(p.resets, email)
	return nil
}

func (p *Provider) ChangePassword(_ context.Context, ident identity.Identity, currentPassword, newPassword string) (identity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	acc, exists := p.accounts[ident.Email]
	if !exists {
		return identity.Identity{}, identity.ErrUserNotFound
	}
	if acc.password != currentPassword {
		return identity.Identity{}, identity.ErrWrongPassword
	}
	if len(newPassword) < 6 {
		return identity.Identity{}, identity.ErrWeakPassword
	}
	acc.password = newPassword
	return identity.Identity{UserID: acc.userID, Email: ident.Email, Token: uuid.NewString()}, nil
}

// ResetsSentTo returns the emails password-reset mails were requested for,
// in order. Test helper.
func (p *Provider) ResetsSentTo() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.resets...)
}
