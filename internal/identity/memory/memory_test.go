package memory

import (
	"context"
	"errors"
	"testing"

	"thuchi/internal/identity"
)

func TestSignUpAndSignIn(t *testing.T) {
	p := New()
	ctx := context.Background()

	ident, err := p.SignUp(ctx, "a@example.com", "secret1")
	if err != nil || ident.UserID == "" || ident.Token == "" {
		t.Fatalf("sign up: %+v, %v", ident, err)
	}

	if _, err := p.SignUp(ctx, "a@example.com", "secret1"); !errors.Is(err, identity.ErrEmailInUse) {
		t.Fatalf("duplicate: %v", err)
	}
	if _, err := p.SignUp(ctx, "b@example.com", "short"); !errors.Is(err, identity.ErrWeakPassword) {
		t.Fatalf("weak: %v", err)
	}

	again, err := p.SignIn(ctx, "a@example.com", "secret1")
	if err != nil || again.UserID != ident.UserID {
		t.Fatalf("sign in: %+v, %v", again, err)
	}
	if again.Token == ident.Token {
		t.Fatalf("expected a fresh token per sign-in")
	}

	if _, err := p.SignIn(ctx, "a@example.com", "nope123"); !errors.Is(err, identity.ErrWrongPassword) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := p.SignIn(ctx, "ghost@example.com", "x"); !errors.Is(err, identity.ErrUserNotFound) {
		t.Fatalf("unknown: %v", err)
	}
}

func TestPasswordResetAndChange(t *testing.T) {
	p := New()
	ctx := context.Background()
	ident, _ := p.SignUp(ctx, "a@example.com", "secret1")

	if err := p.SendPasswordReset(ctx, "ghost@example.com"); !errors.Is(err, identity.ErrUserNotFound) {
		t.Fatalf("reset unknown: %v", err)
	}
	if err := p.SendPasswordReset(ctx, "a@example.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := p.ResetsSentTo(); len(got) != 1 || got[0] != "a@example.com" {
		t.Fatalf("resets: %v", got)
	}

	if _, err := p.ChangePassword(ctx, ident, "wrong", "newsecret"); !errors.Is(err, identity.ErrWrongPassword) {
		t.Fatalf("change with wrong current: %v", err)
	}
	if _, err := p.ChangePassword(ctx, ident, "secret1", "12345"); !errors.Is(err, identity.ErrWeakPassword) {
		t.Fatalf("change weak: %v", err)
	}
	if _, err := p.ChangePassword(ctx, ident, "secret1", "newsecret"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := p.SignIn(ctx, "a@example.com", "newsecret"); err != nil {
		t.Fatalf("sign in after change: %v", err)
	}
}
