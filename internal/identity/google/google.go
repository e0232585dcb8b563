// Package google adapts the Firebase Auth REST surface (Identity Toolkit)
// to the identity.Provider port.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"thuchi/internal/identity"
	"thuchi/internal/log"
)

type Provider struct {
	svc *identitytoolkit.Service
	log *log.Logger
}

var _ identity.Provider = (*Provider)(nil)

// New creates a provider using the project's web API key. The key is a
// routing identifier, not a secret; per-user access is carried by the
// tokens the provider issues.
func New(ctx context.Context, apiKey string, logger *log.Logger) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing identity API key")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("identity toolkit service: %w", err)
	}
	return &Provider{svc: svc, log: logger.WithComponent(log.ComponentIdentity)}, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (identity.Identity, error) {
	resp, err := p.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return identity.Identity{}, mapProviderError(err)
	}
	return identity.Identity{UserID: resp.LocalId, Email: email, Token: resp.IdToken}, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (identity.Identity, error) {
	resp, err := p.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return identity.Identity{}, mapProviderError(err)
	}
	return identity.Identity{UserID: resp.LocalId, Email: resp.Email, Token: resp.IdToken}, nil
}

func (p *Provider) SendPasswordReset(ctx context.Context, email string) error {
	_, err := p.svc.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}).Context(ctx).Do()
	if err != nil {
		return mapProviderError(err)
	}
	p.log.InfoContext(ctx, "Password reset mail requested")
	return nil
}

func (p *Provider) ChangePassword(ctx context.Context, ident identity.Identity, currentPassword, newPassword string) (identity.Identity, error) {
	// Re-authenticate first; the provider requires a recent sign-in for
	// password updates.
	fresh, err := p.SignIn(ctx, ident.Email, currentPassword)
	if err != nil {
		return identity.Identity{}, err
	}
	resp, err := p.svc.Relyingparty.SetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{
		IdToken:           fresh.Token,
		Password:          newPassword,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return identity.Identity{}, mapProviderError(err)
	}
	token := resp.IdToken
	if token == "" {
		token = fresh.Token
	}
	return identity.Identity{UserID: fresh.UserID, Email: fresh.Email, Token: token}, nil
}

// mapProviderError converts Identity Toolkit error codes to the port's
// categories. Unknown codes pass through wrapped so the caller still sees
// an auth failure, not a transport detail.
func mapProviderError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("identity provider: %w", err)
	}
	code := gerr.Message
	switch {
	case strings.HasPrefix(code, "EMAIL_NOT_FOUND"):
		return identity.ErrUserNotFound
	case strings.HasPrefix(code, "INVALID_PASSWORD"),
		strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"):
		return identity.ErrWrongPassword
	case strings.HasPrefix(code, "EMAIL_EXISTS"):
		return identity.ErrEmailInUse
	case strings.HasPrefix(code, "WEAK_PASSWORD"):
		return identity.ErrWeakPassword
	case strings.HasPrefix(code, "INVALID_EMAIL"):
		return identity.ErrInvalidEmail
	case strings.HasPrefix(code, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return identity.ErrTooManyRequests
	case strings.HasPrefix(code, "INVALID_ID_TOKEN"),
		strings.HasPrefix(code, "TOKEN_EXPIRED"),
		strings.HasPrefix(code, "CREDENTIAL_TOO_OLD_LOGIN_AGAIN"):
		return identity.ErrSessionExpired
	default:
		return fmt.Errorf("identity provider: %s", code)
	}
}
