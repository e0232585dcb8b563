package session

import (
	"context"

	"thuchi/internal/identity"
	"thuchi/internal/log"
	"thuchi/internal/prefs"
)

// Keeper persists the signed-in identity in the device-local preference
// store, so a process restart resumes the previous session instead of
// starting signed out.
type Keeper struct {
	prefs *prefs.Store
	log   *log.Logger
}

func NewKeeper(p *prefs.Store, logger *log.Logger) *Keeper {
	return &Keeper{prefs: p, log: logger.WithComponent(log.ComponentSession)}
}

func (k *Keeper) Save(ctx context.Context, ident identity.Identity) error {
	if err := k.prefs.Set(ctx, prefs.KeySessionUserID, ident.UserID); err != nil {
		return err
	}
	if err := k.prefs.Set(ctx, prefs.KeySessionEmail, ident.Email); err != nil {
		return err
	}
	return k.prefs.Set(ctx, prefs.KeySessionToken, ident.Token)
}

// Load returns the persisted identity. A missing or incomplete one (no
// user id or token) reports false.
func (k *Keeper) Load(ctx context.Context) (identity.Identity, bool) {
	userID, err := k.prefs.GetOr(ctx, prefs.KeySessionUserID, "")
	if err != nil || userID == "" {
		return identity.Identity{}, false
	}
	email, err := k.prefs.GetOr(ctx, prefs.KeySessionEmail, "")
	if err != nil {
		return identity.Identity{}, false
	}
	token, err := k.prefs.GetOr(ctx, prefs.KeySessionToken, "")
	if err != nil || token == "" {
		return identity.Identity{}, false
	}
	return identity.Identity{UserID: userID, Email: email, Token: token}, true
}

func (k *Keeper) Clear(ctx context.Context) error {
	for _, key := range []string{prefs.KeySessionUserID, prefs.KeySessionEmail, prefs.KeySessionToken} {
		if err := k.prefs.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
