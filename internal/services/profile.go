package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"thuchi/internal/faults"
	"thuchi/internal/log"
	"thuchi/internal/prefs"
	"thuchi/internal/store"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"

	maxAge = 150
)

// ProfileService manages the account profile in the hosted store and the
// locally cached avatar image.
type ProfileService struct {
	profiles store.ProfileStore
	prefs    *prefs.Store
	dataDir  string
	log      *log.Logger
	now      func() time.Time
}

func NewProfileService(profiles store.ProfileStore, p *prefs.Store, dataDir string, logger *log.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		prefs:    p,
		dataDir:  dataDir,
		log:      logger.WithComponent(log.ComponentProfile),
		now:      time.Now,
	}
}

// Get returns the stored profile. A user that never saved one gets an empty
// profile carrying only their email.
func (s *ProfileService) Get(ctx context.Context, userID, email string) (store.Profile, error) {
	p, ok, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return store.Profile{}, err
	}
	if !ok {
		return store.Profile{Email: email}, nil
	}
	if p.Email == "" {
		p.Email = email
	}
	return p, nil
}

// Bootstrap writes a minimal profile node for a fresh account, so the user
// exists in the store before the profile screen is ever filled in. Existing
// profiles are left alone.
func (s *ProfileService) Bootstrap(ctx context.Context, userID, email string) error {
	_, ok, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.profiles.Put(ctx, userID, store.Profile{
		Email:     email,
		CreatedAt: s.now().UTC(),
	})
}

func (s *ProfileService) Save(ctx context.Context, userID string, p store.Profile) error {
	if err := validateProfile(p); err != nil {
		return faults.Wrap(faults.KindValidation, "save profile", err)
	}
	existing, ok, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if ok && !existing.CreatedAt.IsZero() {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	if err := s.profiles.Put(ctx, userID, p); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Profile saved", log.FieldUserID, userID)
	return nil
}

// SaveAvatar copies the picked image into the app's data directory and
// remembers the path locally, so the picture survives restarts without a
// round trip to the store.
func (s *ProfileService) SaveAvatar(ctx context.Context, userID, srcPath string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", faults.Wrap(faults.KindValidation, "open avatar source", err)
	}
	defer src.Close()

	dir := filepath.Join(s.dataDir, "avatars")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create avatar directory: %w", err)
	}

	ext := filepath.Ext(srcPath)
	if ext == "" {
		ext = ".png"
	}
	dstPath := filepath.Join(dir, userID+ext)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy avatar: %w", err)
	}

	if err := s.prefs.Set(ctx, prefs.KeyAvatarPath, dstPath); err != nil {
		return "", err
	}

	s.log.InfoContext(ctx, "Avatar saved", log.FieldUserID, userID, log.FieldPath, dstPath)
	return dstPath, nil
}

// AvatarPath returns the locally cached avatar location, empty when none
// was ever saved.
func (s *ProfileService) AvatarPath(ctx context.Context) (string, error) {
	return s.prefs.GetOr(ctx, prefs.KeyAvatarPath, "")
}

func validateProfile(p store.Profile) error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("full name is required")
	}
	if p.Age < 1 || p.Age > maxAge {
		return fmt.Errorf("age must be between 1 and %d", maxAge)
	}
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		return fmt.Errorf("gender must be %q or %q", GenderMale, GenderFemale)
	}
	return nil
}
