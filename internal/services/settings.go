package services

import (
	"context"
	"fmt"

	"thuchi/internal/faults"
	"thuchi/internal/log"
	"thuchi/internal/prefs"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	defaultLanguage = "en"
)

// SettingsService fronts the device-local preferences: theme, language and
// the app unlock PIN.
type SettingsService struct {
	prefs *prefs.Store
	log   *log.Logger
}

func NewSettingsService(p *prefs.Store, logger *log.Logger) *SettingsService {
	return &SettingsService{prefs: p, log: logger.WithComponent(log.ComponentPrefs)}
}

func (s *SettingsService) Theme(ctx context.Context) (string, error) {
	return s.prefs.GetOr(ctx, prefs.KeyTheme, ThemeLight)
}

func (s *SettingsService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return faults.New(faults.KindValidation, fmt.Sprintf("unknown theme %q", theme))
	}
	return s.prefs.Set(ctx, prefs.KeyTheme, theme)
}

func (s *SettingsService) Language(ctx context.Context) (string, error) {
	return s.prefs.GetOr(ctx, prefs.KeyLanguage, defaultLanguage)
}

func (s *SettingsService) SetLanguage(ctx context.Context, lang string) error {
	if lang == "" {
		return faults.New(faults.KindValidation, "language must not be empty")
	}
	return s.prefs.Set(ctx, prefs.KeyLanguage, lang)
}

func (s *SettingsService) SetPIN(ctx context.Context, pin string) error {
	if err := s.prefs.SetPIN(ctx, pin); err != nil {
		return faults.Wrap(faults.KindValidation, "set pin", err)
	}
	s.log.InfoContext(ctx, "App PIN updated")
	return nil
}

func (s *SettingsService) ClearPIN(ctx context.Context) error {
	return s.prefs.Delete(ctx, prefs.KeyAppPIN)
}

// Unlock checks the candidate against the stored PIN. Without a configured
// PIN the app is considered unlocked.
func (s *SettingsService) Unlock(ctx context.Context, candidate string) (bool, error) {
	return s.prefs.CheckPIN(ctx, candidate)
}
