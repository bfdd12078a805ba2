package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// Defaults applied when a preference has never been set.
const (
	DefaultTheme           = "system"
	DefaultAutoLockMinutes = 15
)

// Preferences returns the unencrypted preferences, readable while locked.
// A malformed auto-lock value falls back to the default.
func (g *Gate) Preferences(ctx context.Context) (models.Preferences, error) {
	prefs := models.Preferences{
		Theme:           DefaultTheme,
		AutoLockMinutes: DefaultAutoLockMinutes,
	}

	theme, err := g.plainValues.Get(ctx, ThemeKey)
	switch {
	case err == nil:
		prefs.Theme = theme
	case !errors.Is(err, store.ErrKeyNotFound):
		return models.Preferences{}, fmt.Errorf("load theme: %w", err)
	}

	raw, err := g.plainValues.Get(ctx, AutoLockKey)
	switch {
	case err == nil:
		if minutes, convErr := strconv.Atoi(raw); convErr == nil {
			prefs.AutoLockMinutes = minutes
		}
	case !errors.Is(err, store.ErrKeyNotFound):
		return models.Preferences{}, fmt.Errorf("load auto-lock: %w", err)
	}

	return prefs, nil
}

// SetPreferences validates and stores prefs. A new auto-lock timeout takes
// effect immediately; zero disables auto-lock.
func (g *Gate) SetPreferences(ctx context.Context, prefs models.Preferences) error {
	if !validators.IsTheme(prefs.Theme) {
		return fmt.Errorf("%w: theme %q", ErrInvalidPreference, prefs.Theme)
	}
	if prefs.AutoLockMinutes < 0 {
		return fmt.Errorf("%w: auto-lock %d", ErrInvalidPreference, prefs.AutoLockMinutes)
	}

	if err := g.plainValues.Set(ctx, ThemeKey, prefs.Theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	if err := g.plainValues.Set(ctx, AutoLockKey, strconv.Itoa(prefs.AutoLockMinutes)); err != nil {
		return fmt.Errorf("save auto-lock: %w", err)
	}

	g.mu.Lock()
	g.autoLock = time.Duration(prefs.AutoLockMinutes) * time.Minute
	g.mu.Unlock()

	return nil
}
