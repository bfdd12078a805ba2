// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session guards access to the encrypted store with a PIN and locks
// it again after a period of inactivity.
package session

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/crypto"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/workers"
)

// Plain value keys. Every key owned by the application starts with
// [KeyPrefix].
const (
	KeyPrefix   = "fm_"
	PINHashKey  = "fm_pin_hash"
	ThemeKey    = "fm_theme"
	AutoLockKey = "fm_auto_lock"
)

const (
	minPINLength = 4
	maxPINLength = 6
)

// Gate owns the PIN lifecycle: setup, login, logout, auto-lock and wipe.
type Gate struct {
	vault       Vault
	plainValues store.PlainValueRepository
	provider    crypto.Provider
	logger      *logger.Logger
	now         func() time.Time

	job workers.Worker

	mu           sync.Mutex
	lastActivity time.Time
	autoLock     time.Duration
}

// NewGate returns a gate over vault. checkInterval is how often inactivity
// is checked while unlocked.
func NewGate(vault Vault, plainValues store.PlainValueRepository, provider crypto.Provider, checkInterval time.Duration, logger *logger.Logger) *Gate {
	g := &Gate{
		vault:       vault,
		plainValues: plainValues,
		provider:    provider,
		logger:      logger,
		now:         time.Now,
	}
	g.job = workers.NewTickerWorker(func(context.Context) { g.checkIdle() }, checkInterval)
	return g
}

// AutoLockWorker returns the worker that enforces auto-lock. It is started
// by a successful login and stopped by [Gate.Logout].
func (g *Gate) AutoLockWorker() workers.Worker {
	return g.job
}

// HasPIN reports whether a PIN has been set up on this device.
func (g *Gate) HasPIN(ctx context.Context) (bool, error) {
	_, err := g.plainValues.Get(ctx, PINHashKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check PIN: %w", err)
	}
	return true, nil
}

// Setup stores the verification hash of pin and unlocks the store.
func (g *Gate) Setup(ctx context.Context, pin string) error {
	if err := ValidatePIN(pin); err != nil {
		return err
	}

	exists, err := g.HasPIN(ctx)
	if err != nil {
		return err
	}
	if exists {
		return ErrPINAlreadySet
	}

	if err = g.plainValues.Set(ctx, PINHashKey, g.hashPIN(pin)); err != nil {
		return fmt.Errorf("store PIN hash: %w", err)
	}

	g.logger.Info().Str("func", "Gate.Setup").Msg("PIN set up")
	return g.unlock(ctx, pin)
}

// Login checks pin against the stored hash and unlocks the store.
func (g *Gate) Login(ctx context.Context, pin string) error {
	stored, err := g.plainValues.Get(ctx, PINHashKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return ErrPINNotSet
	}
	if err != nil {
		return fmt.Errorf("load PIN hash: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(g.hashPIN(pin)), []byte(stored)) != 1 {
		g.logger.Warn().Str("func", "Gate.Login").Msg("wrong PIN entered")
		return ErrWrongPIN
	}

	return g.unlock(ctx, pin)
}

// Logout locks the store and stops the auto-lock job.
func (g *Gate) Logout() {
	g.job.Stop()
	g.vault.Lock()
}

// Touch records user activity, postponing auto-lock.
func (g *Gate) Touch() {
	g.mu.Lock()
	g.lastActivity = g.now()
	g.mu.Unlock()
}

// Require returns [ErrLocked] unless the store is unlocked, and records
// activity otherwise.
func (g *Gate) Require() error {
	if !g.vault.IsOpen() {
		return ErrLocked
	}
	g.Touch()
	return nil
}

// Wipe locks the session, destroys every record and removes every
// application key, PIN hash included.
func (g *Gate) Wipe(ctx context.Context) error {
	g.Logout()

	if err := g.vault.Destroy(ctx); err != nil {
		return fmt.Errorf("wipe: %w", err)
	}
	if err := g.plainValues.DeletePrefix(ctx, KeyPrefix); err != nil {
		return fmt.Errorf("wipe: %w", err)
	}

	g.logger.Info().Str("func", "Gate.Wipe").Msg("all local data wiped")
	return nil
}

func (g *Gate) unlock(ctx context.Context, pin string) error {
	if err := g.vault.Open(ctx, pin); err != nil {
		return fmt.Errorf("unlock: %w", err)
	}

	prefs, err := g.Preferences(ctx)
	if err != nil {
		g.vault.Lock()
		return err
	}

	g.mu.Lock()
	g.autoLock = time.Duration(prefs.AutoLockMinutes) * time.Minute
	g.lastActivity = g.now()
	g.mu.Unlock()

	g.job.Start(ctx)
	return nil
}

// checkIdle locks the store once the inactivity window has elapsed.
func (g *Gate) checkIdle() {
	g.mu.Lock()
	limit := g.autoLock
	idle := g.now().Sub(g.lastActivity)
	g.mu.Unlock()

	if limit <= 0 || idle < limit || !g.vault.IsOpen() {
		return
	}

	g.vault.Lock()
	g.logger.Info().
		Str("func", "Gate.checkIdle").
		Dur("idle", idle).
		Msg("session auto-locked")
}

func (g *Gate) hashPIN(pin string) string {
	return hex.EncodeToString(g.provider.Digest([]byte(pin)))
}

// ValidatePIN accepts 4 to 6 ASCII digits.
func ValidatePIN(pin string) error {
	if len(pin) < minPINLength || len(pin) > maxPINLength {
		return ErrInvalidPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}
