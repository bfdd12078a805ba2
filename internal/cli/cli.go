// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli implements the finkeeper subcommands. Every command that
// touches encrypted data asks for the PIN first and locks the store again
// when it returns.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/MKhiriev/go-finance-keeper/internal/backup"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/internal/session"
	"github.com/MKhiriev/go-finance-keeper/internal/vault"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// maxPINAttempts is how many wrong PINs a command tolerates before failing.
const maxPINAttempts = 3

// Prompter asks the user for input. [tui.TUI] is the terminal
// implementation.
type Prompter interface {
	PromptPIN(title string, validate func(string) error) (string, error)
	PromptNewPIN(title string, validate func(string) error) (string, error)
	Confirm(message string) (bool, error)
}

// Clipboard receives text copied for the user.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard is the OS clipboard.
var SystemClipboard Clipboard = systemClipboard{}

// Env is what the commands operate on.
type Env struct {
	Gate      *session.Gate
	Store     *vault.Store
	Codec     *backup.Codec
	Services  *service.Services
	Prompt    Prompter
	Clipboard Clipboard

	BackupDir string
	Build     models.AppBuildInfo

	Out    io.Writer
	Err    io.Writer
	Logger *logger.Logger
	Now    func() time.Time

	// pin is the PIN of the current unlock, kept for export.
	pin string
}

// Register adds every command to c.
func Register(c *subcommands.Commander, env *Env) {
	c.Register(&setupCmd{env: env}, "session")
	c.Register(&prefsCmd{env: env}, "session")
	c.Register(&settingsCmd{env: env}, "session")
	c.Register(&wipeCmd{env: env}, "session")
	c.Register(&versionCmd{env: env}, "session")

	c.Register(&accountAddCmd{env: env}, "accounts")
	c.Register(&accountsCmd{env: env}, "accounts")
	c.Register(&accountDeleteCmd{env: env}, "accounts")

	c.Register(&txAddCmd{env: env}, "transactions")
	c.Register(&txsCmd{env: env}, "transactions")
	c.Register(&txDeleteCmd{env: env}, "transactions")

	c.Register(&budgetAddCmd{env: env}, "planning")
	c.Register(&budgetsCmd{env: env}, "planning")
	c.Register(&goalAddCmd{env: env}, "planning")
	c.Register(&goalsCmd{env: env}, "planning")
	c.Register(&recurringAddCmd{env: env}, "planning")
	c.Register(&recurringCmd{env: env}, "planning")

	c.Register(&exportCmd{env: env}, "backup")
	c.Register(&importCmd{env: env}, "backup")
}

// unlock asks for the PIN and opens the store.
func (e *Env) unlock(ctx context.Context) error {
	ok, err := e.Gate.HasPIN(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return session.ErrPINNotSet
	}

	for attempt := 1; ; attempt++ {
		pin, err := e.Prompt.PromptPIN("Enter PIN", session.ValidatePIN)
		if err != nil {
			return err
		}

		err = e.Gate.Login(ctx, pin)
		if err == nil {
			e.pin = pin
			return nil
		}
		if !errors.Is(err, session.ErrWrongPIN) || attempt == maxPINAttempts {
			return err
		}
		fmt.Fprintf(e.Err, "Wrong PIN, %d attempt(s) left\n", maxPINAttempts-attempt)
	}
}

// lock ends the session opened by unlock.
func (e *Env) lock() {
	e.pin = ""
	e.Gate.Logout()
}

// withUnlocked runs fn between unlock and lock and maps errors to an exit
// status.
func (e *Env) withUnlocked(ctx context.Context, fn func(ctx context.Context) error) subcommands.ExitStatus {
	if err := e.unlock(ctx); err != nil {
		return e.fail(err)
	}
	defer e.lock()

	if err := fn(ctx); err != nil {
		return e.fail(err)
	}
	return subcommands.ExitSuccess
}

func (e *Env) fail(err error) subcommands.ExitStatus {
	e.Logger.Err(err).Msg("command failed")
	fmt.Fprintln(e.Err, "Error:", humanize(err))
	return subcommands.ExitFailure
}

func (e *Env) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(e.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

func (e *Env) today() string {
	return e.Now().Format(time.DateOnly)
}

func humanize(err error) string {
	switch {
	case errors.Is(err, session.ErrWrongPIN):
		return "wrong PIN"
	case errors.Is(err, session.ErrPINNotSet):
		return "no PIN set up yet, run `setup` first"
	case errors.Is(err, session.ErrPINAlreadySet):
		return "a PIN is already set up on this device"
	case errors.Is(err, session.ErrInvalidPIN):
		return "PIN must be 4 to 6 digits"
	case backup.IsWrongPINOrCorrupted(err):
		return "wrong PIN or corrupted backup file"
	case errors.Is(err, backup.ErrMalformedBackup), errors.Is(err, backup.ErrUnsupportedVersion):
		return "not a valid backup file: " + err.Error()
	}
	return err.Error()
}

// parseAmount reads a decimal amount; money is never parsed through float
// formatting.
func parseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return d.InexactFloat64(), nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
