package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/MKhiriev/go-finance-keeper/internal/session"
)

type setupCmd struct {
	env *Env
}

func (*setupCmd) Name() string     { return "setup" }
func (*setupCmd) Synopsis() string { return "choose the PIN that protects this device" }
func (*setupCmd) Usage() string {
	return `finkeeper setup

  Sets the 4 to 6 digit PIN. The PIN derives the encryption key of every
  record; it cannot be recovered if forgotten.
`
}
func (*setupCmd) SetFlags(*flag.FlagSet) {}

func (c *setupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env

	exists, err := e.Gate.HasPIN(ctx)
	if err != nil {
		return e.fail(err)
	}
	if exists {
		return e.fail(session.ErrPINAlreadySet)
	}

	pin, err := e.Prompt.PromptNewPIN("Create a PIN (4-6 digits)", session.ValidatePIN)
	if err != nil {
		return e.fail(err)
	}

	if err = e.Gate.Setup(ctx, pin); err != nil {
		return e.fail(err)
	}
	defer e.lock()

	settings, err := e.Services.Settings.Get(ctx)
	if err != nil {
		return e.fail(err)
	}
	settings.PINLength = len(pin)
	if _, err = e.Services.Settings.Save(ctx, settings); err != nil {
		return e.fail(err)
	}

	fmt.Fprintln(e.Out, "PIN set. Your data is now encrypted on this device.")
	return subcommands.ExitSuccess
}

type prefsCmd struct {
	env      *Env
	theme    string
	autoLock int
}

func (*prefsCmd) Name() string     { return "prefs" }
func (*prefsCmd) Synopsis() string { return "show or change theme and auto-lock (no PIN needed)" }
func (*prefsCmd) Usage() string {
	return `finkeeper prefs [-theme light|dark|system] [-auto-lock <minutes>]

  Without flags prints the current preferences. -auto-lock 0 disables
  auto-lock.
`
}

func (c *prefsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.theme, "theme", "", "Theme: light, dark or system.")
	f.IntVar(&c.autoLock, "auto-lock", -1, "Minutes of inactivity before the store locks; 0 disables.")
}

func (c *prefsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env

	prefs, err := e.Gate.Preferences(ctx)
	if err != nil {
		return e.fail(err)
	}

	if c.theme != "" || c.autoLock >= 0 {
		if c.theme != "" {
			prefs.Theme = c.theme
		}
		if c.autoLock >= 0 {
			prefs.AutoLockMinutes = c.autoLock
		}
		if err = e.Gate.SetPreferences(ctx, prefs); err != nil {
			return e.fail(err)
		}
	}

	fmt.Fprintf(e.Out, "theme:     %s\n", prefs.Theme)
	if prefs.AutoLockMinutes == 0 {
		fmt.Fprintln(e.Out, "auto-lock: off")
	} else {
		fmt.Fprintf(e.Out, "auto-lock: %d min\n", prefs.AutoLockMinutes)
	}
	return subcommands.ExitSuccess
}

type settingsCmd struct {
	env          *Env
	currency     string
	baseCurrency string
	budgetAlerts string
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "show or change encrypted application settings" }
func (*settingsCmd) Usage() string {
	return `finkeeper settings [-currency <ISO>] [-base-currency <ISO>] [-budget-alerts on|off]
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Display currency, e.g. EUR.")
	f.StringVar(&c.baseCurrency, "base-currency", "", "Base currency for totals.")
	f.StringVar(&c.budgetAlerts, "budget-alerts", "", "on or off.")
}

func (c *settingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	if c.budgetAlerts != "" && c.budgetAlerts != "on" && c.budgetAlerts != "off" {
		return e.usage("-budget-alerts must be on or off")
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		s, err := e.Services.Settings.Get(ctx)
		if err != nil {
			return err
		}

		if c.currency != "" || c.baseCurrency != "" || c.budgetAlerts != "" {
			if c.currency != "" {
				s.Currency = c.currency
			}
			if c.baseCurrency != "" {
				s.BaseCurrency = c.baseCurrency
			}
			if c.budgetAlerts != "" {
				s.BudgetAlerts = c.budgetAlerts == "on"
			}
			if s, err = e.Services.Settings.Save(ctx, s); err != nil {
				return err
			}
		}

		fmt.Fprintf(e.Out, "currency:      %s\n", s.Currency)
		fmt.Fprintf(e.Out, "base currency: %s\n", s.BaseCurrency)
		fmt.Fprintf(e.Out, "pin length:    %d\n", s.PINLength)
		fmt.Fprintf(e.Out, "budget alerts: %t\n", s.BudgetAlerts)
		return nil
	})
}

type wipeCmd struct {
	env *Env
	yes bool
}

func (*wipeCmd) Name() string     { return "wipe" }
func (*wipeCmd) Synopsis() string { return "delete all data and the PIN from this device" }
func (*wipeCmd) Usage() string {
	return `finkeeper wipe [-yes]

  Permanently deletes every record, the encryption salt, the PIN and all
  preferences. Export a backup first if you want to keep your data.
`
}

func (c *wipeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Do not ask for confirmation.")
}

func (c *wipeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env

	if err := e.unlock(ctx); err != nil {
		return e.fail(err)
	}
	defer e.lock()

	if !c.yes {
		ok, err := e.Prompt.Confirm("Delete ALL financial data from this device? This cannot be undone.")
		if err != nil {
			return e.fail(err)
		}
		if !ok {
			fmt.Fprintln(e.Out, "Cancelled.")
			return subcommands.ExitSuccess
		}
	}

	if err := e.Gate.Wipe(ctx); err != nil {
		return e.fail(err)
	}

	fmt.Fprintln(e.Out, "All local data deleted.")
	return subcommands.ExitSuccess
}

type versionCmd struct {
	env *Env
}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "print build information" }
func (*versionCmd) Usage() string          { return "finkeeper version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (c *versionCmd) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	b := c.env.Build
	fmt.Fprintf(c.env.Out, "Build version: %s\n", b.Version)
	fmt.Fprintf(c.env.Out, "Build date: %s\n", b.Date)
	fmt.Fprintf(c.env.Out, "Build commit: %s\n", b.Commit)
	return subcommands.ExitSuccess
}
