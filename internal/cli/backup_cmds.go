package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/MKhiriev/go-finance-keeper/internal/backup"
	"github.com/MKhiriev/go-finance-keeper/internal/session"
)

type exportCmd struct {
	env          *Env
	dir          string
	copyChecksum bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write an encrypted .pfencrypt backup" }
func (*exportCmd) Usage() string {
	return `finkeeper export [-dir <directory>] [-copy-checksum]

  The backup is encrypted with your current PIN and a fresh salt. Settings
  are not part of the backup.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Output directory, the configured backup dir if empty.")
	f.BoolVar(&c.copyChecksum, "copy-checksum", false, "Copy the backup checksum to the clipboard.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	dir := c.dir
	if dir == "" {
		dir = e.BackupDir
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		blob, err := e.Codec.Export(ctx, e.Store, e.pin)
		if err != nil {
			return err
		}

		path, err := backup.WriteFile(dir, blob, e.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(e.Out, "Backup written to %s\n", path)
		fmt.Fprintf(e.Out, "Checksum: %s\n", blob.Checksum)

		if c.copyChecksum {
			if err = e.Clipboard.WriteAll(blob.Checksum); err != nil {
				e.Logger.Warn().Err(err).Msg("clipboard unavailable")
				fmt.Fprintln(e.Err, "Could not copy the checksum to the clipboard.")
				return nil
			}
			fmt.Fprintln(e.Out, "Checksum copied to clipboard.")
		}
		return nil
	})
}

type importCmd struct {
	env  *Env
	file string
	yes  bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace all data with a .pfencrypt backup" }
func (*importCmd) Usage() string {
	return `finkeeper import -file <backup.pfencrypt> [-yes]

  Asks for the PIN of this device, then for the PIN the backup was exported
  with. Every transaction, account, budget, goal and recurring transaction
  is replaced; nothing changes if the backup cannot be read.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Backup file.")
	f.BoolVar(&c.yes, "yes", false, "Do not ask for confirmation.")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	if c.file == "" {
		return e.usage("-file is required")
	}

	blob, err := backup.ReadFile(c.file)
	if err != nil {
		return e.fail(err)
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		pin, err := e.Prompt.PromptPIN("Backup PIN", session.ValidatePIN)
		if err != nil {
			return err
		}

		payload, err := e.Codec.Restore(blob, pin)
		if err != nil {
			return err
		}

		if !c.yes {
			ok, err := e.Prompt.Confirm(fmt.Sprintf(
				"Replace all data with the backup from %s (%d accounts, %d transactions)?",
				blob.Timestamp, len(payload.Accounts), len(payload.Transactions)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(e.Out, "Cancelled.")
				return nil
			}
		}

		if err = e.Codec.Apply(ctx, e.Store, payload); err != nil {
			return err
		}
		fmt.Fprintf(e.Out, "Imported %d accounts, %d transactions, %d budgets, %d goals, %d recurring transactions.\n",
			len(payload.Accounts), len(payload.Transactions), len(payload.Budgets), len(payload.Goals), len(payload.RecurringTransactions))
		return nil
	})
}
