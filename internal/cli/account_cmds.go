package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/MKhiriev/go-finance-keeper/models"
)

type accountAddCmd struct {
	env      *Env
	name     string
	kind     string
	balance  string
	currency string
}

func (*accountAddCmd) Name() string     { return "account-add" }
func (*accountAddCmd) Synopsis() string { return "create an account" }
func (*accountAddCmd) Usage() string {
	return `finkeeper account-add -name <name> [-type checking|savings|cash|credit|investment] [-balance <amount>] [-currency <ISO>]
`
}

func (c *accountAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name.")
	f.StringVar(&c.kind, "type", string(models.AccountChecking), "Account type.")
	f.StringVar(&c.balance, "balance", "0", "Opening balance.")
	f.StringVar(&c.currency, "currency", "", "Currency code, USD if empty.")
}

func (c *accountAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	if c.name == "" {
		return e.usage("-name is required")
	}
	balance, err := parseAmount(c.balance)
	if err != nil {
		return e.usage("%v", err)
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		acc, err := e.Services.Accounts.Create(ctx, models.Account{
			Name:     c.name,
			Type:     models.AccountType(c.kind),
			Balance:  balance,
			Currency: c.currency,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(e.Out, "Account %q created: %s\n", acc.Name, acc.ID)
		return nil
	})
}

type accountsCmd struct {
	env *Env
}

func (*accountsCmd) Name() string           { return "accounts" }
func (*accountsCmd) Synopsis() string       { return "list accounts with balances" }
func (*accountsCmd) Usage() string          { return "finkeeper accounts\n" }
func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		accounts, err := e.Services.Accounts.List(ctx)
		if err != nil {
			return err
		}
		total, err := e.Services.Accounts.TotalBalance(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tBALANCE\tCURRENCY\t")
		for _, a := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", a.ID, a.Name, a.Type, money(a.Balance), a.Currency)
		}
		fmt.Fprintf(w, "\t\tTOTAL\t%s\t\t\n", total.StringFixed(2))
		return w.Flush()
	})
}

type accountDeleteCmd struct {
	env *Env
	id  string
	yes bool
}

func (*accountDeleteCmd) Name() string     { return "account-delete" }
func (*accountDeleteCmd) Synopsis() string { return "delete an account and its transactions" }
func (*accountDeleteCmd) Usage() string {
	return `finkeeper account-delete -id <account id> [-yes]
`
}

func (c *accountDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Account id.")
	f.BoolVar(&c.yes, "yes", false, "Do not ask for confirmation.")
}

func (c *accountDeleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	if c.id == "" {
		return e.usage("-id is required")
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		acc, err := e.Services.Accounts.Get(ctx, c.id)
		if err != nil {
			return err
		}

		if !c.yes {
			ok, err := e.Prompt.Confirm(fmt.Sprintf("Delete account %q and all its transactions?", acc.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(e.Out, "Cancelled.")
				return nil
			}
		}

		n, err := e.Services.Accounts.Delete(ctx, c.id)
		if err != nil {
			return err
		}

		fmt.Fprintf(e.Out, "Account %q deleted with %d transaction(s).\n", acc.Name, n)
		return nil
	})
}
