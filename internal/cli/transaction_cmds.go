package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/MKhiriev/go-finance-keeper/models"
)

type txAddCmd struct {
	env         *Env
	account     string
	amount      string
	kind        string
	category    string
	subcategory string
	description string
	date        string
	tags        string
}

func (*txAddCmd) Name() string     { return "tx-add" }
func (*txAddCmd) Synopsis() string { return "record a transaction and update the account balance" }
func (*txAddCmd) Usage() string {
	return `finkeeper tx-add -account <id> -amount <amount> -category <category> [-type expense] [-date YYYY-MM-DD] [-d <description>] [-tags a,b]

  Types: income, expense, investment_buy, investment_sell, dividend, interest.
  The amount is always positive; the type decides whether it is added to or
  subtracted from the account balance.
`
}

func (c *txAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account id.")
	f.StringVar(&c.amount, "amount", "", "Positive amount.")
	f.StringVar(&c.kind, "type", string(models.TransactionExpense), "Transaction type.")
	f.StringVar(&c.category, "category", "", "Category.")
	f.StringVar(&c.subcategory, "subcategory", "", "Optional subcategory.")
	f.StringVar(&c.description, "d", "", "Description.")
	f.StringVar(&c.date, "date", "", "Date, today if empty.")
	f.StringVar(&c.tags, "tags", "", "Comma separated tags.")
}

func (c *txAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	if c.account == "" || c.amount == "" {
		return e.usage("-account and -amount are required")
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return e.usage("%v", err)
	}
	if c.date == "" {
		c.date = e.today()
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		tx, err := e.Services.Transactions.Add(ctx, models.Transaction{
			Amount:      amount,
			Type:        models.TransactionType(c.kind),
			Category:    c.category,
			Subcategory: c.subcategory,
			Description: c.description,
			Date:        c.date,
			Tags:        splitList(c.tags),
			AccountID:   c.account,
		})
		if err != nil {
			return err
		}

		acc, err := e.Services.Accounts.Get(ctx, tx.AccountID)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.Out, "Transaction %s recorded. %s balance: %s %s\n", tx.ID, acc.Name, money(acc.Balance), acc.Currency)
		return nil
	})
}

type txsCmd struct {
	env  *Env
	from string
	to   string
}

func (*txsCmd) Name() string     { return "txs" }
func (*txsCmd) Synopsis() string { return "list transactions, newest first" }
func (*txsCmd) Usage() string {
	return `finkeeper txs [-from YYYY-MM-DD] [-to YYYY-MM-DD]
`
}

func (c *txsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First date to include.")
	f.StringVar(&c.to, "to", "", "Last date to include, today if -from is set.")
}

func (c *txsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	if c.to != "" && c.from == "" {
		return e.usage("-to needs -from")
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		var (
			txs []models.Transaction
			err error
		)
		if c.from != "" {
			to := c.to
			if to == "" {
				to = e.today()
			}
			txs, err = e.Services.Transactions.ByDateRange(ctx, c.from, to)
		} else {
			txs, err = e.Services.Transactions.List(ctx)
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tID\tTYPE\tAMOUNT\tCATEGORY\tACCOUNT\tDESCRIPTION\tTAGS")
		for _, tx := range txs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				tx.Date, tx.ID, tx.Type, money(tx.Amount), tx.Category, tx.AccountID, tx.Description, strings.Join(tx.Tags, ","))
		}
		return w.Flush()
	})
}

type txDeleteCmd struct {
	env *Env
	id  string
}

func (*txDeleteCmd) Name() string     { return "tx-delete" }
func (*txDeleteCmd) Synopsis() string { return "delete a transaction and reverse its balance effect" }
func (*txDeleteCmd) Usage() string {
	return `finkeeper tx-delete -id <transaction id>
`
}

func (c *txDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id.")
}

func (c *txDeleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	if c.id == "" {
		return e.usage("-id is required")
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		if err := e.Services.Transactions.Delete(ctx, c.id); err != nil {
			return err
		}
		fmt.Fprintf(e.Out, "Transaction %s deleted.\n", c.id)
		return nil
	})
}
