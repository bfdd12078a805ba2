package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/MKhiriev/go-finance-keeper/models"
)

type budgetAddCmd struct {
	env       *Env
	category  string
	amount    string
	period    string
	threshold float64
}

func (*budgetAddCmd) Name() string     { return "budget-add" }
func (*budgetAddCmd) Synopsis() string { return "cap spending in a category" }
func (*budgetAddCmd) Usage() string {
	return `finkeeper budget-add -category <category> -amount <amount> [-period weekly|monthly|yearly] [-alert 80]
`
}

func (c *budgetAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "Category the budget applies to.")
	f.StringVar(&c.amount, "amount", "", "Budget amount.")
	f.StringVar(&c.period, "period", string(models.BudgetMonthly), "Budget period.")
	f.Float64Var(&c.threshold, "alert", 80, "Alert threshold in percent.")
}

func (c *budgetAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	if c.category == "" || c.amount == "" {
		return e.usage("-category and -amount are required")
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return e.usage("%v", err)
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		b, err := e.Services.Budgets.Create(ctx, models.Budget{
			CategoryID:     c.category,
			Amount:         amount,
			Period:         models.BudgetPeriod(c.period),
			AlertThreshold: c.threshold,
			IsActive:       true,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(e.Out, "Budget %s created.\n", b.ID)
		return nil
	})
}

type budgetsCmd struct {
	env *Env
}

func (*budgetsCmd) Name() string           { return "budgets" }
func (*budgetsCmd) Synopsis() string       { return "list budgets" }
func (*budgetsCmd) Usage() string          { return "finkeeper budgets\n" }
func (*budgetsCmd) SetFlags(*flag.FlagSet) {}

func (c *budgetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		budgets, err := e.Services.Budgets.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tPERIOD\tAMOUNT\tSPENT\tALERT\tACTIVE")
		for _, b := range budgets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%g%%\t%t\n",
				b.ID, b.CategoryID, b.Period, money(b.Amount), money(b.Spent), b.AlertThreshold, b.IsActive)
		}
		return w.Flush()
	})
}

type goalAddCmd struct {
	env         *Env
	name        string
	target      string
	current     string
	deadline    string
	priority    string
	description string
}

func (*goalAddCmd) Name() string     { return "goal-add" }
func (*goalAddCmd) Synopsis() string { return "add a savings goal" }
func (*goalAddCmd) Usage() string {
	return `finkeeper goal-add -name <name> -target <amount> -deadline YYYY-MM-DD [-current <amount>] [-priority low|medium|high] [-d <description>]
`
}

func (c *goalAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Goal name.")
	f.StringVar(&c.target, "target", "", "Target amount.")
	f.StringVar(&c.current, "current", "0", "Amount already saved.")
	f.StringVar(&c.deadline, "deadline", "", "Deadline date.")
	f.StringVar(&c.priority, "priority", string(models.PriorityMedium), "Priority.")
	f.StringVar(&c.description, "d", "", "Description.")
}

func (c *goalAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	if c.name == "" || c.target == "" || c.deadline == "" {
		return e.usage("-name, -target and -deadline are required")
	}
	target, err := parseAmount(c.target)
	if err != nil {
		return e.usage("%v", err)
	}
	current, err := parseAmount(c.current)
	if err != nil {
		return e.usage("%v", err)
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		g, err := e.Services.Goals.Create(ctx, models.Goal{
			Name:          c.name,
			TargetAmount:  target,
			CurrentAmount: current,
			Deadline:      c.deadline,
			Priority:      models.GoalPriority(c.priority),
			Description:   c.description,
			IsCompleted:   current >= target,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(e.Out, "Goal %q created: %s\n", g.Name, g.ID)
		return nil
	})
}

type goalsCmd struct {
	env *Env
}

func (*goalsCmd) Name() string           { return "goals" }
func (*goalsCmd) Synopsis() string       { return "list savings goals and their progress" }
func (*goalsCmd) Usage() string          { return "finkeeper goals\n" }
func (*goalsCmd) SetFlags(*flag.FlagSet) {}

func (c *goalsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		goals, err := e.Services.Goals.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tSAVED\tTARGET\tPROGRESS\tDEADLINE")
		for _, g := range goals {
			progress := 0.0
			if g.TargetAmount > 0 {
				progress = min(g.CurrentAmount/g.TargetAmount*100, 100)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.0f%%\t%s\n",
				g.ID, g.Name, g.Priority, money(g.CurrentAmount), money(g.TargetAmount), progress, g.Deadline)
		}
		return w.Flush()
	})
}

type recurringAddCmd struct {
	env         *Env
	account     string
	amount      string
	kind        string
	category    string
	description string
	frequency   string
	next        string
}

func (*recurringAddCmd) Name() string     { return "recurring-add" }
func (*recurringAddCmd) Synopsis() string { return "add a recurring income or expense" }
func (*recurringAddCmd) Usage() string {
	return `finkeeper recurring-add -account <id> -amount <amount> -category <category> [-type expense|income] [-frequency monthly] [-next YYYY-MM-DD] [-d <description>]
`
}

func (c *recurringAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account id.")
	f.StringVar(&c.amount, "amount", "", "Positive amount.")
	f.StringVar(&c.kind, "type", string(models.TransactionExpense), "income or expense.")
	f.StringVar(&c.category, "category", "", "Category.")
	f.StringVar(&c.description, "d", "", "Description.")
	f.StringVar(&c.frequency, "frequency", string(models.FrequencyMonthly), "daily, weekly, bi-weekly, monthly or yearly.")
	f.StringVar(&c.next, "next", "", "Next occurrence, today if empty.")
}

func (c *recurringAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env
	if c.account == "" || c.amount == "" {
		return e.usage("-account and -amount are required")
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return e.usage("%v", err)
	}
	if c.next == "" {
		c.next = e.today()
	}

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		if _, err := e.Services.Accounts.Get(ctx, c.account); err != nil {
			return err
		}

		r, err := e.Services.Recurring.Create(ctx, models.RecurringTransaction{
			Amount:      amount,
			Type:        models.TransactionType(c.kind),
			Category:    c.category,
			Description: c.description,
			Frequency:   models.Frequency(c.frequency),
			NextDate:    c.next,
			AccountID:   c.account,
			IsActive:    true,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(e.Out, "Recurring transaction %s created, next on %s.\n", r.ID, r.NextDate)
		return nil
	})
}

type recurringCmd struct {
	env *Env
}

func (*recurringCmd) Name() string           { return "recurring" }
func (*recurringCmd) Synopsis() string       { return "list recurring transactions" }
func (*recurringCmd) Usage() string          { return "finkeeper recurring\n" }
func (*recurringCmd) SetFlags(*flag.FlagSet) {}

func (c *recurringCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e := c.env

	return e.withUnlocked(ctx, func(ctx context.Context) error {
		items, err := e.Services.Recurring.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNEXT\tFREQUENCY\tTYPE\tAMOUNT\tCATEGORY\tACCOUNT\tACTIVE")
		for _, r := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
				r.ID, r.NextDate, r.Frequency, r.Type, money(r.Amount), r.Category, r.AccountID, r.IsActive)
		}
		return w.Flush()
	})
}
