package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/goldbook"
	"github.com/google/subcommands"
)

// entryFlags are the fields of an entry form.
type entryFlags struct {
	unit goldbook.Unit
	form goldbook.EntryForm
}

func (e *entryFlags) SetFlags(f *flag.FlagSet) {
	e.form.Date = "0d"
	f.Var(unitValue{&e.unit}, "u", "Ledger: gold or money")
	f.Int64Var(&e.form.CustomerID, "c", 0, "Customer id")
	f.StringVar(&e.form.Date, "d", e.form.Date, "Day of the entry, YYYY-MM-DD or relative like -1d")
	f.StringVar(&e.form.Description, "m", "", "Description")
	f.Var(quantityValue{&e.form.Received}, "r", "Amount received by the shop, grams or currency")
	f.Var(quantityValue{&e.form.Paid}, "p", "Amount paid by the shop, grams or currency")
	f.Var(caratValue{&e.form.Carat}, "k", "Carat of the gold, gold ledger only")
}

type addCmd struct{ entryFlags }

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an entry in the gold or money ledger" }
func (*addCmd) Usage() string {
	return `gb add -c <customer> [-u gold|money] [-d <day>] [-r <received>] [-p <paid>] [-k <carat>] [-m <description>]

Records what a customer brought (received) or took (paid). At least one of
-r or -p must be set.
`
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	e, err := shop.AddEntry(ctx, c.unit, c.form)
	if err != nil {
		return failure(err)
	}
	fmt.Printf("Added %s entry #%d on %s\n", c.unit, e.ID, shop.Calendar.FormatDay(e.When))
	return subcommands.ExitSuccess
}

type editCmd struct {
	entryFlags
	id int64
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "replace an entry of the gold or money ledger" }
func (*editCmd) Usage() string {
	return `gb edit -id <id> -c <customer> [-u gold|money] [-d <day>] [-r <received>] [-p <paid>] [-k <carat>] [-m <description>]

Replaces every field of the entry. Running balances are recomputed.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	c.entryFlags.SetFlags(f)
	f.Int64Var(&c.id, "id", 0, "Entry id")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -id is required")
		return subcommands.ExitUsageError
	}
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	e, err := shop.EditEntry(ctx, c.unit, c.id, c.form)
	if err != nil {
		return failure(err)
	}
	fmt.Printf("Updated %s entry #%d\n", c.unit, e.ID)
	return subcommands.ExitSuccess
}

type rmCmd struct {
	unit goldbook.Unit
	id   int64
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete an entry of the gold or money ledger" }
func (*rmCmd) Usage() string {
	return `gb rm -id <id> [-u gold|money]
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.Var(unitValue{&c.unit}, "u", "Ledger: gold or money")
	f.Int64Var(&c.id, "id", 0, "Entry id")
}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -id is required")
		return subcommands.ExitUsageError
	}
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	if err := shop.RemoveEntry(ctx, c.unit, c.id); err != nil {
		return failure(err)
	}
	fmt.Printf("Deleted %s entry #%d\n", c.unit, c.id)
	return subcommands.ExitSuccess
}
