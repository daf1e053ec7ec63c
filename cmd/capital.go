package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/goldbook"
	"github.com/google/subcommands"
)

type capitalCmd struct {
	id   int64
	form goldbook.CapitalForm
}

func (*capitalCmd) Name() string     { return "capital" }
func (*capitalCmd) Synopsis() string { return "record or edit a capital injection" }
func (*capitalCmd) Usage() string {
	return `gb capital [-id <id>] [-usd <amount>] [-gold <grams>] [-d <day>]

Records the money and gold the shop starts with. With -id, replaces an
existing record. Capitals open both ledgers' running balances.
`
}

func (c *capitalCmd) SetFlags(f *flag.FlagSet) {
	c.form.Date = "0d"
	f.Int64Var(&c.id, "id", 0, "Capital id to edit, a new record when 0")
	f.Var(quantityValue{&c.form.USD}, "usd", "Money capital")
	f.Var(quantityValue{&c.form.Gold}, "gold", "Gold capital in grams")
	f.StringVar(&c.form.Date, "d", c.form.Date, "Day of the injection")
}

func (c *capitalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	if c.id == 0 {
		rec, err := shop.AddCapital(ctx, c.form)
		if err != nil {
			return failure(err)
		}
		fmt.Printf("Added capital #%d\n", rec.ID)
		return subcommands.ExitSuccess
	}
	rec, err := shop.EditCapital(ctx, c.id, c.form)
	if err != nil {
		return failure(err)
	}
	fmt.Printf("Updated capital #%d\n", rec.ID)
	return subcommands.ExitSuccess
}

type capitalRmCmd struct{ id int64 }

func (*capitalRmCmd) Name() string     { return "capital-rm" }
func (*capitalRmCmd) Synopsis() string { return "delete a capital record" }
func (*capitalRmCmd) Usage() string {
	return `gb capital-rm -id <id>
`
}

func (c *capitalRmCmd) SetFlags(f *flag.FlagSet) { f.Int64Var(&c.id, "id", 0, "Capital id") }

func (c *capitalRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -id is required")
		return subcommands.ExitUsageError
	}
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	if err := shop.RemoveCapital(ctx, c.id); err != nil {
		return failure(err)
	}
	fmt.Printf("Deleted capital #%d\n", c.id)
	return subcommands.ExitSuccess
}

type capitalsCmd struct{}

func (*capitalsCmd) Name() string             { return "capitals" }
func (*capitalsCmd) Synopsis() string         { return "list capital records" }
func (*capitalsCmd) Usage() string            { return "gb capitals\n" }
func (*capitalsCmd) SetFlags(f *flag.FlagSet) {}

func (c *capitalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	capitals, err := shop.Capitals(ctx)
	if err != nil {
		return failure(err)
	}
	printMarkdown(capitalsMarkdown(capitals, shop))
	return subcommands.ExitSuccess
}

func capitalsMarkdown(capitals []goldbook.Capital, shop *goldbook.Shop) string {
	var b strings.Builder
	b.WriteString("# Capital\n\n")
	if len(capitals) == 0 {
		b.WriteString("_No capital recorded._\n")
		return b.String()
	}
	b.WriteString("| # | Date | Money | Gold |\n|---:|:---|---:|---:|\n")
	usd, gold := goldbook.Q(0), goldbook.Q(0)
	for _, c := range capitals {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", c.ID, shop.Calendar.FormatDay(c.Date), goldbook.FormatMoney(c.USD, shop.Currency), goldbook.FormatGold(c.Gold))
		usd, gold = usd.Add(c.USD), gold.Add(c.Gold)
	}
	fmt.Fprintf(&b, "| | **Total** | **%s** | **%s** |\n", goldbook.FormatMoney(usd, shop.Currency), goldbook.FormatGold(gold))
	return b.String()
}
