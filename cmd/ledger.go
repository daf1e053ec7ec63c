package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/goldbook"
	"github.com/etnz/goldbook/renderer"
	"github.com/google/subcommands"
)

type ledgerCmd struct {
	unit     goldbook.Unit
	period   periodFlags
	customer int64
	page     int
	order    string
}

func (*ledgerCmd) Name() string     { return "ledger" }
func (*ledgerCmd) Synopsis() string { return "display a page of the gold or money ledger" }
func (*ledgerCmd) Usage() string {
	return `gb ledger [-u gold|money] [-r <range>] [-s <day>] [-e <day>] [-c <customer>] [-page <n>] [-order asc|desc]

Displays the entries of a ledger with the shop's running balance after each
of them, capital included, and the customer's own balance.

The running balance always accounts for the whole history: restricting the
range or the customer only hides rows.
`
}

func (c *ledgerCmd) SetFlags(f *flag.FlagSet) {
	f.Var(unitValue{&c.unit}, "u", "Ledger: gold or money")
	c.period.SetFlags(f)
	f.Int64Var(&c.customer, "c", 0, "Only show the entries of this customer id")
	f.IntVar(&c.page, "page", 1, "Page to display, starting at 1")
	f.StringVar(&c.order, "order", "", "Presentation order: asc or desc. Default is asc for gold and desc for money.")
}

// request builds the view request from the flags.
func (c *ledgerCmd) request() (goldbook.ViewRequest, error) {
	kind, err := c.period.kind()
	if err != nil {
		return goldbook.ViewRequest{}, err
	}
	req := goldbook.ViewRequest{
		Unit:     c.unit,
		Range:    kind,
		Start:    c.period.start,
		End:      c.period.end,
		Customer: c.customer,
		Page:     c.page,
	}
	if c.order != "" {
		o, err := goldbook.ParseOrder(c.order)
		if err != nil {
			return req, fmt.Errorf("%w: %v", goldbook.ErrInvalidForm, err)
		}
		req.Order = &o
	}
	return req, nil
}

func (c *ledgerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req, err := c.request()
	if err != nil {
		return failure(err)
	}
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	v := shop.View(ctx, req)
	printWarnings(v.Warnings)
	printMarkdown(renderer.LedgerMarkdown(v, renderOptions(shop)))
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	period periodFlags
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "summarize both ledgers over a period" }
func (*summaryCmd) Usage() string {
	return `gb summary [-r <range>] [-s <day>] [-e <day>]

Displays, for the gold and the money ledgers, the capital, the amounts
received and paid within the period and the closing balance. When a gold
rate is configured, the shop is also valued in currency.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.period.SetFlags(f) }

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := c.period.kind()
	if err != nil {
		return failure(err)
	}
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	s := shop.Summary(ctx, kind, c.period.start, c.period.end)
	printWarnings(s.Warnings)
	printMarkdown(renderer.SummaryMarkdown(s, renderOptions(shop)))
	return subcommands.ExitSuccess
}
