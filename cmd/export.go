package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/goldbook"
	"github.com/etnz/goldbook/renderer"
	"github.com/google/subcommands"
)

type exportCmd struct {
	ledgerCmd
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export a ledger to an Excel workbook" }
func (*exportCmd) Usage() string {
	return `gb export -o <file.xlsx> [-u gold|money] [-r <range>] [-s <day>] [-e <day>] [-c <customer>] [-order asc|desc]

Writes every row of the ledger view, unpaginated, to an Excel workbook with
its totals.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.Var(unitValue{&c.unit}, "u", "Ledger: gold or money")
	c.period.SetFlags(f)
	f.Int64Var(&c.customer, "c", 0, "Only export the entries of this customer id")
	f.StringVar(&c.order, "order", "", "Row order: asc or desc. Default is asc for gold and desc for money.")
	f.StringVar(&c.output, "o", "", "Output workbook")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.output == "" {
		fmt.Fprintln(os.Stderr, "Error: -o is required")
		return subcommands.ExitUsageError
	}
	req, err := c.request()
	if err != nil {
		return failure(err)
	}
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	// A single page holds every row.
	whole := *shop
	whole.PageSize = 0
	req.Page = 1
	v := whole.View(ctx, req)
	printWarnings(v.Warnings)

	if err := exportXLSX(c.output, v, renderOptions(shop)); err != nil {
		return failure(err)
	}
	fmt.Printf("Exported %d %s entries to %s\n", len(v.Rows), v.Unit, c.output)
	return subcommands.ExitSuccess
}

func exportXLSX(name string, v *goldbook.LedgerView, opts renderer.Options) (err error) {
	w, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", name, err)
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("could not close %q: %w", name, cerr)
		}
	}()
	if err := renderer.WriteXLSX(w, v, opts); err != nil {
		return fmt.Errorf("could not write %q: %w", name, err)
	}
	return nil
}
