package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/goldbook"
	"github.com/google/subcommands"
)

type customerCmd struct{ form goldbook.CustomerForm }

func (*customerCmd) Name() string     { return "customer" }
func (*customerCmd) Synopsis() string { return "register a customer" }
func (*customerCmd) Usage() string {
	return `gb customer -n <name> [-phone <phone>]
`
}

func (c *customerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.form.Name, "n", "", "Name of the customer")
	f.StringVar(&c.form.Phone, "phone", "", "Phone number")
}

func (c *customerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	cust, err := shop.AddCustomer(ctx, c.form)
	if err != nil {
		return failure(err)
	}
	fmt.Printf("Added customer #%d %s\n", cust.ID, cust.Name)
	return subcommands.ExitSuccess
}

type customersCmd struct{}

func (*customersCmd) Name() string             { return "customers" }
func (*customersCmd) Synopsis() string         { return "list customers" }
func (*customersCmd) Usage() string            { return "gb customers\n" }
func (*customersCmd) SetFlags(f *flag.FlagSet) {}

func (c *customersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	shop, close, err := OpenShop(ctx)
	if err != nil {
		return failure(err)
	}
	defer close()

	customers, err := shop.Customers(ctx)
	if err != nil {
		return failure(err)
	}
	printMarkdown(customersMarkdown(customers))
	return subcommands.ExitSuccess
}

func customersMarkdown(customers []goldbook.Customer) string {
	var b strings.Builder
	b.WriteString("# Customers\n\n")
	if len(customers) == 0 {
		b.WriteString("_No customers._\n")
		return b.String()
	}
	b.WriteString("| # | Name | Phone |\n|---:|:---|:---|\n")
	for _, c := range customers {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", c.ID, strings.ReplaceAll(c.Name, "|", `\|`), c.Phone)
	}
	return b.String()
}
