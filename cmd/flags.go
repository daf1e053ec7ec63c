package cmd

import (
	"flag"
	"fmt"

	"github.com/etnz/goldbook"
)

// quantityValue is a flag.Value for decimal amounts.
type quantityValue struct{ q *goldbook.Quantity }

func (v quantityValue) String() string {
	if v.q == nil {
		return "0"
	}
	return v.q.String()
}

func (v quantityValue) Set(s string) error {
	q, err := goldbook.ParseQuantity(s)
	if err != nil {
		return err
	}
	*v.q = q
	return nil
}

// caratValue is an optional quantity, nil until the flag is set.
type caratValue struct{ q **goldbook.Quantity }

func (v caratValue) String() string {
	if v.q == nil || *v.q == nil {
		return ""
	}
	return (*v.q).String()
}

func (v caratValue) Set(s string) error {
	q, err := goldbook.ParseQuantity(s)
	if err != nil {
		return err
	}
	*v.q = &q
	return nil
}

// unitValue selects a ledger.
type unitValue struct{ u *goldbook.Unit }

func (v unitValue) String() string {
	if v.u == nil {
		return goldbook.Gold.String()
	}
	return v.u.String()
}

func (v unitValue) Set(s string) error {
	u, err := goldbook.ParseUnit(s)
	if err != nil {
		return err
	}
	*v.u = u
	return nil
}

// periodFlags are the flags selecting a time window, shared by the commands
// reading the ledgers.
type periodFlags struct {
	rangeName string
	start     string
	end       string
}

func (p *periodFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.rangeName, "r", "", "Range: all, today, yesterday, day-before-yesterday, week, month or custom. Default is all, or custom when -s or -e is set.")
	f.StringVar(&p.start, "s", "", "Start day of a custom range, YYYY-MM-DD or relative like -7d")
	f.StringVar(&p.end, "e", "", "End day of a custom range, default is today")
}

// kind resolves the range. Setting a bound without a range implies custom.
func (p *periodFlags) kind() (goldbook.RangeKind, error) {
	if p.rangeName == "" {
		if p.start != "" || p.end != "" {
			return goldbook.Custom, nil
		}
		return goldbook.All, nil
	}
	k, err := goldbook.ParseRangeKind(p.rangeName)
	if err != nil {
		return k, fmt.Errorf("%w: %v", goldbook.ErrInvalidForm, err)
	}
	return k, nil
}
