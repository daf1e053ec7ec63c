package renderer

import (
	"fmt"

	"github.com/etnz/goldbook"
)

// ledgerData is what ledger templates see.
type ledgerData struct {
	*goldbook.LedgerView
	Title         string
	Period        string
	CustomerLabel string
	Carat         bool // show the carat column.
	Warnings      []string
}

func (o Options) period(w goldbook.Window) string {
	switch {
	case w.IsAll():
		return "all time"
	case w.From.IsZero():
		return "until " + o.day(w.To)
	case w.To.IsZero():
		return "since " + o.day(w.From)
	case o.day(w.From) == o.day(w.To):
		return o.day(w.From)
	default:
		return fmt.Sprintf("%s to %s", o.day(w.From), o.day(w.To))
	}
}

// LedgerMarkdown renders a ledger view: its page of rows with their running
// balance, then the totals of the filtered rows.
func LedgerMarkdown(v *goldbook.LedgerView, opts Options) string {
	data := ledgerData{
		LedgerView: v,
		Title:      map[goldbook.Unit]string{goldbook.Gold: "Gold Ledger", goldbook.Money: "Money Ledger"}[v.Unit],
		Period:     opts.period(v.Window),
		Carat:      v.Unit == goldbook.Gold,
	}
	if v.Customer != 0 {
		data.CustomerLabel = v.CustomerLabel
		if data.CustomerLabel == "" {
			data.CustomerLabel = goldbook.Directory{}.Label(v.Customer)
		}
	}
	for _, w := range v.Warnings {
		data.Warnings = append(data.Warnings, w.Error())
	}
	partials := map[string]string{
		"ledger_title":  "ledger_title.md",
		"ledger_rows":   "ledger_rows.md",
		"ledger_totals": "ledger_totals.md",
	}
	return renderTemplate("ledger", "ledger.md", partials, opts.funcs(), data)
}
