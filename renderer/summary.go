package renderer

import (
	"github.com/etnz/goldbook"
)

type summaryData struct {
	*goldbook.Summary
	Period   string
	Warnings []string
}

// SummaryMarkdown renders both ledgers side by side and, when a gold rate is
// set, the worth of the shop.
func SummaryMarkdown(s *goldbook.Summary, opts Options) string {
	if s.Currency != "" && opts.Currency == "" {
		opts.Currency = s.Currency
	}
	data := summaryData{Summary: s, Period: s.Range.Title()}
	if s.Range == goldbook.Custom || s.Range == goldbook.All {
		data.Period = opts.period(s.Window)
	}
	for _, w := range s.Warnings {
		data.Warnings = append(data.Warnings, w.Error())
	}
	partials := map[string]string{
		"summary_track": "summary_track.md",
	}
	return renderTemplate("summary", "summary.md", partials, opts.funcs(), data)
}
