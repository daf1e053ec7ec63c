// Package renderer turns ledger views and summaries into markdown and
// spreadsheets.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/goldbook"
)

//go:embed templates/*.md
var templates embed.FS

// Options holds the presentation settings of a report.
type Options struct {
	Currency  string                  // of the money ledger, goldbook.DefaultCurrency if empty.
	FormatDay func(time.Time) string // display calendar, goldbook.DateFormat if nil.
}

func (o Options) currency() string {
	if o.Currency == "" {
		return goldbook.DefaultCurrency
	}
	return o.Currency
}

func (o Options) day(t time.Time) string {
	if o.FormatDay == nil {
		return t.Format(goldbook.DateFormat)
	}
	return o.FormatDay(t)
}

// funcs returns the template helpers bound to the options.
func (o Options) funcs() template.FuncMap {
	return template.FuncMap{
		"day": o.day,
		"amount": func(u goldbook.Unit, q goldbook.Quantity) string {
			return u.Format(q, o.currency())
		},
		"signed": func(u goldbook.Unit, q goldbook.Quantity) string {
			return goldbook.SignedString(q, func(q goldbook.Quantity) string { return u.Format(q, o.currency()) })
		},
		"nonzero": func(u goldbook.Unit, q goldbook.Quantity) string {
			if q.IsZero() {
				return ""
			}
			return u.Format(q, o.currency())
		},
		"money": func(q goldbook.Quantity) string { return goldbook.FormatMoney(q, o.currency()) },
		"title": func(u goldbook.Unit) string {
			s := u.String()
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"cell": escapeCell,
	}
}

// escapeCell keeps free text from breaking a markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, funcs template.FuncMap, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, "templates/"+file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
