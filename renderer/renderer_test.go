package renderer

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/goldbook"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func day(d int) time.Time { return time.Date(2025, time.March, d, 10, 0, 0, 0, time.UTC) }

// scenario is a money ledger seeded with 1000 of capital.
func scenario() ([]goldbook.Entry, []goldbook.Capital, []goldbook.Customer) {
	entries := []goldbook.Entry{
		{ID: 3, CustomerID: 999, When: day(3), Received: goldbook.Q(50), Persisted: goldbook.Q(50)},
		{ID: 1, CustomerID: 7, When: day(1), Description: "ring | deposit", Received: goldbook.Q(200), Persisted: goldbook.Q(200)},
		{ID: 2, CustomerID: 7, When: day(2), Paid: goldbook.Q(300), Persisted: goldbook.Q(-100)},
	}
	capitals := []goldbook.Capital{{ID: 1, USD: goldbook.Q(1000), Date: day(1)}}
	customers := []goldbook.Customer{{ID: 7, Name: "Alice"}}
	return entries, capitals, customers
}

// tables parses markdown and returns the cells of every table, header row
// included.
func tables(t *testing.T, md string) [][][]string {
	t.Helper()
	source := []byte(md)
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader(source))

	var result [][][]string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.Table:
			result = append(result, nil)
		case *east.TableHeader, *east.TableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, cellText(c, source))
			}
			result[len(result)-1] = append(result[len(result)-1], row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return result
}

func cellText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func column(table [][]string, name string) []string {
	idx := -1
	for i, h := range table[0] {
		if h == name {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	var col []string
	for _, row := range table[1:] {
		col = append(col, row[idx])
	}
	return col
}

func TestLedgerMarkdown(t *testing.T) {
	entries, capitals, customers := scenario()
	v := goldbook.ComputeLedgerView(entries, capitals, goldbook.ViewOptions{Unit: goldbook.Money, Order: goldbook.Ascending})
	v.ResolveLabels(goldbook.NewDirectory(customers))

	md := LedgerMarkdown(v, Options{Currency: "USD"})
	if !strings.HasPrefix(md, "# Money Ledger") {
		t.Errorf("LedgerMarkdown() does not start with the ledger title:\n%s", md)
	}
	tbls := tables(t, md)
	if len(tbls) != 2 {
		t.Fatalf("LedgerMarkdown() has %d tables, want 2:\n%s", len(tbls), md)
	}

	tests := []struct {
		column string
		want   []string
	}{
		{"#", []string{"1", "2", "3"}},
		{"Date", []string{"2025-03-01", "2025-03-02", "2025-03-03"}},
		{"Customer", []string{"Alice", "Alice", "Customer #999"}},
		{"Received", []string{"$200.00", "", "$50.00"}},
		{"Balance", []string{"$1,200.00", "$900.00", "$950.00"}},
		{"Customer balance", []string{"$200.00", "-$100.00", "$50.00"}},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			got := column(tbls[0], tt.column)
			if strings.Join(got, ";") != strings.Join(tt.want, ";") {
				t.Errorf("column %q = %q, want %q", tt.column, got, tt.want)
			}
		})
	}
	if got := column(tbls[0], "Carat"); got != nil {
		t.Errorf("money ledger has a Carat column: %q", got)
	}
	if got := column(tbls[1], "Closing"); len(got) != 1 || got[0] != "$950.00" {
		t.Errorf("Closing = %q, want [$950.00]", got)
	}
	if got := column(tbls[1], "Net"); len(got) != 1 || got[0] != "-$50.00" {
		t.Errorf("Net = %q, want [-$50.00]", got)
	}
	if !strings.Contains(md, "ring \\| deposit") {
		t.Errorf("LedgerMarkdown() does not escape pipes in descriptions:\n%s", md)
	}
}

func TestLedgerMarkdown_Gold(t *testing.T) {
	carat := goldbook.Q(21)
	entries := []goldbook.Entry{{ID: 1, CustomerID: 7, When: day(1), Received: goldbook.Q(12.5), Carat: &carat}}
	capitals := []goldbook.Capital{{ID: 1, Gold: goldbook.Q(100)}}
	v := goldbook.ComputeLedgerView(entries, capitals, goldbook.ViewOptions{
		Unit:     goldbook.Gold,
		Window:   goldbook.Window{From: day(1).Add(-time.Hour), To: day(1).Add(time.Hour)},
		Customer: 7,
	})
	v.Warnings = []error{errors.New("could not fetch customers: timeout")}
	v.ResolveLabels(goldbook.Directory{})

	md := LedgerMarkdown(v, Options{FormatDay: func(t time.Time) string { return t.Format("02/01/2006") }})
	tbls := tables(t, md)
	if len(tbls) == 0 {
		t.Fatalf("LedgerMarkdown() has no table:\n%s", md)
	}
	if got := column(tbls[0], "Carat"); len(got) != 1 || got[0] != "21" {
		t.Errorf("Carat = %q, want [21]", got)
	}
	if got := column(tbls[0], "Balance"); len(got) != 1 || got[0] != "112.500 g" {
		t.Errorf("Balance = %q, want [112.500 g]", got)
	}
	for _, want := range []string{"Period: 01/03/2025", "Customer #7", "> Warning: could not fetch customers: timeout"} {
		if !strings.Contains(md, want) {
			t.Errorf("LedgerMarkdown() does not contain %q:\n%s", want, md)
		}
	}
}

func TestLedgerMarkdown_Empty(t *testing.T) {
	v := goldbook.ComputeLedgerView(nil, nil, goldbook.ViewOptions{Unit: goldbook.Money, Page: 3, PageSize: 10})
	md := LedgerMarkdown(v, Options{})
	if !strings.Contains(md, "_No entries._") {
		t.Errorf("LedgerMarkdown() of an empty view:\n%s\nwant a no entries notice", md)
	}
}

func TestLedgerMarkdown_CustomerPastTheEnd(t *testing.T) {
	entries, capitals, customers := scenario()
	v := goldbook.ComputeLedgerView(entries, capitals, goldbook.ViewOptions{Unit: goldbook.Money, Customer: 7, Page: 9, PageSize: 10})
	v.ResolveLabels(goldbook.NewDirectory(customers))

	md := LedgerMarkdown(v, Options{})
	if !strings.Contains(md, ", Alice, page 9 of 1") {
		t.Errorf("LedgerMarkdown() header does not name the customer:\n%s", md)
	}
	if strings.Contains(md, "Customer #7") {
		t.Errorf("LedgerMarkdown() shows a placeholder for a known customer:\n%s", md)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	entries, capitals, _ := scenario()
	gold := []goldbook.Entry{{ID: 1, CustomerID: 7, When: day(2), Received: goldbook.Q(10)}}
	capitals[0].Gold = goldbook.Q(40)
	s := goldbook.Summarize(gold, entries, capitals, goldbook.Window{}, goldbook.Q(50))
	s.Currency = "USD"

	md := SummaryMarkdown(s, Options{})
	tbls := tables(t, md)
	if len(tbls) != 1 {
		t.Fatalf("SummaryMarkdown() has %d tables, want 1:\n%s", len(tbls), md)
	}
	if got := column(tbls[0], "Ledger"); strings.Join(got, ",") != "Gold,Money" {
		t.Errorf("Ledger = %q, want [Gold Money]", got)
	}
	if got := column(tbls[0], "Closing"); strings.Join(got, ",") != "50.000 g,$950.00" {
		t.Errorf("Closing = %q, want [50.000 g $950.00]", got)
	}
	// 950 + 50 g x 50.
	if !strings.Contains(md, "the shop $3,450.00") {
		t.Errorf("SummaryMarkdown() does not value the shop:\n%s", md)
	}
}

func TestWriteXLSX(t *testing.T) {
	entries, capitals, customers := scenario()
	v := goldbook.ComputeLedgerView(entries, capitals, goldbook.ViewOptions{Unit: goldbook.Money, Order: goldbook.DefaultOrder(goldbook.Money)})
	v.ResolveLabels(goldbook.NewDirectory(customers))

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, v, Options{}); err != nil {
		t.Fatalf("WriteXLSX() unexpected error: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() unexpected error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("money", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetRows() unexpected error: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want header, 3 entries and totals", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][7] != "Balance" {
		t.Errorf("header = %q, want ID ... Balance", rows[0])
	}
	// Money is presented newest first.
	if rows[1][0] != "3" || rows[1][7] != "950" {
		t.Errorf("first row = %q, want entry 3 with a balance of 950", rows[1])
	}
	if rows[3][2] != "Alice" || rows[3][7] != "1200" {
		t.Errorf("third row = %q, want Alice with a balance of 1200", rows[3])
	}
	if rows[4][3] != "Total" || rows[4][7] != "950" {
		t.Errorf("totals = %q, want a closing balance of 950", rows[4])
	}
}
