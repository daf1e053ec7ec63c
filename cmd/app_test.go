package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/goldbook"
	"github.com/etnz/goldbook/filestore"
	"github.com/google/subcommands"
)

// useStore points the global flags at a fresh file store.
func useStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	store, config, raw := *storeFlag, *configFile, *plain
	*storeFlag, *configFile, *plain = dir, "", true
	t.Cleanup(func() { *storeFlag, *configFile, *plain = store, config, raw })
	return dir
}

// run parses args for c and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("%s %q: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), fs)
}

func TestApplyStoreFlag(t *testing.T) {
	tests := []struct {
		location string
		want     goldbook.StoreConfig
	}{
		{"ledgers", goldbook.StoreConfig{Kind: "file", Path: "ledgers"}},
		{"postgres://shop@localhost/gold", goldbook.StoreConfig{Kind: "postgres", DSN: "postgres://shop@localhost/gold"}},
		{"https://shop.example.com/api", goldbook.StoreConfig{Kind: "rest", URL: "https://shop.example.com/api"}},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			var got goldbook.StoreConfig
			applyStoreFlag(&got, tt.location)
			if got != tt.want {
				t.Errorf("applyStoreFlag(%q) = %+v, want %+v", tt.location, got, tt.want)
			}
		})
	}
}

func TestPeriodFlags(t *testing.T) {
	tests := []struct {
		args    []string
		want    goldbook.RangeKind
		wantErr bool
	}{
		{nil, goldbook.All, false},
		{[]string{"-r", "week"}, goldbook.CurrentWeek, false},
		{[]string{"-s", "-7d"}, goldbook.Custom, false},
		{[]string{"-r", "today", "-e", "2025-03-01"}, goldbook.Today, false},
		{[]string{"-r", "fortnight"}, goldbook.All, true},
	}
	for _, tt := range tests {
		var p periodFlags
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		p.SetFlags(fs)
		if err := fs.Parse(tt.args); err != nil {
			t.Fatal(err)
		}
		got, err := p.kind()
		if (err != nil) != tt.wantErr {
			t.Errorf("kind() with %q error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("kind() with %q = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestEntryFlags(t *testing.T) {
	var c addCmd
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse([]string{"-c", "3", "-r", "12.5", "-k", "21", "-m", "ring"}); err != nil {
		t.Fatal(err)
	}
	if c.unit != goldbook.Gold {
		t.Errorf("unit = %v, want gold by default", c.unit)
	}
	if c.form.Date != "0d" {
		t.Errorf("Date = %q, want today by default", c.form.Date)
	}
	if c.form.CustomerID != 3 || !c.form.Received.Equal(goldbook.Q(12.5)) || !c.form.Paid.IsZero() {
		t.Errorf("form = %+v, want customer 3 receiving 12.5", c.form)
	}
	if c.form.Carat == nil || !c.form.Carat.Equal(goldbook.Q(21)) {
		t.Errorf("Carat = %v, want 21", c.form.Carat)
	}

	if err := fs.Parse([]string{"-r", "twelve"}); err == nil {
		t.Error("Parse(-r twelve) succeeded, want an invalid amount")
	}
	if err := fs.Parse([]string{"-u", "silver"}); err == nil {
		t.Error("Parse(-u silver) succeeded, want an unknown unit")
	}
}

func TestCommands(t *testing.T) {
	dir := useStore(t)

	steps := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{"customer", &customerCmd{}, []string{"-n", "Alice", "-phone", "555-0100"}, subcommands.ExitSuccess},
		{"nameless customer", &customerCmd{}, nil, subcommands.ExitUsageError},
		{"capital", &capitalCmd{}, []string{"-usd", "1000", "-gold", "50", "-d", "2025-03-01"}, subcommands.ExitSuccess},
		{"deposit", &addCmd{}, []string{"-u", "money", "-c", "1", "-d", "2025-03-01", "-r", "200"}, subcommands.ExitSuccess},
		{"withdrawal", &addCmd{}, []string{"-u", "money", "-c", "1", "-d", "2025-03-02", "-p", "300"}, subcommands.ExitSuccess},
		{"gold", &addCmd{}, []string{"-c", "1", "-d", "2025-03-02", "-r", "12.5", "-k", "21"}, subcommands.ExitSuccess},
		{"no amount", &addCmd{}, []string{"-u", "money", "-c", "1"}, subcommands.ExitUsageError},
		{"carat on money", &addCmd{}, []string{"-u", "money", "-c", "1", "-r", "5", "-k", "18"}, subcommands.ExitUsageError},
		{"edit", &editCmd{}, []string{"-u", "money", "-id", "2", "-c", "1", "-d", "2025-03-02", "-p", "250"}, subcommands.ExitSuccess},
		{"edit missing", &editCmd{}, []string{"-u", "money", "-id", "42", "-c", "1", "-p", "1"}, subcommands.ExitFailure},
		{"edit without id", &editCmd{}, []string{"-c", "1", "-p", "1"}, subcommands.ExitUsageError},
		{"rm gold", &rmCmd{}, []string{"-id", "1"}, subcommands.ExitSuccess},
		{"rm missing", &rmCmd{}, []string{"-id", "1"}, subcommands.ExitFailure},
		{"ledger", &ledgerCmd{}, []string{"-u", "money", "-r", "custom", "-s", "2025-03-01", "-e", "2025-03-02"}, subcommands.ExitSuccess},
		{"bad order", &ledgerCmd{}, []string{"-order", "sideways"}, subcommands.ExitUsageError},
		{"summary", &summaryCmd{}, []string{"-r", "month"}, subcommands.ExitSuccess},
		{"capitals", &capitalsCmd{}, nil, subcommands.ExitSuccess},
		{"customers", &customersCmd{}, nil, subcommands.ExitSuccess},
	}
	for _, s := range steps {
		if got := run(t, s.cmd, s.args...); got != s.want {
			t.Fatalf("%s: exit status = %v, want %v", s.name, got, s.want)
		}
	}

	store, err := filestore.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	money, err := store.Entries(context.Background(), goldbook.Money)
	if err != nil {
		t.Fatal(err)
	}
	if len(money) != 2 {
		t.Fatalf("money entries = %d, want 2", len(money))
	}
	for _, e := range money {
		if e.ID == 2 && !e.Paid.Equal(goldbook.Q(250)) {
			t.Errorf("entry 2 paid %v, want the edited 250", e.Paid)
		}
	}
	gold, err := store.Entries(context.Background(), goldbook.Gold)
	if err != nil {
		t.Fatal(err)
	}
	if len(gold) != 0 {
		t.Errorf("gold entries = %d, want the deleted entry gone", len(gold))
	}
}

func TestExport(t *testing.T) {
	useStore(t)
	run(t, &capitalCmd{}, "-usd", "1000", "-d", "2025-03-01")
	run(t, &addCmd{}, "-u", "money", "-c", "7", "-d", "2025-03-01", "-r", "200")

	out := filepath.Join(t.TempDir(), "money.xlsx")
	if got := run(t, &exportCmd{}, "-u", "money", "-o", out); got != subcommands.ExitSuccess {
		t.Fatalf("export exit status = %v", got)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Errorf("export did not write %s: %v", out, err)
	}
	if got := run(t, &exportCmd{}, "-u", "money"); got != subcommands.ExitUsageError {
		t.Errorf("export without -o exit status = %v, want a usage error", got)
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, name := range []string{"ledger", "add", "export", "capital-rm", "assist"} {
		if c.Sub[name] == nil {
			t.Errorf("Completion() has no %q command", name)
		}
	}
	ledger := c.Sub["ledger"]
	if ledger == nil {
		t.FailNow()
	}
	if got := ledger.Flags["u"].Predict(""); len(got) != 2 {
		t.Errorf("ledger -u predicts %q, want gold and money", got)
	}
	if _, ok := ledger.Flags["page"]; !ok {
		t.Error("ledger has no -page flag completion")
	}
	if _, ok := c.Flags["plain"]; !ok {
		t.Error("Completion() has no -plain global flag")
	}
}

func TestMarkdownLists(t *testing.T) {
	if got := customersMarkdown(nil); got != "# Customers\n\n_No customers._\n" {
		t.Errorf("customersMarkdown(nil) = %q", got)
	}
	got := customersMarkdown([]goldbook.Customer{{ID: 1, Name: "A|B", Phone: "1"}})
	if want := "| 1 | A\\|B | 1 |\n"; !strings.Contains(got, want) {
		t.Errorf("customersMarkdown() = %q, want it to contain %q", got, want)
	}

	shop := &goldbook.Shop{Calendar: goldbook.NewCalendar(nil, 0), Currency: "USD"}
	got = capitalsMarkdown([]goldbook.Capital{{ID: 1, USD: goldbook.Q(1000), Gold: goldbook.Q(50)}, {ID: 2, USD: goldbook.Q(500)}}, shop)
	if want := "**$1,500.00** | **50.000 g**"; !strings.Contains(got, want) {
		t.Errorf("capitalsMarkdown() = %q, want it to contain %q", got, want)
	}
}
