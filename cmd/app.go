// Package cmd implements the CLI application to keep a gold shop's ledgers.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/goldbook"
	"github.com/etnz/goldbook/filestore"
	"github.com/etnz/goldbook/kafka"
	"github.com/etnz/goldbook/pgstore"
	"github.com/etnz/goldbook/renderer"
	"github.com/etnz/goldbook/reststore"
	"github.com/google/subcommands"
)

// Commands lists every subcommand, in the order of the help screen.
var Commands = []struct {
	Command subcommands.Command
	Group   string
}{
	{&ledgerCmd{}, "ledgers"},
	{&summaryCmd{}, "ledgers"},
	{&exportCmd{}, "ledgers"},
	{&addCmd{}, "entries"},
	{&editCmd{}, "entries"},
	{&rmCmd{}, "entries"},
	{&capitalCmd{}, "capital"},
	{&capitalRmCmd{}, "capital"},
	{&capitalsCmd{}, "capital"},
	{&customerCmd{}, "customers"},
	{&customersCmd{}, "customers"},
	{&assistCmd{}, "assistant"},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd.Command, cmd.Group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "goldbook.yaml", "Path to the YAML configuration file")
	storeFlag  = flag.String("store", "", "Ledger store: a folder, a postgres:// DSN or an http(s):// backend URL. Overrides the configuration.")
	plain      = flag.Bool("plain", false, "Print raw markdown instead of styled terminal output")
)

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (goldbook.Config, error) {
	cfg, err := goldbook.LoadConfig(*configFile)
	if err != nil {
		return cfg, err
	}
	if *storeFlag != "" {
		applyStoreFlag(&cfg.Store, *storeFlag)
	}
	goldbook.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogJSON)
	return cfg, nil
}

// applyStoreFlag selects the store kind from the shape of location.
func applyStoreFlag(sc *goldbook.StoreConfig, location string) {
	switch {
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		sc.Kind, sc.DSN = "postgres", location
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		sc.Kind, sc.URL = "rest", location
	default:
		sc.Kind, sc.Path = "file", location
	}
}

// openStore opens the configured store. close releases it.
func openStore(ctx context.Context, cfg goldbook.Config) (store goldbook.Store, close func(), err error) {
	switch cfg.Store.Kind {
	case "postgres":
		s, err := pgstore.Connect(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil
	case "rest":
		c := reststore.New(cfg.Store.URL, cfg.Store.Token, cfg.Store.DataPath)
		if loc, err := cfg.Location(); err == nil {
			c.Location = loc
		}
		return c, func() {}, nil
	default:
		s, err := filestore.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

// OpenShop is the central function to open the shop described by the
// configuration and the global flags. close must be called when done.
func OpenShop(ctx context.Context) (shop *goldbook.Shop, close func(), err error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	cal, err := cfg.Calendar()
	if err != nil {
		return nil, nil, err
	}
	rate, err := cfg.Rate()
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %s store: %w", cfg.Store.Kind, err)
	}

	shop = &goldbook.Shop{
		Store:    store,
		Calendar: cal,
		PageSize: cfg.PageSize,
		Currency: cfg.Currency,
		Rate:     rate,
	}
	close = closeStore
	if len(cfg.Kafka.Brokers) > 0 {
		p := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		shop.Publisher = p
		close = func() {
			if err := p.Close(); err != nil {
				goldbook.Logger().WithError(err).Warn("could not flush change events")
			}
			closeStore()
		}
	}
	return shop, close, nil
}

// renderOptions returns the presentation settings of shop.
func renderOptions(shop *goldbook.Shop) renderer.Options {
	return renderer.Options{Currency: shop.Currency, FormatDay: shop.Calendar.FormatDay}
}

// renderMarkdown styles md for the terminal, unless -plain is set.
func renderMarkdown(md string) string {
	if *plain {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) { fmt.Print(renderMarkdown(md)) }

// printWarnings reports degraded fetches, the view is still printed.
func printWarnings(warnings []error) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", w)
	}
}

// failure prints err and returns the matching exit status.
func failure(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, goldbook.ErrInvalidForm) {
		return subcommands.ExitUsageError
	}
	if errors.Is(err, goldbook.ErrNotFound) {
		fmt.Fprintln(os.Stderr, "Check the id with the ledger, capitals or customers command.")
	}
	return subcommands.ExitFailure
}
