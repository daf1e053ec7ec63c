package goldbook

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Snapshot is what a view is computed from: the raw collections of one unit.
type Snapshot struct {
	Unit      Unit
	Entries   []Entry
	Capitals  []Capital
	Customers []Customer
	// Warnings holds one error per collection that could not be fetched and
	// was replaced by an empty one.
	Warnings []error
}

// Err joins the snapshot warnings, nil if every fetch succeeded.
func (s *Snapshot) Err() error { return errors.Join(s.Warnings...) }

// Fetch reads entries, capitals and customers concurrently.
//
// A failing fetch never spoils the others: its collection is left empty and
// the failure is recorded as a warning, so the caller always gets something
// to compute from.
func Fetch(ctx context.Context, r Reader, unit Unit) *Snapshot {
	b := FetchBooks(ctx, r, unit)
	return &Snapshot{
		Unit:      unit,
		Entries:   b.Entries[unit],
		Capitals:  b.Capitals,
		Customers: b.Customers,
		Warnings:  b.Warnings,
	}
}

// Books holds the entries of several ledgers with the capitals and customers
// they share.
type Books struct {
	Entries   map[Unit][]Entry
	Capitals  []Capital
	Customers []Customer
	Warnings  []error
}

// FetchBooks reads the entries of every unit, then capitals and customers
// once, all concurrently. Failures degrade like in Fetch.
func FetchBooks(ctx context.Context, r Reader, units ...Unit) *Books {
	b := &Books{Entries: make(map[Unit][]Entry, len(units))}
	var mu sync.Mutex
	warn := func(what string, err error) {
		err = fmt.Errorf("could not fetch %s: %w", what, err)
		Logger().WithError(err).Warn("degraded ledger fetch")
		mu.Lock()
		b.Warnings = append(b.Warnings, err)
		mu.Unlock()
	}

	var g errgroup.Group
	for _, unit := range units {
		g.Go(func() error {
			entries, err := r.Entries(ctx, unit)
			if err != nil {
				warn(unit.String()+" entries", err)
			}
			if entries == nil || err != nil {
				entries = []Entry{}
			}
			mu.Lock()
			b.Entries[unit] = entries
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		capitals, err := r.Capitals(ctx)
		if err != nil {
			warn("capitals", err)
		}
		if capitals == nil || err != nil {
			capitals = []Capital{}
		}
		b.Capitals = capitals
		return nil
	})
	g.Go(func() error {
		customers, err := r.Customers(ctx)
		if err != nil {
			warn("customers", err)
		}
		if customers == nil || err != nil {
			customers = []Customer{}
		}
		b.Customers = customers
		return nil
	})
	g.Wait() // goroutines never fail, failures are warnings.
	return b
}
