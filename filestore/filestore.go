// Package filestore persists a shop's ledgers in a folder of JSONL files.
//
// The folder holds one file per collection: gold.jsonl, money.jsonl,
// capitals.jsonl and customers.jsonl. Files are small, human-readable and
// git-friendly; every write rewrites the collection it touches.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/etnz/goldbook"
)

const (
	goldFile      = "gold.jsonl"
	moneyFile     = "money.jsonl"
	capitalsFile  = "capitals.jsonl"
	customersFile = "customers.jsonl"
)

// Store is a goldbook.Store backed by a folder. It is safe for concurrent use
// within a process.
type Store struct {
	dir string

	mu        sync.Mutex
	entries   map[goldbook.Unit][]goldbook.Entry
	capitals  []goldbook.Capital
	customers []goldbook.Customer
}

// Open loads the store in dir. Missing files are empty collections, and the
// folder is created on the first write.
func Open(dir string) (*Store, error) {
	s := &Store{
		dir:     dir,
		entries: make(map[goldbook.Unit][]goldbook.Entry),
	}
	var err error
	if s.entries[goldbook.Gold], err = load[goldbook.Entry](s.path(goldFile)); err != nil {
		return nil, err
	}
	if s.entries[goldbook.Money], err = load[goldbook.Entry](s.path(moneyFile)); err != nil {
		return nil, err
	}
	if s.capitals, err = load[goldbook.Capital](s.path(capitalsFile)); err != nil {
		return nil, err
	}
	if s.customers, err = load[goldbook.Customer](s.path(customersFile)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

func entriesFile(unit goldbook.Unit) string {
	if unit == goldbook.Money {
		return moneyFile
	}
	return goldFile
}

// load reads a JSONL file, a missing file being an empty list.
func load[T any](filename string) ([]T, error) {
	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer f.Close()
	return goldbook.DecodeJSONL[T](filename, f)
}

// save rewrites a JSONL file through a temporary file in the same folder.
func save[T any](filename string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create folder for %q: %w", filename, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	if err := goldbook.EncodeJSONL(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	return os.Rename(tmp.Name(), filename)
}

// Entries implements goldbook.Reader.
func (s *Store) Entries(ctx context.Context, unit goldbook.Unit) ([]goldbook.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries[unit]), nil
}

// Capitals implements goldbook.Reader.
func (s *Store) Capitals(ctx context.Context) ([]goldbook.Capital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.capitals), nil
}

// Customers implements goldbook.Reader.
func (s *Store) Customers(ctx context.Context) ([]goldbook.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.customers), nil
}

func nextID[T any](list []T, id func(T) int64) int64 {
	var max int64
	for _, rec := range list {
		max = maxInt(max, id(rec))
	}
	return max + 1
}

func maxInt(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func entryID(e goldbook.Entry) int64      { return e.ID }
func capitalID(c goldbook.Capital) int64  { return c.ID }
func customerID(c goldbook.Customer) int64 { return c.ID }

// restate recomputes the persisted balance of every entry of customer: the
// customer's own running total in chronological order.
func restate(entries []goldbook.Entry, customer int64) {
	idx := make([]int, 0)
	for i, e := range entries {
		if e.CustomerID == customer {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		ea, eb := entries[a], entries[b]
		if c := ea.When.Compare(eb.When); c != 0 {
			return c
		}
		switch {
		case ea.ID < eb.ID:
			return -1
		case ea.ID > eb.ID:
			return 1
		}
		return 0
	})
	var running goldbook.Quantity
	for _, i := range idx {
		running = running.Add(entries[i].Delta())
		entries[i].Persisted = running
	}
}

// writeEntries commits a new version of a unit's ledger.
func (s *Store) writeEntries(unit goldbook.Unit, entries []goldbook.Entry) error {
	if err := save(s.path(entriesFile(unit)), entries); err != nil {
		return err
	}
	s.entries[unit] = entries
	return nil
}

// CreateEntry implements goldbook.Writer.
func (s *Store) CreateEntry(ctx context.Context, unit goldbook.Unit, in goldbook.EntryInput) (goldbook.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := slices.Clone(s.entries[unit])
	e := goldbook.Entry{
		ID:          nextID(entries, entryID),
		CustomerID:  in.CustomerID,
		When:        in.When,
		Description: in.Description,
		Received:    in.Received,
		Paid:        in.Paid,
		Carat:       in.Carat,
	}
	entries = append(entries, e)
	restate(entries, e.CustomerID)
	if err := s.writeEntries(unit, entries); err != nil {
		return goldbook.Entry{}, err
	}
	return entries[len(entries)-1], nil
}

// UpdateEntry implements goldbook.Writer.
func (s *Store) UpdateEntry(ctx context.Context, unit goldbook.Unit, id int64, in goldbook.EntryInput) (goldbook.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := slices.Clone(s.entries[unit])
	i := slices.IndexFunc(entries, func(e goldbook.Entry) bool { return e.ID == id })
	if i < 0 {
		return goldbook.Entry{}, fmt.Errorf("%s entry %d: %w", unit, id, goldbook.ErrNotFound)
	}
	previous := entries[i].CustomerID
	entries[i] = goldbook.Entry{
		ID:          id,
		CustomerID:  in.CustomerID,
		When:        in.When,
		Description: in.Description,
		Received:    in.Received,
		Paid:        in.Paid,
		Carat:       in.Carat,
	}
	restate(entries, previous)
	restate(entries, in.CustomerID)
	if err := s.writeEntries(unit, entries); err != nil {
		return goldbook.Entry{}, err
	}
	return entries[i], nil
}

// DeleteEntry implements goldbook.Writer.
func (s *Store) DeleteEntry(ctx context.Context, unit goldbook.Unit, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := slices.Clone(s.entries[unit])
	i := slices.IndexFunc(entries, func(e goldbook.Entry) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("%s entry %d: %w", unit, id, goldbook.ErrNotFound)
	}
	customer := entries[i].CustomerID
	entries = slices.Delete(entries, i, i+1)
	restate(entries, customer)
	return s.writeEntries(unit, entries)
}

// CreateCapital implements goldbook.Writer.
func (s *Store) CreateCapital(ctx context.Context, in goldbook.CapitalInput) (goldbook.Capital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	capitals := slices.Clone(s.capitals)
	c := goldbook.Capital{ID: nextID(capitals, capitalID), USD: in.USD, Gold: in.Gold, Date: in.Date}
	capitals = append(capitals, c)
	if err := save(s.path(capitalsFile), capitals); err != nil {
		return goldbook.Capital{}, err
	}
	s.capitals = capitals
	return c, nil
}

// UpdateCapital implements goldbook.Writer.
func (s *Store) UpdateCapital(ctx context.Context, id int64, in goldbook.CapitalInput) (goldbook.Capital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	capitals := slices.Clone(s.capitals)
	i := slices.IndexFunc(capitals, func(c goldbook.Capital) bool { return c.ID == id })
	if i < 0 {
		return goldbook.Capital{}, fmt.Errorf("capital %d: %w", id, goldbook.ErrNotFound)
	}
	capitals[i] = goldbook.Capital{ID: id, USD: in.USD, Gold: in.Gold, Date: in.Date}
	if err := save(s.path(capitalsFile), capitals); err != nil {
		return goldbook.Capital{}, err
	}
	s.capitals = capitals
	return capitals[i], nil
}

// DeleteCapital implements goldbook.Writer.
func (s *Store) DeleteCapital(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.capitals, func(c goldbook.Capital) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("capital %d: %w", id, goldbook.ErrNotFound)
	}
	capitals := slices.Delete(slices.Clone(s.capitals), i, i+1)
	if err := save(s.path(capitalsFile), capitals); err != nil {
		return err
	}
	s.capitals = capitals
	return nil
}

// CreateCustomer implements goldbook.Writer.
func (s *Store) CreateCustomer(ctx context.Context, in goldbook.CustomerInput) (goldbook.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers := slices.Clone(s.customers)
	c := goldbook.Customer{ID: nextID(customers, customerID), Name: in.Name, Phone: in.Phone}
	customers = append(customers, c)
	if err := save(s.path(customersFile), customers); err != nil {
		return goldbook.Customer{}, err
	}
	s.customers = customers
	return c, nil
}

// Compile-time check: Store implements goldbook.Store.
var _ goldbook.Store = (*Store)(nil)
