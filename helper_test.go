package goldbook

import (
	"context"
	"slices"
	"time"
)

// day returns 10:00 UTC on the given day of March 2025.
func day(d int) time.Time { return time.Date(2025, time.March, d, 10, 0, 0, 0, time.UTC) }

// fixedCalendar is a UTC calendar whose weeks start on Saturday, frozen on
// Wednesday 2025-03-12 15:00.
func fixedCalendar() *Calendar {
	cal := NewCalendar(time.UTC, time.Saturday)
	cal.Now = func() time.Time { return time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC) }
	return cal
}

// memStore is an in-memory Store. The fail fields make the matching read
// fail.
type memStore struct {
	entries   map[Unit][]Entry
	capitals  []Capital
	customers []Customer

	failEntries, failCapitals, failCustomers error
}

func newMemStore() *memStore { return &memStore{entries: make(map[Unit][]Entry)} }

func (m *memStore) Entries(_ context.Context, unit Unit) ([]Entry, error) {
	if m.failEntries != nil {
		return nil, m.failEntries
	}
	return slices.Clone(m.entries[unit]), nil
}

func (m *memStore) Capitals(context.Context) ([]Capital, error) {
	if m.failCapitals != nil {
		return nil, m.failCapitals
	}
	return slices.Clone(m.capitals), nil
}

func (m *memStore) Customers(context.Context) ([]Customer, error) {
	if m.failCustomers != nil {
		return nil, m.failCustomers
	}
	return slices.Clone(m.customers), nil
}

func (m *memStore) CreateEntry(_ context.Context, unit Unit, in EntryInput) (Entry, error) {
	e := Entry{
		ID:          int64(len(m.entries[unit]) + 1),
		CustomerID:  in.CustomerID,
		When:        in.When,
		Description: in.Description,
		Received:    in.Received,
		Paid:        in.Paid,
		Carat:       in.Carat,
	}
	m.entries[unit] = append(m.entries[unit], e)
	return e, nil
}

func (m *memStore) UpdateEntry(_ context.Context, unit Unit, id int64, in EntryInput) (Entry, error) {
	for i, e := range m.entries[unit] {
		if e.ID == id {
			e.CustomerID, e.When, e.Description = in.CustomerID, in.When, in.Description
			e.Received, e.Paid, e.Carat = in.Received, in.Paid, in.Carat
			m.entries[unit][i] = e
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

func (m *memStore) DeleteEntry(_ context.Context, unit Unit, id int64) error {
	n := len(m.entries[unit])
	m.entries[unit] = slices.DeleteFunc(m.entries[unit], func(e Entry) bool { return e.ID == id })
	if len(m.entries[unit]) == n {
		return ErrNotFound
	}
	return nil
}

func (m *memStore) CreateCapital(_ context.Context, in CapitalInput) (Capital, error) {
	c := Capital{ID: int64(len(m.capitals) + 1), USD: in.USD, Gold: in.Gold, Date: in.Date}
	m.capitals = append(m.capitals, c)
	return c, nil
}

func (m *memStore) UpdateCapital(_ context.Context, id int64, in CapitalInput) (Capital, error) {
	for i, c := range m.capitals {
		if c.ID == id {
			m.capitals[i] = Capital{ID: id, USD: in.USD, Gold: in.Gold, Date: in.Date}
			return m.capitals[i], nil
		}
	}
	return Capital{}, ErrNotFound
}

func (m *memStore) DeleteCapital(_ context.Context, id int64) error {
	n := len(m.capitals)
	m.capitals = slices.DeleteFunc(m.capitals, func(c Capital) bool { return c.ID == id })
	if len(m.capitals) == n {
		return ErrNotFound
	}
	return nil
}

func (m *memStore) CreateCustomer(_ context.Context, in CustomerInput) (Customer, error) {
	c := Customer{ID: int64(len(m.customers) + 1), Name: in.Name, Phone: in.Phone}
	m.customers = append(m.customers, c)
	return c, nil
}

// recorder is a Publisher keeping what it was given.
type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

// ids returns the entry ids of rows, in order.
func ids(rows []Row) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

// balances returns the running balances of rows as strings, in order.
func balances(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Balance.String()
	}
	return out
}
