package goldbook

import (
	"context"
	"fmt"
	"time"
)

// Shop is what the presentation layer talks to. Views are computed from a
// fresh fetch every time and mutations only reach the screen through the
// next view, never optimistically.
type Shop struct {
	Store     Store
	Calendar  *Calendar
	PageSize  int
	Currency  string
	Rate      Quantity  // fixed price of a gram of gold in Currency.
	Publisher Publisher // optional.
}

// ViewRequest describes a ledger screen.
type ViewRequest struct {
	Unit     Unit
	Range    RangeKind
	Start    string // custom range start, display calendar.
	End      string // custom range end, display calendar.
	Customer int64
	Page     int
	Order    *Order // nil uses DefaultOrder(Unit).
}

// View fetches the ledger and computes the requested page. Fetch failures do
// not fail the view, they are reported in LedgerView.Warnings.
func (s *Shop) View(ctx context.Context, req ViewRequest) *LedgerView {
	snap := Fetch(ctx, s.Store, req.Unit)

	order := DefaultOrder(req.Unit)
	if req.Order != nil {
		order = *req.Order
	}
	v := ComputeLedgerView(snap.Entries, snap.Capitals, ViewOptions{
		Unit:     req.Unit,
		Window:   s.Calendar.ResolveWindow(req.Range, req.Start, req.End),
		Customer: req.Customer,
		Order:    order,
		Page:     req.Page,
		PageSize: s.PageSize,
	})
	v.ResolveLabels(NewDirectory(snap.Customers))
	v.Warnings = snap.Warnings
	return v
}

// Summary fetches both ledgers and summarizes them over the window.
func (s *Shop) Summary(ctx context.Context, kind RangeKind, start, end string) *Summary {
	b := FetchBooks(ctx, s.Store, Gold, Money)
	sum := Summarize(b.Entries[Gold], b.Entries[Money], b.Capitals, s.Calendar.ResolveWindow(kind, start, end), s.Rate)
	sum.Range = kind
	sum.Currency = s.Currency
	sum.Warnings = b.Warnings
	return sum
}

// Customers lists customers, sorted by id.
func (s *Shop) Customers(ctx context.Context) ([]Customer, error) {
	customers, err := s.Store.Customers(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list customers: %w", err)
	}
	sortByID(customers, func(c Customer) int64 { return c.ID })
	return customers, nil
}

// Capitals lists capital records, sorted by date.
func (s *Shop) Capitals(ctx context.Context) ([]Capital, error) {
	capitals, err := s.Store.Capitals(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list capitals: %w", err)
	}
	sortCapitals(capitals)
	return capitals, nil
}

// entryInput validates the form and converts its date.
func (s *Shop) entryInput(unit Unit, f EntryForm) (EntryInput, error) {
	if err := f.Validate(unit); err != nil {
		return EntryInput{}, err
	}
	when, err := s.Calendar.ParseDay(f.Date)
	if err != nil {
		return EntryInput{}, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return EntryInput{
		CustomerID:  f.CustomerID,
		When:        when,
		Description: f.Description,
		Received:    f.Received,
		Paid:        f.Paid,
		Carat:       f.Carat,
	}, nil
}

// AddEntry records a new entry in the unit's ledger.
func (s *Shop) AddEntry(ctx context.Context, unit Unit, f EntryForm) (Entry, error) {
	in, err := s.entryInput(unit, f)
	if err != nil {
		return Entry{}, err
	}
	e, err := s.Store.CreateEntry(ctx, unit, in)
	if err != nil {
		return Entry{}, fmt.Errorf("could not create %s entry: %w", unit, err)
	}
	s.publish(ctx, EntryCreated, unit.String(), e.ID)
	return e, nil
}

// EditEntry replaces the entry id of the unit's ledger.
func (s *Shop) EditEntry(ctx context.Context, unit Unit, id int64, f EntryForm) (Entry, error) {
	in, err := s.entryInput(unit, f)
	if err != nil {
		return Entry{}, err
	}
	e, err := s.Store.UpdateEntry(ctx, unit, id, in)
	if err != nil {
		return Entry{}, fmt.Errorf("could not update %s entry %d: %w", unit, id, err)
	}
	s.publish(ctx, EntryUpdated, unit.String(), e.ID)
	return e, nil
}

// RemoveEntry deletes the entry id of the unit's ledger.
func (s *Shop) RemoveEntry(ctx context.Context, unit Unit, id int64) error {
	if err := s.Store.DeleteEntry(ctx, unit, id); err != nil {
		return fmt.Errorf("could not delete %s entry %d: %w", unit, id, err)
	}
	s.publish(ctx, EntryDeleted, unit.String(), id)
	return nil
}

func (s *Shop) capitalInput(f CapitalForm) (CapitalInput, error) {
	if err := f.Validate(); err != nil {
		return CapitalInput{}, err
	}
	on, err := s.Calendar.ParseDay(f.Date)
	if err != nil {
		return CapitalInput{}, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return CapitalInput{USD: f.USD, Gold: f.Gold, Date: on}, nil
}

// AddCapital records a capital injection.
func (s *Shop) AddCapital(ctx context.Context, f CapitalForm) (Capital, error) {
	in, err := s.capitalInput(f)
	if err != nil {
		return Capital{}, err
	}
	c, err := s.Store.CreateCapital(ctx, in)
	if err != nil {
		return Capital{}, fmt.Errorf("could not create capital: %w", err)
	}
	s.publish(ctx, CapitalCreated, "", c.ID)
	return c, nil
}

// EditCapital replaces the capital record id.
func (s *Shop) EditCapital(ctx context.Context, id int64, f CapitalForm) (Capital, error) {
	in, err := s.capitalInput(f)
	if err != nil {
		return Capital{}, err
	}
	c, err := s.Store.UpdateCapital(ctx, id, in)
	if err != nil {
		return Capital{}, fmt.Errorf("could not update capital %d: %w", id, err)
	}
	s.publish(ctx, CapitalUpdated, "", c.ID)
	return c, nil
}

// RemoveCapital deletes the capital record id.
func (s *Shop) RemoveCapital(ctx context.Context, id int64) error {
	if err := s.Store.DeleteCapital(ctx, id); err != nil {
		return fmt.Errorf("could not delete capital %d: %w", id, err)
	}
	s.publish(ctx, CapitalDeleted, "", id)
	return nil
}

// AddCustomer registers a customer.
func (s *Shop) AddCustomer(ctx context.Context, f CustomerForm) (Customer, error) {
	if err := f.Validate(); err != nil {
		return Customer{}, err
	}
	c, err := s.Store.CreateCustomer(ctx, CustomerInput{Name: f.Name, Phone: f.Phone})
	if err != nil {
		return Customer{}, fmt.Errorf("could not create customer: %w", err)
	}
	s.publish(ctx, CustomerCreated, "", c.ID)
	return c, nil
}

// publish notifies listeners. The mutation is already confirmed by the
// store, so a failure is only logged.
func (s *Shop) publish(ctx context.Context, kind EventKind, unit string, id int64) {
	if s.Publisher == nil {
		return
	}
	e := NewEvent(kind, unit, id, time.Now())
	if err := s.Publisher.Publish(ctx, e); err != nil {
		Logger().WithError(err).WithField("event", e.Kind).Warn("could not publish change event")
	}
}
