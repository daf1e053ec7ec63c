package goldbook

import (
	"slices"
	"sort"
)

// ViewOptions selects what a ledger view shows.
type ViewOptions struct {
	Unit     Unit
	Window   Window
	Customer int64 // 0 means every customer.
	Order    Order
	Page     int // 1-based, values below 1 read as 1.
	PageSize int // 0 or less puts every row on a single page.
}

// Row is an entry annotated with the running balance of its ledger.
type Row struct {
	Entry
	// Balance is the cumulative position of the ledger right after this
	// entry: total capital plus every delta up to and including it, in
	// chronological order. It does not depend on the displayed window.
	Balance Quantity `json:"cumulative"`
	// Customer is the display label of Entry.CustomerID, set by ResolveLabels.
	Customer string `json:"customerLabel,omitempty"`
}

// LedgerView is a filtered, ordered page of a ledger.
type LedgerView struct {
	Unit     Unit
	Window   Window
	Customer int64
	Order    Order

	// CustomerLabel is the display label of Customer, set by ResolveLabels.
	CustomerLabel string

	Opening  Quantity // total capital for this unit.
	Closing  Quantity // cumulative balance after the last entry of the whole ledger.
	Received Quantity // total received over the filtered rows.
	Paid     Quantity // total paid over the filtered rows.

	Total    int // number of rows after filtering, across all pages.
	Page     int
	PageSize int
	Pages    int

	Rows []Row // rows of the requested page.

	// Warnings lists the degraded inputs this view was computed from.
	Warnings []error
}

// OpeningBalance sums the capital of unit over every capital record. Capital
// is a standing baseline and is never windowed.
func OpeningBalance(unit Unit, capitals []Capital) Quantity {
	var total Quantity
	for _, c := range capitals {
		total = total.Add(unit.Capital(c))
	}
	return total
}

// SortEntries sorts entries chronologically, ties broken by id.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.When.Equal(b.When) {
			return a.When.Before(b.When)
		}
		return a.ID < b.ID
	})
}

// Annotate returns every entry in chronological order with its running
// balance, starting from opening. entries is not modified.
func Annotate(entries []Entry, opening Quantity) []Row {
	sorted := slices.Clone(entries)
	SortEntries(sorted)

	rows := make([]Row, len(sorted))
	cumulative := opening
	for i, e := range sorted {
		cumulative = cumulative.Add(e.Delta())
		rows[i] = Row{Entry: e, Balance: cumulative}
	}
	return rows
}

// ComputeLedgerView computes the view of a ledger described by opts.
//
// Balances are accumulated over the complete, unfiltered ledger before the
// window and customer filters apply, so a row shows the same balance in every
// view it appears in.
func ComputeLedgerView(entries []Entry, capitals []Capital, opts ViewOptions) *LedgerView {
	v := &LedgerView{
		Unit:     opts.Unit,
		Window:   opts.Window,
		Customer: opts.Customer,
		Order:    opts.Order,
		Opening:  OpeningBalance(opts.Unit, capitals),
		PageSize: opts.PageSize,
	}

	all := Annotate(entries, v.Opening)
	v.Closing = v.Opening
	if len(all) > 0 {
		v.Closing = all[len(all)-1].Balance
	}

	visible := make([]Row, 0, len(all))
	for _, r := range all {
		if !opts.Window.Contains(r.When) {
			continue
		}
		if opts.Customer != 0 && r.CustomerID != opts.Customer {
			continue
		}
		v.Received = v.Received.Add(r.Received)
		v.Paid = v.Paid.Add(r.Paid)
		visible = append(visible, r)
	}
	if opts.Order == Descending {
		slices.Reverse(visible)
	}

	v.Total = len(visible)
	v.Page, v.Pages, v.Rows = paginate(visible, opts.Page, opts.PageSize)
	return v
}

// paginate returns the 1-based page of rows. A page past the end is empty.
func paginate(rows []Row, page, size int) (int, int, []Row) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = max(len(rows), 1)
	}
	pages := (len(rows) + size - 1) / size
	// Compare pages before multiplying: page*size may overflow.
	if page > pages {
		return page, pages, []Row{}
	}
	start := (page - 1) * size
	end := min(start+size, len(rows))
	return page, pages, rows[start:end]
}

// ResolveLabels sets the customer label of every row in the view, and of
// the customer the view is filtered on.
func (v *LedgerView) ResolveLabels(dir Directory) {
	if v.Customer != 0 {
		v.CustomerLabel = dir.Label(v.Customer)
	}
	for i := range v.Rows {
		v.Rows[i].Customer = dir.Label(v.Rows[i].CustomerID)
	}
}

// Net is the movement over the filtered rows: received minus paid.
func (v *LedgerView) Net() Quantity { return v.Received.Sub(v.Paid) }
