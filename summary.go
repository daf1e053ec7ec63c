package goldbook

import (
	"sort"
)

// Track summarizes one ledger.
type Track struct {
	Unit     Unit
	Capital  Quantity // opening balance.
	Received Quantity // received within the window.
	Paid     Quantity // paid within the window.
	Entries  int      // entries within the window.
	Closing  Quantity // balance after the last entry of the whole ledger.
}

// Net is the movement within the window.
func (t Track) Net() Quantity { return t.Received.Sub(t.Paid) }

// Summary is the shop's dashboard: both ledgers side by side, and the shop's
// total worth in currency at a fixed gold rate.
type Summary struct {
	Range    RangeKind
	Window   Window
	Currency string
	Rate     Quantity
	Gold     Track
	Money    Track
	Warnings []error
}

// Value is the closing worth of the shop in currency: the money balance plus
// the gold balance converted at the fixed rate.
func (s *Summary) Value() Quantity {
	return s.Money.Closing.Add(s.Gold.Closing.Mul(s.Rate))
}

// GoldValue is the closing gold balance converted at the fixed rate.
func (s *Summary) GoldValue() Quantity { return s.Gold.Closing.Mul(s.Rate) }

func summarizeTrack(unit Unit, entries []Entry, capitals []Capital, w Window) Track {
	t := Track{Unit: unit, Capital: OpeningBalance(unit, capitals)}
	t.Closing = t.Capital
	for _, e := range entries {
		t.Closing = t.Closing.Add(e.Delta())
		if !w.Contains(e.When) {
			continue
		}
		t.Entries++
		t.Received = t.Received.Add(e.Received)
		t.Paid = t.Paid.Add(e.Paid)
	}
	return t
}

// Summarize computes the dashboard of both ledgers over the window.
func Summarize(gold, money []Entry, capitals []Capital, w Window, rate Quantity) *Summary {
	return &Summary{
		Window: w,
		Rate:   rate,
		Gold:   summarizeTrack(Gold, gold, capitals, w),
		Money:  summarizeTrack(Money, money, capitals, w),
	}
}

func sortByID[T any](list []T, id func(T) int64) {
	sort.SliceStable(list, func(i, j int) bool { return id(list[i]) < id(list[j]) })
}

// sortCapitals sorts capital records by date, then id.
func sortCapitals(capitals []Capital) {
	sort.SliceStable(capitals, func(i, j int) bool {
		a, b := capitals[i], capitals[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})
}
