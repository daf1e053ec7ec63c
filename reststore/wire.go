package reststore

import (
	"fmt"
	"time"

	"github.com/etnz/goldbook"
)

// Records as the backend writes them. The money ledger calls its persisted
// balance usd_balance.

type entryWire struct {
	ID              int64              `json:"id,omitempty"`
	Customer        int64              `json:"customer"`
	TransactionDate string             `json:"transaction_date"`
	Description     string             `json:"description"`
	Received        goldbook.Quantity  `json:"received"`
	Paid            goldbook.Quantity  `json:"paid"`
	Carat           *goldbook.Quantity `json:"carat,omitempty"`
	Balance         *goldbook.Quantity `json:"balance,omitempty"`
	USDBalance      *goldbook.Quantity `json:"usd_balance,omitempty"`
}

type capitalWire struct {
	ID         int64             `json:"id,omitempty"`
	USDAmount  goldbook.Quantity `json:"usd_amount"`
	GoldAmount goldbook.Quantity `json:"gold_amount"`
	Date       string            `json:"date"`
}

type customerWire struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// dateLayouts are tried in order when reading dates.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", goldbook.DateFormat}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// formatDate writes the normalized form of a day.
func formatDate(t time.Time) string { return t.Format(goldbook.DateFormat) }

func newEntryWire(in goldbook.EntryInput) entryWire {
	return entryWire{
		Customer:        in.CustomerID,
		TransactionDate: formatDate(in.When),
		Description:     in.Description,
		Received:        in.Received,
		Paid:            in.Paid,
		Carat:           in.Carat,
	}
}

func (w entryWire) entry(loc *time.Location) (goldbook.Entry, error) {
	when, err := parseDate(w.TransactionDate, loc)
	if err != nil {
		return goldbook.Entry{}, err
	}
	e := goldbook.Entry{
		ID:          w.ID,
		CustomerID:  w.Customer,
		When:        when,
		Description: w.Description,
		Received:    w.Received,
		Paid:        w.Paid,
		Carat:       w.Carat,
	}
	switch {
	case w.Balance != nil:
		e.Persisted = *w.Balance
	case w.USDBalance != nil:
		e.Persisted = *w.USDBalance
	}
	return e, nil
}

func newCapitalWire(in goldbook.CapitalInput) capitalWire {
	return capitalWire{USDAmount: in.USD, GoldAmount: in.Gold, Date: formatDate(in.Date)}
}

func (w capitalWire) capital(loc *time.Location) (goldbook.Capital, error) {
	on, err := parseDate(w.Date, loc)
	if err != nil {
		return goldbook.Capital{}, err
	}
	return goldbook.Capital{ID: w.ID, USD: w.USDAmount, Gold: w.GoldAmount, Date: on}, nil
}
