package goldbook

import (
	"time"
)

// Entry is a single receive/pay line of the gold or money ledger.
//
// Gold and money entries share the same shape; ids are unique within a unit
// only.
type Entry struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer"`
	When        time.Time `json:"when"`
	Description string    `json:"description,omitempty"`
	Received    Quantity  `json:"received"`
	Paid        Quantity  `json:"paid"`
	Carat       *Quantity `json:"carat,omitempty"` // gold only, display only.
	// Persisted is the per-row balance computed by the store at write time.
	// It is carried for display and never mixed with the running balance.
	Persisted Quantity `json:"balance"`
}

// Delta is the signed movement of this entry: received minus paid.
func (e Entry) Delta() Quantity { return e.Received.Sub(e.Paid) }

// Capital is a baseline or injected amount of money and gold.
type Capital struct {
	ID   int64     `json:"id"`
	USD  Quantity  `json:"usd"`
	Gold Quantity  `json:"gold"`
	Date time.Time `json:"date"`
}

// Customer is a shop customer as far as ledgers are concerned.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// EntryInput is a validated entry ready to be written by a store.
type EntryInput struct {
	CustomerID  int64
	When        time.Time
	Description string
	Received    Quantity
	Paid        Quantity
	Carat       *Quantity
}

// CapitalInput is a validated capital record ready to be written by a store.
type CapitalInput struct {
	USD  Quantity
	Gold Quantity
	Date time.Time
}

// CustomerInput is a validated customer ready to be written by a store.
type CustomerInput struct {
	Name  string
	Phone string
}
