package goldbook

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// Reader is the read side of a ledger store. Collections come back in no
// particular order.
type Reader interface {
	Entries(ctx context.Context, unit Unit) ([]Entry, error)
	Capitals(ctx context.Context) ([]Capital, error)
	Customers(ctx context.Context) ([]Customer, error)
}

// Writer is the command side of a ledger store. Stores assign ids and
// compute the persisted balance of entries.
type Writer interface {
	CreateEntry(ctx context.Context, unit Unit, in EntryInput) (Entry, error)
	UpdateEntry(ctx context.Context, unit Unit, id int64, in EntryInput) (Entry, error)
	DeleteEntry(ctx context.Context, unit Unit, id int64) error

	CreateCapital(ctx context.Context, in CapitalInput) (Capital, error)
	UpdateCapital(ctx context.Context, id int64, in CapitalInput) (Capital, error)
	DeleteCapital(ctx context.Context, id int64) error

	CreateCustomer(ctx context.Context, in CustomerInput) (Customer, error)
}

// Store is a complete ledger store.
type Store interface {
	Reader
	Writer
}
