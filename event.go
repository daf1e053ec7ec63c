package goldbook

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventKind names what changed in the store.
type EventKind string

const (
	EntryCreated    EventKind = "entry.created"
	EntryUpdated    EventKind = "entry.updated"
	EntryDeleted    EventKind = "entry.deleted"
	CapitalCreated  EventKind = "capital.created"
	CapitalUpdated  EventKind = "capital.updated"
	CapitalDeleted  EventKind = "capital.deleted"
	CustomerCreated EventKind = "customer.created"
)

// Event tells other screens that a confirmed mutation happened and their
// views must be recomputed. It carries no balance: listeners re-fetch.
type Event struct {
	ID       string    `json:"id"`
	Kind     EventKind `json:"kind"`
	Unit     string    `json:"unit,omitempty"` // empty for capitals and customers.
	RecordID int64     `json:"recordId"`
	At       time.Time `json:"at"`
}

// NewEvent returns an event with a fresh id.
func NewEvent(kind EventKind, unit string, id int64, at time.Time) Event {
	return Event{ID: uuid.NewString(), Kind: kind, Unit: unit, RecordID: id, At: at}
}

// Publisher publishes change events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
