package goldbook

import (
	"fmt"
	"strings"
)

// Unit identifies one of the two parallel ledgers of the shop.
type Unit int

const (
	// Gold is the gold ledger, measured in grams.
	Gold Unit = iota
	// Money is the money ledger, measured in currency units.
	Money
)

func (u Unit) String() string {
	switch u {
	case Gold:
		return "gold"
	case Money:
		return "money"
	default:
		panic(fmt.Sprintf("unknown unit %d", u))
	}
}

// ParseUnit parses "gold" or "money" (and a few aliases).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gold", "g", "grams":
		return Gold, nil
	case "money", "m", "cash", "usd":
		return Money, nil
	default:
		return Gold, fmt.Errorf("unknown unit %q want gold or money", s)
	}
}

// Capital returns the capital amount seeding this unit's ledger.
func (u Unit) Capital(c Capital) Quantity {
	if u == Money {
		return c.USD
	}
	return c.Gold
}

// Format formats q in this unit. Currency is only used for Money.
func (u Unit) Format(q Quantity, currency string) string {
	if u == Money {
		return FormatMoney(q, currency)
	}
	return FormatGold(q)
}

// Order is the presentation order of a ledger view.
type Order int

const (
	// Ascending presents entries oldest first.
	Ascending Order = iota
	// Descending presents entries newest first.
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseOrder parses "asc" or "desc".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "oldest":
		return Ascending, nil
	case "desc", "descending", "newest":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown order %q want asc or desc", s)
	}
}

// DefaultOrder is the order each ledger screen has always used: the gold
// ledger reads oldest to newest, the money ledger newest to oldest.
func DefaultOrder(u Unit) Order {
	if u == Money {
		return Descending
	}
	return Ascending
}
