package goldbook

import (
	"github.com/Rhymond/go-money"
)

// DefaultCurrency is the currency of the money ledger when none is configured.
const DefaultCurrency = "USD"

// currency returns the go-money currency for code, never nil.
func currency(code string) money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, code).Currency()
}

// FormatMoney formats q as an amount of the given currency, e.g. "$1,200.00".
func FormatMoney(q Quantity, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	cur := currency(code)
	dec := q.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// FormatGold formats q as grams with a milligram precision, e.g. "12.500 g".
func FormatGold(q Quantity) string {
	return q.value.StringFixed(3) + " g"
}

// SignedString returns the formatted value with an explicit sign, and "-" for zero.
func SignedString(q Quantity, format func(Quantity) string) string {
	if q.IsZero() {
		return "-"
	}
	if q.IsPositive() {
		return "+" + format(q)
	}
	return format(q)
}
