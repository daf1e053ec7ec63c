// Package goldbook provides the ledger logic of a gold and jewelry shop.
//
// A shop keeps two parallel ledgers, or unit tracks: the gold ledger in grams
// and the money ledger in currency units. Each entry records what was
// received from, and paid to, a customer at a given instant. Capital records
// seed both ledgers with a standing baseline.
//
// The core functionalities include:
//   - Calendar: resolving named periods (today, yesterday, this week, this
//     month, a custom range or all time) into windows of absolute time,
//     with the shop's time zone and first day of the week made explicit.
//   - Balance engine: a stateless function that sorts a ledger, annotates
//     every entry with its running balance over the whole history, then
//     filters, orders and paginates it. A balance never depends on the
//     displayed window.
//   - Shop: the seam used by the presentation layer. Views are recomputed
//     from a fresh fetch each time; a failing collection degrades to an
//     empty one with a warning instead of failing the view.
//   - Stores: the Store interface, implemented by the filestore (JSONL),
//     pgstore (PostgreSQL) and reststore (the shop's REST backend) packages.
//
// The gb command-line tool is built on top of this package.
package goldbook
