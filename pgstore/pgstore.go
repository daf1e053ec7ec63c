// Package pgstore keeps a shop's ledgers in PostgreSQL.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/goldbook"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables used by the store. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS customers (
	id    BIGSERIAL PRIMARY KEY,
	name  TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS gold_ledger (
	id               BIGSERIAL PRIMARY KEY,
	customer_id      BIGINT NOT NULL,
	transaction_date TIMESTAMPTZ NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	received         NUMERIC(18,3) NOT NULL DEFAULT 0,
	paid             NUMERIC(18,3) NOT NULL DEFAULT 0,
	carat            NUMERIC(6,2),
	balance          NUMERIC(18,3) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS money_ledger (
	id               BIGSERIAL PRIMARY KEY,
	customer_id      BIGINT NOT NULL,
	transaction_date TIMESTAMPTZ NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	received         NUMERIC(18,2) NOT NULL DEFAULT 0,
	paid             NUMERIC(18,2) NOT NULL DEFAULT 0,
	carat            NUMERIC(6,2),
	balance          NUMERIC(18,2) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS capitals (
	id          BIGSERIAL PRIMARY KEY,
	usd_amount  NUMERIC(18,2) NOT NULL DEFAULT 0,
	gold_amount NUMERIC(18,3) NOT NULL DEFAULT 0,
	date        TIMESTAMPTZ NOT NULL
);
`

// Store is a goldbook.Store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a store using pool. The schema must exist, see Migrate.
func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

// Connect opens a pool on dsn and checks the connection.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = time.Minute
	cfg.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot reach postgres: %w", err)
	}
	goldbook.Logger().WithField("max_conns", cfg.MaxConns).Debug("connected to postgres")
	return New(pool), nil
}

// Migrate creates the tables if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("cannot migrate schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }

func table(unit goldbook.Unit) string {
	if unit == goldbook.Money {
		return "money_ledger"
	}
	return "gold_ledger"
}

// Numerics travel as text so that no precision is lost on the way to decimals.

func parseNumeric(s string) (goldbook.Quantity, error) { return goldbook.ParseQuantity(s) }

func parseOptionalNumeric(s *string) (*goldbook.Quantity, error) {
	if s == nil {
		return nil, nil
	}
	q, err := goldbook.ParseQuantity(*s)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func optionalNumeric(q *goldbook.Quantity) *string {
	if q == nil {
		return nil
	}
	s := q.String()
	return &s
}

const entryColumns = `id, customer_id, transaction_date, description, received::text, paid::text, carat::text, balance::text`

func scanEntry(row pgx.Row) (goldbook.Entry, error) {
	var (
		e                         goldbook.Entry
		received, paid, persisted string
		carat                     *string
	)
	if err := row.Scan(&e.ID, &e.CustomerID, &e.When, &e.Description, &received, &paid, &carat, &persisted); err != nil {
		return e, err
	}
	var err error
	if e.Received, err = parseNumeric(received); err != nil {
		return e, err
	}
	if e.Paid, err = parseNumeric(paid); err != nil {
		return e, err
	}
	if e.Carat, err = parseOptionalNumeric(carat); err != nil {
		return e, err
	}
	if e.Persisted, err = parseNumeric(persisted); err != nil {
		return e, err
	}
	return e, nil
}

// Entries implements goldbook.Reader.
func (s *Store) Entries(ctx context.Context, unit goldbook.Unit) ([]goldbook.Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+entryColumns+` FROM `+table(unit))
	if err != nil {
		return nil, fmt.Errorf("cannot query %s: %w", table(unit), err)
	}
	defer rows.Close()

	entries := make([]goldbook.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", table(unit), err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Capitals implements goldbook.Reader.
func (s *Store) Capitals(ctx context.Context) ([]goldbook.Capital, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, usd_amount::text, gold_amount::text, date FROM capitals`)
	if err != nil {
		return nil, fmt.Errorf("cannot query capitals: %w", err)
	}
	defer rows.Close()

	capitals := make([]goldbook.Capital, 0)
	for rows.Next() {
		c, err := scanCapital(rows)
		if err != nil {
			return nil, fmt.Errorf("cannot read capitals: %w", err)
		}
		capitals = append(capitals, c)
	}
	return capitals, rows.Err()
}

func scanCapital(row pgx.Row) (goldbook.Capital, error) {
	var (
		c         goldbook.Capital
		usd, gold string
	)
	if err := row.Scan(&c.ID, &usd, &gold, &c.Date); err != nil {
		return c, err
	}
	var err error
	if c.USD, err = parseNumeric(usd); err != nil {
		return c, err
	}
	c.Gold, err = parseNumeric(gold)
	return c, err
}

// Customers implements goldbook.Reader.
func (s *Store) Customers(ctx context.Context) ([]goldbook.Customer, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, phone FROM customers`)
	if err != nil {
		return nil, fmt.Errorf("cannot query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]goldbook.Customer, 0)
	for rows.Next() {
		var c goldbook.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone); err != nil {
			return nil, fmt.Errorf("cannot read customers: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// restate recomputes, within tx, the persisted balance of every entry of a
// customer as its running total in chronological order.
func restate(ctx context.Context, tx pgx.Tx, unit goldbook.Unit, customer int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE `+table(unit)+` AS l SET balance = r.running
		FROM (
			SELECT id, SUM(received - paid) OVER (ORDER BY transaction_date, id) AS running
			FROM `+table(unit)+` WHERE customer_id = $1
		) AS r
		WHERE l.id = r.id`, customer)
	if err != nil {
		return fmt.Errorf("cannot restate balances of customer %d: %w", customer, err)
	}
	return nil
}

// inTx runs fn in a transaction, committed only if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit.
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreateEntry implements goldbook.Writer.
func (s *Store) CreateEntry(ctx context.Context, unit goldbook.Unit, in goldbook.EntryInput) (goldbook.Entry, error) {
	var e goldbook.Entry
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO `+table(unit)+` (customer_id, transaction_date, description, received, paid, carat)
			VALUES ($1, $2, $3, $4::text::numeric, $5::text::numeric, $6::text::numeric) RETURNING id`,
			in.CustomerID, in.When, in.Description, in.Received.String(), in.Paid.String(), optionalNumeric(in.Carat),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("cannot insert into %s: %w", table(unit), err)
		}
		if err := restate(ctx, tx, unit, in.CustomerID); err != nil {
			return err
		}
		e, err = scanEntry(tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM `+table(unit)+` WHERE id = $1`, id))
		return err
	})
	return e, err
}

// UpdateEntry implements goldbook.Writer.
func (s *Store) UpdateEntry(ctx context.Context, unit goldbook.Unit, id int64, in goldbook.EntryInput) (goldbook.Entry, error) {
	var e goldbook.Entry
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var previous int64
		err := tx.QueryRow(ctx, `SELECT customer_id FROM `+table(unit)+` WHERE id = $1 FOR UPDATE`, id).Scan(&previous)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s entry %d: %w", unit, id, goldbook.ErrNotFound)
		}
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE `+table(unit)+`
			SET customer_id = $2, transaction_date = $3, description = $4,
			    received = $5::text::numeric, paid = $6::text::numeric, carat = $7::text::numeric
			WHERE id = $1`,
			id, in.CustomerID, in.When, in.Description, in.Received.String(), in.Paid.String(), optionalNumeric(in.Carat))
		if err != nil {
			return fmt.Errorf("cannot update %s: %w", table(unit), err)
		}
		if err := restate(ctx, tx, unit, previous); err != nil {
			return err
		}
		if previous != in.CustomerID {
			if err := restate(ctx, tx, unit, in.CustomerID); err != nil {
				return err
			}
		}
		e, err = scanEntry(tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM `+table(unit)+` WHERE id = $1`, id))
		return err
	})
	return e, err
}

// DeleteEntry implements goldbook.Writer.
func (s *Store) DeleteEntry(ctx context.Context, unit goldbook.Unit, id int64) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		var customer int64
		err := tx.QueryRow(ctx, `DELETE FROM `+table(unit)+` WHERE id = $1 RETURNING customer_id`, id).Scan(&customer)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s entry %d: %w", unit, id, goldbook.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("cannot delete from %s: %w", table(unit), err)
		}
		return restate(ctx, tx, unit, customer)
	})
}

// CreateCapital implements goldbook.Writer.
func (s *Store) CreateCapital(ctx context.Context, in goldbook.CapitalInput) (goldbook.Capital, error) {
	c, err := scanCapital(s.pool.QueryRow(ctx, `
		INSERT INTO capitals (usd_amount, gold_amount, date) VALUES ($1::text::numeric, $2::text::numeric, $3)
		RETURNING id, usd_amount::text, gold_amount::text, date`,
		in.USD.String(), in.Gold.String(), in.Date))
	if err != nil {
		return c, fmt.Errorf("cannot insert capital: %w", err)
	}
	return c, nil
}

// UpdateCapital implements goldbook.Writer.
func (s *Store) UpdateCapital(ctx context.Context, id int64, in goldbook.CapitalInput) (goldbook.Capital, error) {
	c, err := scanCapital(s.pool.QueryRow(ctx, `
		UPDATE capitals SET usd_amount = $2::text::numeric, gold_amount = $3::text::numeric, date = $4 WHERE id = $1
		RETURNING id, usd_amount::text, gold_amount::text, date`,
		id, in.USD.String(), in.Gold.String(), in.Date))
	if errors.Is(err, pgx.ErrNoRows) {
		return c, fmt.Errorf("capital %d: %w", id, goldbook.ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("cannot update capital %d: %w", id, err)
	}
	return c, nil
}

// DeleteCapital implements goldbook.Writer.
func (s *Store) DeleteCapital(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM capitals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cannot delete capital %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("capital %d: %w", id, goldbook.ErrNotFound)
	}
	return nil
}

// CreateCustomer implements goldbook.Writer.
func (s *Store) CreateCustomer(ctx context.Context, in goldbook.CustomerInput) (goldbook.Customer, error) {
	c := goldbook.Customer{Name: in.Name, Phone: in.Phone}
	err := s.pool.QueryRow(ctx, `INSERT INTO customers (name, phone) VALUES ($1, $2) RETURNING id`, in.Name, in.Phone).Scan(&c.ID)
	if err != nil {
		return c, fmt.Errorf("cannot insert customer: %w", err)
	}
	return c, nil
}

var _ goldbook.Store = (*Store)(nil)
