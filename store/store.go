// Package store keeps extraction runs, their records and holdings in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/statement"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	pages      INTEGER NOT NULL,
	skipped    INTEGER NOT NULL,
	records    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq          INTEGER NOT NULL,
	symbol       TEXT NOT NULL,
	secondary_id TEXT NOT NULL,
	data         TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS holdings (
	run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	symbol       TEXT NOT NULL,
	secondary_id TEXT NOT NULL,
	quantity     TEXT NOT NULL,
	net_amount   TEXT NOT NULL,
	currency     TEXT NOT NULL,
	records      INTEGER NOT NULL,
	PRIMARY KEY (run_id, symbol)
);
`

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// Open opens or creates the database at path, ":memory:" for a transient one.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writes.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection
func (db *DB) Close() error { return db.conn.Close() }

// Run is one extraction to save.
type Run struct {
	Source    string
	CreatedAt time.Time
	Result    *statement.Result
	Portfolio *statement.Portfolio
}

// RunInfo describes a saved run.
type RunInfo struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Pages     int
	Skipped   int
	Records   int
}

// SaveRun stores the run, its records and its holdings in one transaction.
func (db *DB) SaveRun(ctx context.Context, run Run) error {
	res := run.Result
	if res == nil || res.RunID == "" {
		return fmt.Errorf("cannot save a run without id")
	}
	return withTransaction(ctx, db.conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, source, created_at, pages, skipped, records) VALUES (?, ?, ?, ?, ?, ?)`,
			res.RunID, run.Source, run.CreatedAt.UTC().Format(time.RFC3339), res.Stats.Pages, res.Stats.SkippedPages, len(res.Records))
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
		for i, r := range res.Records {
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to encode record %d: %w", i, err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO records (run_id, seq, symbol, secondary_id, data) VALUES (?, ?, ?, ?, ?)`,
				res.RunID, i, r.Symbol(), r.SecondaryID(), string(data))
			if err != nil {
				return fmt.Errorf("failed to insert record %d: %w", i, err)
			}
		}
		if run.Portfolio == nil {
			return nil
		}
		for _, h := range run.Portfolio.Holdings {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO holdings (run_id, symbol, secondary_id, quantity, net_amount, currency, records) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				res.RunID, h.Symbol, h.SecondaryID, h.Quantity.String(), h.NetAmount.Decimal().String(), h.NetAmount.Currency(), h.Records)
			if err != nil {
				return fmt.Errorf("failed to insert holding %q: %w", h.Symbol, err)
			}
		}
		return nil
	})
}

// Runs lists the saved runs, most recent first.
func (db *DB) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, source, created_at, pages, skipped, records FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		var created string
		if err := rows.Scan(&r.ID, &r.Source, &created, &r.Pages, &r.Skipped, &r.Records); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("invalid creation time %q for run %s: %w", created, r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Holdings returns the holdings saved for a run, sorted by symbol.
func (db *DB) Holdings(ctx context.Context, runID string) ([]statement.Holding, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT symbol, secondary_id, quantity, net_amount, currency, records FROM holdings WHERE run_id = ? ORDER BY symbol`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []statement.Holding
	for rows.Next() {
		var h statement.Holding
		var qty, amount, cur string
		if err := rows.Scan(&h.Symbol, &h.SecondaryID, &qty, &amount, &cur, &h.Records); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		q, err := decimal.NewFromString(qty)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q for %s: %w", qty, h.Symbol, err)
		}
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid net amount %q for %s: %w", amount, h.Symbol, err)
		}
		h.Quantity, h.NetAmount = statement.Q(q), statement.M(a, cur)
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// RecordsJSON returns the saved records of a run as JSON objects, in
// extraction order.
func (db *DB) RecordsJSON(ctx context.Context, runID string) ([]json.RawMessage, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT data FROM records WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, json.RawMessage(data))
	}
	return records, rows.Err()
}

// withTransaction runs fn in a transaction, committed only if fn succeeds.
func withTransaction(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", p)
		} else if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = fmt.Errorf("transaction failed: %w (rollback also failed: %v)", err, rollbackErr)
			}
		} else if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()
	return fn(tx)
}
