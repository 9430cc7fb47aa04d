// Package journal keeps the history of portfolio totals in a SQLite database,
// one row per update.
package journal

import (
	"context"
	cryptoRand "crypto/rand"
	"database/sql"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/etnz/cryptofolio"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// Run is the journal entry of one update.
type Run struct {
	ID         string
	Time       time.Time
	Cost       cryptofolio.Money
	Value      cryptofolio.Money
	PNL        cryptofolio.Money
	PNLPercent cryptofolio.Percent
	Orders     int // size of the ledger after the update
}

// Journal is a SQLite run history.
type Journal struct {
	db *sql.DB

	mu   sync.Mutex
	mono io.Reader
}

var _ cryptofolio.Journal = (*Journal)(nil)

// Open opens, or creates, the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create journal schema in %q: %w", path, err)
	}

	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Journal{
		db:   db,
		mono: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}, nil
}

// newID returns a ULID for t. IDs created within the same millisecond keep increasing.
func (j *Journal) newID(t time.Time) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(t.UTC()), j.mono)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Record appends the totals of a report to the journal.
func (j *Journal) Record(ctx context.Context, r *cryptofolio.Report) error {
	total := r.Portfolio.Total
	run := Run{
		Time:       r.Time,
		Cost:       total.Cost,
		Value:      total.Value,
		PNL:        total.PNL,
		PNLPercent: total.PNLPercent,
	}
	if r.Ledger != nil {
		run.Orders = r.Ledger.Len()
	}
	_, err := j.Add(ctx, run)
	return err
}

// Add inserts run and returns its id. A new id is assigned when run.ID is empty.
func (j *Journal) Add(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		id, err := j.newID(run.Time)
		if err != nil {
			return "", err
		}
		run.ID = id
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, time, quote, cost, value, pnl, pnl_percent, orders)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Time.UTC(), run.Value.Currency(),
		run.Cost.Decimal().String(), run.Value.Decimal().String(), run.PNL.Decimal().String(),
		float64(run.PNLPercent), run.Orders,
	)
	if err != nil {
		return "", fmt.Errorf("cannot insert run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// Runs returns the latest runs, most recent first. limit <= 0 returns them all.
func (j *Journal) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, time, quote, cost, value, pnl, pnl_percent, orders
		FROM runs
		ORDER BY time DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run              Run
			quote            string
			cost, value, pnl string
			pnlPercent       float64
		)
		if err := rows.Scan(&run.ID, &run.Time, &quote, &cost, &value, &pnl, &pnlPercent, &run.Orders); err != nil {
			return nil, err
		}
		if run.Cost, err = cryptofolio.ParseMoney(cost, quote); err != nil {
			return nil, fmt.Errorf("invalid cost in run %s: %w", run.ID, err)
		}
		if run.Value, err = cryptofolio.ParseMoney(value, quote); err != nil {
			return nil, fmt.Errorf("invalid value in run %s: %w", run.ID, err)
		}
		if run.PNL, err = cryptofolio.ParseMoney(pnl, quote); err != nil {
			return nil, fmt.Errorf("invalid pnl in run %s: %w", run.ID, err)
		}
		run.PNLPercent = cryptofolio.Percent(pnlPercent)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
