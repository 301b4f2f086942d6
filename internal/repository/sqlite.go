package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"betahedge/internal/engine"
	"betahedge/types"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS close_prices (
	ticker TEXT NOT NULL,
	day    TEXT NOT NULL,
	close  REAL NOT NULL,
	PRIMARY KEY (ticker, day)
);
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	benchmark  TEXT NOT NULL,
	config     TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS run_values (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	day    TEXT NOT NULL,
	value  REAL NOT NULL,
	PRIMARY KEY (run_id, day)
);
CREATE TABLE IF NOT EXISTS run_transactions (
	run_id      INTEGER NOT NULL REFERENCES runs(id),
	month       TEXT NOT NULL,
	long_count  INTEGER NOT NULL,
	short_count INTEGER NOT NULL,
	PRIMARY KEY (run_id, month)
);`

// SQLiteStore is a local price cache and an archive of simulation runs.
type SQLiteStore struct {
	db *sql.DB
}

// RunSummary describes an archived run.
type RunSummary struct {
	ID         int64
	Name       string
	Benchmark  string
	Config     engine.SimulationConfig
	CreatedAt  time.Time
	Days       int
	FinalValue float64
}

// OpenSQLite opens (or creates) the database at dsn and applies the schema.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers and ":memory:" is per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ImportPrices upserts every close of pm and returns the number of rows written.
func (s *SQLiteStore) ImportPrices(ctx context.Context, pm *types.PriceMatrix) (int, error) {
	if err := pm.Validate(); err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO close_prices(ticker, day, close) VALUES(?, ?, ?)
		ON CONFLICT(ticker, day) DO UPDATE SET close = excluded.close`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, sym := range pm.Symbols {
		for i, d := range pm.Dates {
			if _, err := stmt.ExecContext(ctx, sym, d.Format(types.DateFormat), pm.Close[sym][i]); err != nil {
				return n, fmt.Errorf("insert %s %s: %w", sym, d.Format(types.DateFormat), err)
			}
			n++
		}
	}
	return n, tx.Commit()
}

// ClosePrices reads cached closes for tickers in [start, end). A zero end
// reads everything after start.
func (s *SQLiteStore) ClosePrices(ctx context.Context, tickers []string, benchmark string, start, end time.Time) (*types.PriceMatrix, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		return nil, ErrNoPrices
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tickers)), ",")
	query := `SELECT ticker, day, close FROM close_prices WHERE ticker IN (` + placeholders + `) AND day >= ?`
	args := make([]any, 0, len(tickers)+2)
	for _, t := range tickers {
		args = append(args, t)
	}
	args = append(args, start.Format(types.DateFormat))
	if !end.IsZero() {
		query += ` AND day < ?`
		args = append(args, end.Format(types.DateFormat))
	}
	query += ` ORDER BY day`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ClosePrice
	for rows.Next() {
		var (
			cp  types.ClosePrice
			day string
		)
		if err := rows.Scan(&cp.Ticker, &day, &cp.Close); err != nil {
			return nil, err
		}
		if cp.Date, err = time.Parse(types.DateFormat, day); err != nil {
			return nil, fmt.Errorf("cached day %q: %w", day, err)
		}
		out = append(out, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoPrices
	}
	return types.AlignCloses(out, tickers, benchmark)
}

// SaveRun archives a simulation and returns its id.
func (s *SQLiteStore) SaveRun(ctx context.Context, run engine.ArchivedRun) (int64, error) {
	cfg, err := json.Marshal(run.Config)
	if err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO runs(name, benchmark, config, created_at) VALUES(?, ?, ?, ?)`,
		run.Name, run.Benchmark, string(cfg), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, p := range run.Points {
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_values(run_id, day, value) VALUES(?, ?, ?)`,
			id, p.Date.Format(types.DateFormat), p.Value); err != nil {
			return 0, fmt.Errorf("insert value: %w", err)
		}
	}
	for _, month := range run.Months {
		mc := run.Counts[month]
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_transactions(run_id, month, long_count, short_count) VALUES(?, ?, ?, ?)`,
			id, month, mc.Long, mc.Short); err != nil {
			return 0, fmt.Errorf("insert transactions: %w", err)
		}
	}
	return id, tx.Commit()
}

// ListRuns returns archived runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT r.id, r.name, r.benchmark, r.config, r.created_at,
		(SELECT COUNT(*) FROM run_values v WHERE v.run_id = r.id),
		COALESCE((SELECT v.value FROM run_values v WHERE v.run_id = r.id ORDER BY v.day DESC LIMIT 1), 0)
		FROM runs r ORDER BY r.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs        RunSummary
			cfg       string
			createdAt string
		)
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.Benchmark, &cfg, &createdAt, &rs.Days, &rs.FinalValue); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cfg), &rs.Config); err != nil {
			return nil, fmt.Errorf("run %d config: %w", rs.ID, err)
		}
		if rs.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("run %d created_at: %w", rs.ID, err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// RunValues returns the archived value series of a run.
func (s *SQLiteStore) RunValues(ctx context.Context, id int64) ([]engine.ValuePoint, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day, value FROM run_values WHERE run_id = ? ORDER BY day`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.ValuePoint
	for rows.Next() {
		var (
			day string
			p   engine.ValuePoint
		)
		if err := rows.Scan(&day, &p.Value); err != nil {
			return nil, err
		}
		if p.Date, err = time.Parse(types.DateFormat, day); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
