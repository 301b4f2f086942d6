package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Global error declarations.
var (
	ErrAssetNotFound = errors.New("not found in datasource")
	ErrNoPrices      = errors.New("no prices found in datasource")
)

type assetRow struct {
	ID         int32
	Ticker     string
	Name       string
	Type       string
	CreatedAt  *time.Time
	ModifiedAt *time.Time
}

type closeRow struct {
	Ticker string
	Day    *time.Time
	Close  decimal.Decimal
}

type dailyClosesParams struct {
	Tickers   []string
	Starttime *time.Time
	Endtime   *time.Time
}

type assetsRepository interface {
	GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error)
}
type pricesRepository interface {
	GetDailyCloses(ctx context.Context, arg dailyClosesParams) ([]closeRow, error)
}

// Database struct that holds the database connection and queries.
type Database struct {
	assets assetsRepository
	prices pricesRepository
	conn   *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(ctx context.Context, dbURL string) (*Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	q := &queries{pool: conn}
	return &Database{
		assets: q,
		prices: q,
		conn:   conn}, nil
}

func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}

type queries struct {
	pool *pgxpool.Pool
}

const getAssetByTicker = `SELECT id, ticker, name, type, created_at, modified_at
FROM assets
WHERE ticker = $1`

func (q *queries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	var a assetRow
	err := q.pool.QueryRow(ctx, getAssetByTicker, ticker).
		Scan(&a.ID, &a.Ticker, &a.Name, &a.Type, &a.CreatedAt, &a.ModifiedAt)
	return a, err
}

// Daily closes are the last close of each day bucket.
const getDailyCloses = `SELECT a.ticker, time_bucket('1 day', c.time) AS bucket, last(c.close, c.time) AS close
FROM candles c
JOIN assets a ON a.id = c.asset_id
WHERE a.ticker = ANY($1) AND c.time >= $2 AND c.time < $3
GROUP BY a.ticker, bucket
ORDER BY bucket`

func (q *queries) GetDailyCloses(ctx context.Context, arg dailyClosesParams) ([]closeRow, error) {
	rows, err := q.pool.Query(ctx, getDailyCloses, arg.Tickers, arg.Starttime, arg.Endtime)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (closeRow, error) {
		var r closeRow
		err := row.Scan(&r.Ticker, &r.Day, &r.Close)
		return r, err
	})
}
