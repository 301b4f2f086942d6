package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"betahedge/types"

	"github.com/jackc/pgx/v5"
)

// ClosePrices loads daily closes for tickers in [start, end) and aligns them
// on the dates every ticker traded.
func (db *Database) ClosePrices(ctx context.Context, tickers []string, benchmark string, start, end time.Time) (*types.PriceMatrix, error) {
	if end.IsZero() {
		end = time.Now()
	}
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	for _, t := range tickers {
		if _, err := db.GetAssetByTicker(ctx, t); err != nil {
			return nil, err
		}
	}
	args := dailyClosesParams{
		Tickers:   tickers,
		Starttime: &start,
		Endtime:   &end,
	}
	rows, err := db.prices.GetDailyCloses(ctx, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoPrices
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoPrices
	}
	return types.AlignCloses(convertCloses(rows), tickers, benchmark)
}

func convertCloses(rows []closeRow) []types.ClosePrice {
	out := make([]types.ClosePrice, 0, len(rows))
	for _, r := range rows {
		if r.Day == nil {
			continue
		}
		out = append(out, types.ClosePrice{
			Ticker: r.Ticker,
			Date:   *r.Day,
			Close:  r.Close.InexactFloat64(),
		})
	}
	return out
}

func checkRange(start, end time.Time) error {
	if !end.IsZero() && !start.Before(end) {
		return fmt.Errorf("empty range %s - %s", start.Format(types.DateFormat), end.Format(types.DateFormat))
	}
	return nil
}
