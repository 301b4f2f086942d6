package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"betahedge/types"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var startTime = time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)

type mockPricesRepository struct {
	sqlError error
	rows     []closeRow
	got      dailyClosesParams
}

func (m *mockPricesRepository) GetDailyCloses(_ context.Context, arg dailyClosesParams) ([]closeRow, error) {
	m.got = arg
	if m.sqlError != nil {
		return nil, m.sqlError
	}
	return m.rows, nil
}

func mockRow(ticker string, day int, close string) closeRow {
	d := startTime.AddDate(0, 0, day)
	return closeRow{Ticker: ticker, Day: &d, Close: decimal.RequireFromString(close)}
}

func TestDatabase_ClosePrices(t *testing.T) {
	end := startTime.AddDate(0, 0, 10)
	tests := []struct {
		name    string
		assets  mockAssetsRepository
		prices  *mockPricesRepository
		wantLen int
		wantErr error
	}{
		{
			name:   "aligned closes",
			assets: mockAssetsRepository{},
			prices: &mockPricesRepository{rows: []closeRow{
				mockRow("SPY", 0, "470.1"), mockRow("AAPL", 0, "182.01"),
				mockRow("SPY", 1, "471.2"), mockRow("AAPL", 1, "179.70"),
				mockRow("SPY", 2, "468.9"),
			}},
			wantLen: 2,
		},
		{
			name:    "unknown ticker",
			assets:  mockAssetsRepository{missing: map[string]bool{"AAPL": true}},
			prices:  &mockPricesRepository{},
			wantErr: ErrAssetNotFound,
		},
		{
			name:    "no rows",
			assets:  mockAssetsRepository{},
			prices:  &mockPricesRepository{sqlError: pgx.ErrNoRows},
			wantErr: ErrNoPrices,
		},
		{
			name:    "empty result",
			assets:  mockAssetsRepository{},
			prices:  &mockPricesRepository{},
			wantErr: ErrNoPrices,
		},
		{
			name:   "ticker without prices",
			assets: mockAssetsRepository{},
			prices: &mockPricesRepository{rows: []closeRow{
				mockRow("SPY", 0, "470.1"),
			}},
			wantErr: types.ErrMisalignedInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{assets: tt.assets, prices: tt.prices}
			got, err := db.ClosePrices(context.Background(), []string{"AAPL", "SPY"}, "SPY", startTime, end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ClosePrices() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClosePrices() error = %v", err)
			}
			if got.Len() != tt.wantLen {
				t.Errorf("ClosePrices() len = %d, want %d", got.Len(), tt.wantLen)
			}
			if got.Close["AAPL"][1] != 179.7 {
				t.Errorf("AAPL close = %v, want 179.7", got.Close["AAPL"][1])
			}
			if !tt.prices.got.Endtime.Equal(end) || len(tt.prices.got.Tickers) != 2 {
				t.Errorf("query params = %+v", tt.prices.got)
			}
		})
	}
}

func TestDatabase_ClosePrices_EmptyRange(t *testing.T) {
	db := &Database{assets: mockAssetsRepository{}, prices: &mockPricesRepository{}}
	if _, err := db.ClosePrices(context.Background(), []string{"SPY"}, "SPY", startTime, startTime); err == nil {
		t.Error("ClosePrices() over an empty range returned no error")
	}
}
