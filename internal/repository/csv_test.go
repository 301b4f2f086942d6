package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"betahedge/types"
)

const closesCSV = `Date,AAPL,MSFT,SPY
2022-01-03,182.01,334.75,477.71
2022-01-04 00:00:00,179.70,329.01,477.55
2022-01-05,174.92,,468.38
2022-01-06,172.00,313.88,467.94
`

func writeCloses(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "close_prices.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVStore_ClosePrices(t *testing.T) {
	store := NewCSVStore(writeCloses(t, closesCSV))
	tests := []struct {
		name      string
		tickers   []string
		start     time.Time
		end       time.Time
		wantDates []string
		wantErr   error
	}{
		{
			name:      "blank cell drops the date",
			tickers:   []string{"AAPL", "MSFT", "SPY"},
			start:     time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			wantDates: []string{"2022-01-03", "2022-01-04", "2022-01-06"},
		},
		{
			name:      "subset keeps the blank date",
			tickers:   []string{"AAPL", "SPY"},
			start:     time.Date(2022, 1, 4, 0, 0, 0, 0, time.UTC),
			end:       time.Date(2022, 1, 6, 0, 0, 0, 0, time.UTC),
			wantDates: []string{"2022-01-04", "2022-01-05"},
		},
		{
			name:    "unknown ticker",
			tickers: []string{"GOOG", "SPY"},
			wantErr: types.ErrMisalignedInput,
		},
		{
			name:    "range without rows",
			tickers: []string{"SPY"},
			start:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			wantErr: ErrNoPrices,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, err := store.ClosePrices(context.Background(), tt.tickers, "SPY", tt.start, tt.end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ClosePrices() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClosePrices() error = %v", err)
			}
			var dates []string
			for _, d := range pm.Dates {
				dates = append(dates, d.Format(types.DateFormat))
			}
			if !reflect.DeepEqual(dates, tt.wantDates) {
				t.Errorf("dates = %v, want %v", dates, tt.wantDates)
			}
		})
	}
}

func TestCSVStore_Tickers(t *testing.T) {
	got, err := NewCSVStore(writeCloses(t, closesCSV)).Tickers()
	if err != nil {
		t.Fatalf("Tickers() error = %v", err)
	}
	if want := []string{"AAPL", "MSFT", "SPY"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
}

func TestReadClosesCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no date column", "Ticker,SPY\n2022-01-03,1\n"},
		{"bad date", "Date,SPY\nyesterday,1\n"},
		{"bad number", "Date,SPY\n2022-01-03,abc\n"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadClosesCSV(strings.NewReader(tt.content)); err == nil {
				t.Error("ReadClosesCSV() returned no error")
			}
		})
	}
}
