package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"betahedge/types"
)

// CSVStore reads a close price table with a Date column followed by one
// column per ticker, as written by most market data downloads.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// ClosePrices reads the table and keeps the requested tickers in [start, end).
// A zero end keeps everything after start. Rows with a blank close for any
// requested ticker are dropped.
func (s *CSVStore) ClosePrices(_ context.Context, tickers []string, benchmark string, start, end time.Time) (*types.PriceMatrix, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open prices: %w", err)
	}
	defer f.Close()

	rows, err := ReadClosesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var kept []types.ClosePrice
	for _, r := range rows {
		if r.Date.Before(start) || (!end.IsZero() && !r.Date.Before(end)) {
			continue
		}
		if slices.Contains(tickers, r.Ticker) {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoPrices
	}
	return types.AlignCloses(kept, tickers, benchmark)
}

// Tickers returns the ticker columns of the table.
func (s *CSVStore) Tickers() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open prices: %w", err)
	}
	defer f.Close()
	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("header %v: %w", header, types.ErrMisalignedInput)
	}
	return header[1:], nil
}

// ReadClosesCSV parses a Date,<TICKER>... table into rows.
func ReadClosesCSV(r io.Reader) ([]types.ClosePrice, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "date") {
		return nil, fmt.Errorf("header %v does not start with Date: %w", header, types.ErrMisalignedInput)
	}

	var rows []types.ClosePrice
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		date, err := parseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for i, cell := range record[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				log.Printf("warning, no close for %s on %s", header[i+1], date.Format(types.DateFormat))
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d %s: %w", line, header[i+1], err)
			}
			rows = append(rows, types.ClosePrice{Ticker: header[i+1], Date: date, Close: v})
		}
	}
	return rows, nil
}

// parseDate accepts plain dates and the timestamped dates pandas writes.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) >= len(types.DateFormat) {
		if t, err := time.Parse(types.DateFormat, s[:len(types.DateFormat)]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
