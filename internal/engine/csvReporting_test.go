package engine

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWritePortfolioCSV(t *testing.T) {
	var buf bytes.Buffer
	points := []ValuePoint{
		{Date: time.Date(2022, 1, 4, 0, 0, 0, 0, time.UTC), Value: 100050.25},
		{Date: time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC), Value: 99000},
	}
	if err := WritePortfolioCSV(&buf, points); err != nil {
		t.Fatalf("WritePortfolioCSV() error = %v", err)
	}
	want := "Date,Portfolio Value\n2022-01-04,100050.25\n2022-01-05,99000\n"
	if got := buf.String(); got != want {
		t.Errorf("WritePortfolioCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteTransactionsCSV(t *testing.T) {
	res, err := Simulate(scenarioPrices(), zeroCostConfig())
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, res.Counters); err != nil {
		t.Fatalf("WriteTransactionsCSV() error = %v", err)
	}
	want := "Month,Long,Short\n2022-01,1,0\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteTransactionsCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteCSVFile(t *testing.T) {
	dir := t.TempDir()
	errWrite := errors.New("write failed")
	tests := []struct {
		name    string
		path    string
		write   func(io.Writer) error
		want    string
		wantErr bool
	}{
		{
			name:  "writes and closes",
			path:  filepath.Join(dir, "ok.csv"),
			write: func(w io.Writer) error { _, err := io.WriteString(w, "a,b\n"); return err },
			want:  "a,b\n",
		},
		{
			name:    "write error is returned",
			path:    filepath.Join(dir, "bad.csv"),
			write:   func(io.Writer) error { return errWrite },
			wantErr: true,
		},
		{
			name:    "missing directory",
			path:    filepath.Join(dir, "missing", "x.csv"),
			write:   func(io.Writer) error { return nil },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeCSVFile(tt.path, tt.write)
			if (err != nil) != tt.wantErr {
				t.Fatalf("writeCSVFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := os.ReadFile(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("file = %q, want %q", got, tt.want)
			}
		})
	}
}
