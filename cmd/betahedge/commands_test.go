package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"betahedge/internal/engine"
	"betahedge/internal/repository"
)

func TestSourceFlags_TickerList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"aapl, msft ,,SPY", []string{"AAPL", "MSFT", "SPY"}},
	}
	for _, tt := range tests {
		s := sourceFlags{tickers: tt.in}
		if got := s.tickerList(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("tickerList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSourceFlags_DateRange(t *testing.T) {
	s := sourceFlags{start: "2022-01-03"}
	start, end, err := s.dateRange()
	if err != nil {
		t.Fatalf("dateRange() error = %v", err)
	}
	if !start.Equal(time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)) || !end.IsZero() {
		t.Errorf("dateRange() = %v, %v", start, end)
	}

	s = sourceFlags{end: "03/01/2022"}
	if _, _, err := s.dateRange(); err == nil {
		t.Error("dateRange() accepted an invalid end")
	}
}

func TestSourceFlags_OpenUnknown(t *testing.T) {
	s := sourceFlags{source: "parquet"}
	if _, _, _, err := s.open(context.Background()); err == nil {
		t.Error("open() accepted an unknown source")
	}
}

func TestSimulateCmd_Config(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"window": 20, "momentum_window": 5}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		want    func(*engine.SimulationConfig)
		wantErr bool
	}{
		{
			name: "defaults",
			want: func(*engine.SimulationConfig) {},
		},
		{
			name: "flags only",
			args: []string{"-window", "10", "-cost", "0"},
			want: func(c *engine.SimulationConfig) { c.Window = 10; c.TransactionCost = 0 },
		},
		{
			name: "flags override file",
			args: []string{"-config", path, "-momentum-window", "4"},
			want: func(c *engine.SimulationConfig) { c.Window = 20; c.MomentumWindow = 4 },
		},
		{
			name:    "invalid window",
			args:    []string{"-window", "1"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &simulateCmd{}
			f := flag.NewFlagSet("simulate", flag.ContinueOnError)
			cmd.SetFlags(f)
			if err := f.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			got, err := cmd.config(f)
			if tt.wantErr {
				if err == nil {
					t.Errorf("config() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("config() error = %v", err)
			}
			want := engine.DefaultSimulationConfig()
			tt.want(&want)
			if got != want {
				t.Errorf("config() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "close_prices.csv")
	content := "Date,AAPL,SPY\n2022-01-03,182.01,477.71\n2022-01-04,179.70,477.55\n2022-01-05,,468.38\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := repository.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	n, err := importFile(context.Background(), store, path, "SPY")
	if err != nil {
		t.Fatalf("importFile() error = %v", err)
	}
	if n != 4 {
		t.Errorf("importFile() = %d rows, want 4", n)
	}
	if _, err := importFile(context.Background(), store, path, "QQQ"); err == nil {
		t.Error("importFile() accepted a benchmark missing from the file")
	}
}

func TestRunsCmd_ShowRun(t *testing.T) {
	ctx := context.Background()
	store, err := repository.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	day := time.Date(2022, 1, 4, 0, 0, 0, 0, time.UTC)
	id, err := store.SaveRun(ctx, engine.ArchivedRun{
		Name:      "smoke",
		Benchmark: "SPY",
		Config:    engine.DefaultSimulationConfig(),
		Points:    []engine.ValuePoint{{Date: day, Value: 100000}, {Date: day.AddDate(0, 0, 1), Value: 101000}},
	})
	if err != nil {
		t.Fatal(err)
	}

	chart := filepath.Join(t.TempDir(), "run.png")
	cmd := &runsCmd{id: id, chart: chart}
	doc, err := cmd.showRun(ctx, store)
	if err != nil {
		t.Fatalf("showRun() error = %v", err)
	}
	if !strings.Contains(doc, "$101,000.00") {
		t.Errorf("showRun() = %s", doc)
	}
	if _, err := os.Stat(chart); err != nil {
		t.Errorf("chart not written: %v", err)
	}

	list, err := listRuns(ctx, store)
	if err != nil || !strings.Contains(list, "smoke") {
		t.Errorf("listRuns() = %q, %v", list, err)
	}

	if _, err := (&runsCmd{id: id + 1}).showRun(ctx, store); err == nil {
		t.Error("showRun() of a missing run returned no error")
	}
}
