package engine

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadSimulationConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.json")
	if err := os.WriteFile(path, []byte(`{"window": 20, "slippage": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadSimulationConfig(path)
	if err != nil {
		t.Fatalf("LoadSimulationConfig() error = %v", err)
	}
	want := DefaultSimulationConfig()
	want.Window = 20
	want.Slippage = 0
	if got != want {
		t.Errorf("LoadSimulationConfig() = %+v, want %+v", got, want)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"momentum_window": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSimulationConfig(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadSimulationConfig() error = %v, want %v", err, ErrInvalidConfig)
	}
	if _, err := LoadSimulationConfig(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadSimulationConfig() error = %v, want not exist", err)
	}
}

func TestNewDataFeedConfig_AddsBenchmark(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	feed := NewDataFeedConfig([]string{"AAPL", "MSFT"}, "SPY", start, start.AddDate(1, 0, 0))
	if want := []string{"AAPL", "MSFT", "SPY"}; !reflect.DeepEqual(feed.tickers, want) {
		t.Errorf("tickers = %v, want %v", feed.tickers, want)
	}
	feed = NewDataFeedConfig([]string{"SPY", "AAPL"}, "SPY", start, start)
	if want := []string{"SPY", "AAPL"}; !reflect.DeepEqual(feed.tickers, want) {
		t.Errorf("tickers = %v, want %v", feed.tickers, want)
	}
}
