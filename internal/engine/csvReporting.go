package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"betahedge/types"
)

// writeReportFiles writes the movements and monthly transactions next to each
// other under the reporting path.
func (e *Engine) writeReportFiles(res *Result) error {
	name := e.reportingConfig.reportName
	if name == "" {
		name = "portfolio"
	}
	if dir := e.reportingConfig.filePath; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	movements := filepath.Join(e.reportingConfig.filePath, name+"_movements.csv")
	if err := writeCSVFile(movements, func(w io.Writer) error {
		return WritePortfolioCSV(w, res.Points())
	}); err != nil {
		return err
	}
	transactions := filepath.Join(e.reportingConfig.filePath, name+"_transactions.csv")
	return writeCSVFile(transactions, func(w io.Writer) error {
		return WriteTransactionsCSV(w, res.Counters)
	})
}

func writeCSVFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return write(f)
}

// WritePortfolioCSV writes one "Date,Portfolio Value" row per simulated day.
func WritePortfolioCSV(w io.Writer, points []ValuePoint) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Date", "Portfolio Value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range points {
		record := []string{
			p.Date.Format(types.DateFormat),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteTransactionsCSV writes the monthly long/short breakdown.
func WriteTransactionsCSV(w io.Writer, counters *TransactionCounters) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Month", "Long", "Short"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, month := range counters.Months() {
		mc := counters.Get(month)
		record := []string{month, strconv.Itoa(mc.Long), strconv.Itoa(mc.Short)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
