package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"betahedge/internal/render"
	"betahedge/internal/repository"
	"betahedge/types"

	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
)

type runsCmd struct {
	dbPath string
	id     int64
	chart  string
}

func (*runsCmd) Name() string     { return "runs" }
func (*runsCmd) Synopsis() string { return "list archived simulations or show one of them" }
func (*runsCmd) Usage() string {
	return `betahedge runs [-db betahedge.db] [-id n [-chart file.png]]

  Lists the simulations saved with simulate -archive. With -id, displays the
  value series of that run.
`
}

func (c *runsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "betahedge.db", "SQLite database holding the archive")
	f.Int64Var(&c.id, "id", 0, "Show the value series of this run")
	f.StringVar(&c.chart, "chart", "", "With -id, write a PNG chart of the series to this file")
}

func (c *runsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := repository.OpenSQLite(c.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", c.dbPath, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	var doc string
	if c.id != 0 {
		doc, err = c.showRun(ctx, store)
	} else {
		doc, err = listRuns(ctx, store)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

func (c *runsCmd) showRun(ctx context.Context, store *repository.SQLiteStore) (string, error) {
	points, err := store.RunValues(ctx, c.id)
	if err != nil {
		return "", err
	}
	if len(points) == 0 {
		return "", fmt.Errorf("run %d not found", c.id)
	}
	title := fmt.Sprintf("Run %d", c.id)
	if c.chart != "" {
		png, err := render.SeriesChart(title, points)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(c.chart, png, 0o644); err != nil {
			return "", fmt.Errorf("write chart: %w", err)
		}
	}
	return render.SeriesMarkdown(title, points), nil
}

func listRuns(ctx context.Context, store *repository.SQLiteStore) (string, error) {
	runs, err := store.ListRuns(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Archived Runs")
	table := md.TableSet{
		Header: []string{"ID", "Name", "Benchmark", "Created", "Days", "Final Value"},
		Rows:   [][]string{},
	}
	for _, r := range runs {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Benchmark,
			r.CreatedAt.Format(types.DateFormat),
			strconv.Itoa(r.Days),
			strconv.FormatFloat(r.FinalValue, 'f', 2, 64),
		})
	}
	doc.Table(table)
	return doc.String(), nil
}
