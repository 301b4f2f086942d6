package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&simulateCmd{}, "analysis")
	commander.Register(&betaCmd{}, "analysis")
	commander.Register(&importCmd{}, "data")
	commander.Register(&runsCmd{}, "data")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
