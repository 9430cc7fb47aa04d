package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the portfolio totals of past updates" }
func (*historyCmd) Usage() string {
	return `cfo history [-n <count>]

  Displays the cost, value and profit and loss recorded by each 'cfo update',
  most recent first. Requires journal_path in the configuration.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 30, "Number of runs to display, 0 for all")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	j, err := openJournal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	if j == nil {
		fmt.Fprintln(os.Stderr, "no journal configured, set journal_path in the configuration")
		return subcommands.ExitFailure
	}
	defer j.Close()

	runs, err := j.Runs(ctx, c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading journal: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HistoryMarkdown(runs))
	return subcommands.ExitSuccess
}
