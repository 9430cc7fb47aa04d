package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/cryptofolio/persist"
	"github.com/google/subcommands"
)

type convertCmd struct {
	output string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a CSV export into a spreadsheet" }
func (*convertCmd) Usage() string {
	return `cfo convert [-o <file.xlsx>] <file.csv>

  Converts a CSV file, like the transaction exports of the exchange, into an
  xlsx spreadsheet. The first line is the header. Numeric cells are stored as
  numbers.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the input file with the .xlsx extension.")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expecting exactly one CSV file")
		return subcommands.ExitUsageError
	}
	input := f.Arg(0)
	output := c.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".xlsx"
	}
	if err := persist.ConvertCSV(input, output); err != nil {
		fmt.Fprintf(os.Stderr, "Error converting %q: %v\n", input, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Converted %s to %s\n", input, output)
	return subcommands.ExitSuccess
}
