package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	html string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio summary of the last update" }
func (*summaryCmd) Usage() string {
	return `cfo summary [-html <file>]

  Displays the profit and loss of every coin and of the whole portfolio, as
  computed by the last 'cfo update'. No request is sent to the exchange.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.html, "html", "", "Write the summary as an HTML page to this file instead of printing it")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	var p cryptofolio.Portfolio
	if err := openStore(cfg).ReadJSON(cryptofolio.PortfolioSummaryFile, &p); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading portfolio summary, run 'cfo update' first: %v\n", err)
		return subcommands.ExitFailure
	}
	md := renderer.PortfolioMarkdown(time.Now(), p)

	if c.html == "" {
		printMarkdown(md)
		return subcommands.ExitSuccess
	}
	page, err := markdownHTML("Crypto Portfolio", md)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting summary to HTML: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.html, page, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.html, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Summary written to %s\n", c.html)
	return subcommands.ExitSuccess
}
