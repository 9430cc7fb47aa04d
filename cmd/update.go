package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/binance"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

type updateCmd struct {
	quiet bool
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "fetch orders, balances and prices from Binance and update the portfolio files"
}
func (*updateCmd) Usage() string {
	return `cfo update [-q]

  Fetches the spot account snapshot, the latest prices and the order history
  of every tracked coin, merges the new orders into spot_order_history.json,
  and writes the trades, balances, ticker summaries and portfolio summary.

  Credentials are read from API_KEY and SECRET_KEY, or from a .env file.
  See 'cfo topic files' for the list of files.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.quiet, "q", false, "Do not print the portfolio summary")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		return subcommands.ExitFailure
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	creds, err := cryptofolio.CredentialsFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	tracker := &cryptofolio.Tracker{
		Exchange: binance.New(creds.APIKey, creds.SecretKey,
			binance.WithBaseURL(cfg.Exchange.BaseURL),
			binance.WithHTTPClient(&http.Client{Timeout: cfg.Exchange.Timeout}),
			binance.WithRateLimit(cfg.Exchange.RateLimit),
			binance.WithVerbose(*Verbose),
		),
		Store:  openStore(cfg),
		Config: cfg,
	}

	j, err := openJournal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	if j != nil {
		defer j.Close()
		tracker.Journal = j
	}

	report, err := tracker.Update(ctx)
	if err != nil {
		var apiErr *binance.ClientError
		if errors.As(err, &apiErr) && apiErr.Code != 0 {
			log.Printf("Binance rejected the request to %s: code %d", apiErr.Endpoint, apiErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error updating portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if !c.quiet {
		printMarkdown(renderer.PortfolioMarkdown(report.Time, report.Portfolio))
	}
	return subcommands.ExitSuccess
}
