package cryptofolio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"maps"
	"slices"
	"time"
)

// Names of the files handled by a run, without extension.
const (
	TickersFile          = "spot_tickers"
	LedgerFile           = "spot_order_history"
	TradesFile           = "spot_trades"
	BalanceFile          = "spot_balance"
	TickerSummaryFile    = "ticker_summary"
	PortfolioSummaryFile = "portfolio_summary"
)

// Store reads and writes named documents.
type Store interface {
	// ReadJSON decodes the latest version of the named JSON document into v.
	// The error wraps fs.ErrNotExist if the document does not exist.
	ReadJSON(name string, v any) error
	// WriteJSON writes v as a JSON document and returns the file written.
	// The store may keep the previous versions.
	WriteJSON(name string, v any) (string, error)
	// ReplaceJSON writes v as the named JSON document, replacing the previous one.
	ReplaceJSON(name string, v any) (string, error)
	// WriteSheet writes v, a list of records, as a spreadsheet and returns the file written.
	WriteSheet(name string, v any) (string, error)
}

// Journal records the outcome of each run.
type Journal interface {
	Record(ctx context.Context, r *Report) error
}

// Report is everything a run fetched and computed.
type Report struct {
	Time      time.Time
	Tickers   []string // tracked base assets
	Snapshot  Snapshot
	Prices    map[string]Money // latest price by base asset
	Ledger    *Ledger
	NewOrders int // orders added to the ledger by this run
	Trades    map[string][]Trade
	Balances  []ValuedBalance
	Summaries map[string]TickerSummary
	Portfolio Portfolio
}

// Tracker runs the portfolio update: fetch, reconcile, value, persist.
type Tracker struct {
	Exchange Exchange
	Store    Store
	Journal  Journal // optional
	Config   Config
	Now      func() time.Time // defaults to time.Now
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Update fetches fresh data, computes the portfolio and persists every output.
//
// Nothing is written if a fetch or a computation fails. A failed write leaves
// the coin set and the ledger of the previous run in place.
func (t *Tracker) Update(ctx context.Context) (*Report, error) {
	log.Println("Updating crypto portfolio.")
	r, err := t.Compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := t.Save(r); err != nil {
		return nil, err
	}
	if t.Journal != nil {
		if err := t.Journal.Record(ctx, r); err != nil {
			return r, fmt.Errorf("cannot record run in journal: %w", err)
		}
	}
	log.Printf("Portfolio updated: %d orders (%d new), value %v, pnl %v (%v)",
		r.Ledger.Len(), r.NewOrders, r.Portfolio.Total.Value, r.Portfolio.Total.PNL, r.Portfolio.Total.PNLPercent)
	return r, nil
}

// Compute fetches fresh data and computes the report without writing anything.
func (t *Tracker) Compute(ctx context.Context) (*Report, error) {
	quote := t.Config.QuoteAsset
	r := &Report{Time: t.now()}

	tickers, err := t.loadTickers()
	if err != nil {
		return nil, err
	}

	log.Println("Fetching spot account snapshot.")
	r.Snapshot, err = t.Exchange.FetchAccountSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch account snapshot: %w", err)
	}
	for _, b := range r.Snapshot.Balances {
		if b.Asset != quote {
			tickers[b.Asset] = struct{}{}
		}
	}
	r.Tickers = slices.Sorted(maps.Keys(tickers))
	log.Printf("Tracking %d coins: %v", len(r.Tickers), r.Tickers)

	r.Prices = make(map[string]Money, len(r.Tickers))
	for _, ticker := range r.Tickers {
		price, err := t.Exchange.FetchPrice(ctx, Pair(ticker, quote))
		if err != nil {
			return nil, fmt.Errorf("cannot fetch %s price: %w", Pair(ticker, quote), err)
		}
		r.Prices[ticker] = price.In(quote)
	}

	var incoming []Order
	for _, ticker := range r.Tickers {
		symbol := Pair(ticker, quote)
		log.Printf("Fetching spot order history for symbol: %s", symbol)
		orders, err := t.Exchange.FetchOrders(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("cannot fetch %s orders: %w", symbol, err)
		}
		incoming = append(incoming, orders...)
	}

	existing, err := t.loadLedger()
	if err != nil {
		return nil, err
	}
	r.Ledger = Reconcile(existing, incoming)
	r.Ledger.Sort()
	r.NewOrders = r.Ledger.Len() - existing.Len()

	if r.Trades, err = ResolveTrades(r.Ledger, quote); err != nil {
		return nil, fmt.Errorf("cannot resolve trades: %w", err)
	}
	r.Summaries = Aggregate(r.Trades, r.Time)
	if r.Balances, err = ValueBalances(r.Snapshot.Balances, r.Prices, quote); err != nil {
		return nil, err
	}
	r.Portfolio = Value(r.Summaries, r.Balances, t.Config.Valuation())
	return r, nil
}

// Save writes all the files of a report.
//
// Reports are written first and may be kept as new versions. The coin set
// and the ledger are read back by the next run: they are replaced in place,
// last.
func (t *Tracker) Save(r *Report) error {
	balanceSheet := BalanceFile + "_" + t.Config.BalanceFileSuffix(r.Snapshot.UpdateTime.Time)
	summaries := SortedSummaries(r.Summaries)
	writes := []struct {
		name  string
		v     any
		write func(name string, v any) (string, error)
	}{
		{BalanceFile, r.Balances, t.Store.WriteJSON},
		{balanceSheet, r.Balances, t.Store.WriteSheet},
		{LedgerFile, r.Ledger, t.Store.WriteSheet},
		{TradesFile, r.Trades, t.Store.WriteJSON},
		{TickerSummaryFile, summaries, t.Store.WriteJSON},
		{TickerSummaryFile, summaries, t.Store.WriteSheet},
		{PortfolioSummaryFile, r.Portfolio, t.Store.WriteJSON},
		{PortfolioSummaryFile, r.Portfolio, t.Store.WriteSheet},
		{TickersFile, r.Tickers, t.Store.ReplaceJSON},
		{LedgerFile, r.Ledger, t.Store.ReplaceJSON},
	}
	for _, w := range writes {
		file, err := w.write(w.name, w.v)
		if err != nil {
			return fmt.Errorf("cannot write %s: %w", w.name, err)
		}
		log.Printf("Wrote %s", file)
	}
	return nil
}

// loadTickers returns the persisted coin set merged with the configured symbols.
func (t *Tracker) loadTickers() (map[string]struct{}, error) {
	var persisted []string
	if err := t.Store.ReadJSON(TickersFile, &persisted); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read tracked coins: %w", err)
	}
	tickers := make(map[string]struct{})
	for _, s := range slices.Concat(persisted, t.Config.Symbols) {
		if s != "" && s != t.Config.QuoteAsset {
			tickers[s] = struct{}{}
		}
	}
	return tickers, nil
}

// loadLedger reads the persisted ledger. A missing ledger is an empty one.
func (t *Tracker) loadLedger() (*Ledger, error) {
	l := NewLedger()
	err := t.Store.ReadJSON(LedgerFile, l)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, no order history yet, starting from an empty ledger")
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read order history: %w", err)
	}
	return l, nil
}
