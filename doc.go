// Package cryptofolio tracks a personal spot portfolio held on a crypto
// exchange. It is local-first: every run fetches the latest data from the
// exchange and keeps human-readable files as the source of truth.
//
// The core functionalities include:
//   - Ledger Management: merging the order history fetched from the exchange
//     into a persisted ledger, deduplicated by order ID and sorted by time.
//   - Trade Resolution: turning each filled order into its economic outcome,
//     fees included.
//   - Aggregation: folding the trades of each symbol into a lifetime summary
//     of what was bought and sold.
//   - Valuation: joining the summaries with live balances and prices to
//     compute the profit and loss of each asset and of the whole portfolio.
//
// This package serves as the foundational logic for the `cfo` command-line
// tool. It issues no orders and manages no funds.
package cryptofolio
