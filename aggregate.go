package cryptofolio

import (
	"maps"
	"slices"
	"time"
)

// TickerSummary is the lifetime rollup of the trades on one symbol.
type TickerSummary struct {
	Symbol string    `json:"symbol"`
	Date   Timestamp `json:"date"`
	// OrigQty is the gross quantity bought.
	OrigQty Quantity `json:"origQty"`
	// ActualQty is the quantity bought net of fees.
	ActualQty Quantity `json:"actualQty"`
	// TotalCost is the gross quote amount spent buying.
	TotalCost Money `json:"totalCost"`
	// ActualCost is the quote amount spent buying, as resolved.
	ActualCost Money `json:"actualCost"`
	// TotalSaleQty is the quantity sold.
	TotalSaleQty Quantity `json:"totalSaleQty"`
	// TotalSaleValue is the quote amount received selling, net of fees.
	TotalSaleValue Money `json:"totalSaleValue"`
}

// Summarize folds the trades of a single symbol into its summary.
//
// Buys and sells are accumulated separately, netting happens at valuation.
func Summarize(symbol string, trades []Trade, on time.Time) TickerSummary {
	s := TickerSummary{Symbol: symbol, Date: Timestamp{on}}
	for _, t := range trades {
		if t.Side == Buy {
			s.OrigQty = s.OrigQty.Add(t.OrigQty)
			s.ActualQty = s.ActualQty.Add(t.ActualQty)
			s.TotalCost = s.TotalCost.Add(t.TotalCost)
			s.ActualCost = s.ActualCost.Add(t.ActualCost)
		} else {
			s.TotalSaleQty = s.TotalSaleQty.Add(t.OrigQty)
			s.TotalSaleValue = s.TotalSaleValue.Add(t.ActualCost)
		}
	}
	return s
}

// Aggregate summarizes the trades of every symbol.
//
// trades are expected to be resolved from filled orders only, see ResolveTrades.
func Aggregate(trades map[string][]Trade, on time.Time) map[string]TickerSummary {
	summaries := make(map[string]TickerSummary, len(trades))
	for symbol, ts := range trades {
		summaries[symbol] = Summarize(symbol, ts, on)
	}
	return summaries
}

// SortedSummaries returns the summaries ordered by symbol.
func SortedSummaries(summaries map[string]TickerSummary) []TickerSummary {
	result := make([]TickerSummary, 0, len(summaries))
	for _, symbol := range slices.Sorted(maps.Keys(summaries)) {
		result = append(result, summaries[symbol])
	}
	return result
}
