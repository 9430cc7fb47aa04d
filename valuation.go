package cryptofolio

import (
	"encoding/json"
	"sort"
)

// DefaultCostOffset is subtracted from the portfolio cost to account for quote
// currency that entered the account outside of the trade history (e.g. cash
// deposits that were never traded). It is a manual correction, not derived data.
var DefaultCostOffset = M(345.85, DefaultQuoteAsset)

// ValuationOptions tune the valuation of a portfolio.
type ValuationOptions struct {
	// QuoteAsset is the asset every symbol is quoted in (e.g. "USDT").
	QuoteAsset string
	// CostOffset is subtracted from the total portfolio cost.
	CostOffset Money
}

// PortfolioSummary is a TickerSummary joined with the live balance of its asset.
type PortfolioSummary struct {
	TickerSummary
	Balance ValuedBalance
	// TotalQty is the quantity ever sold plus the quantity currently held.
	TotalQty Quantity
	// TotalValue is the value ever received selling plus the value currently held.
	TotalValue Money
	PNL        Money
	PNLPercent Percent
}

// MarshalJSON flattens the summary, its balance and its results in a single object.
func (s PortfolioSummary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(s.TickerSummary)
	w.Append("asset", s.Balance.Symbol)
	w.Append("balanceQty", s.Balance.BalanceQty)
	w.Append("price", s.Balance.Price)
	w.Append("actualValue", s.Balance.ActualValue)
	w.Append("locked", s.Balance.Locked)
	w.Append("totalQty", s.TotalQty)
	w.Append("totalValue", s.TotalValue)
	w.Append("pnl", s.PNL)
	w.Append("pnl%", s.PNLPercent)
	return w.MarshalJSON()
}

// UnmarshalJSON reads back the flattened object.
func (s *PortfolioSummary) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &s.TickerSummary); err != nil {
		return err
	}
	var flat struct {
		Asset       string   `json:"asset"`
		BalanceQty  Quantity `json:"balanceQty"`
		Price       Money    `json:"price"`
		ActualValue Money    `json:"actualValue"`
		Locked      Quantity `json:"locked"`
		TotalQty    Quantity `json:"totalQty"`
		TotalValue  Money    `json:"totalValue"`
		PNL         Money    `json:"pnl"`
		PNLPercent  Percent  `json:"pnl%"`
	}
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}
	s.Balance = ValuedBalance{
		Symbol:      flat.Asset,
		BalanceQty:  flat.BalanceQty,
		Price:       flat.Price,
		ActualValue: flat.ActualValue,
		Locked:      flat.Locked,
	}
	s.TotalQty, s.TotalValue = flat.TotalQty, flat.TotalValue
	s.PNL, s.PNLPercent = flat.PNL, flat.PNLPercent
	return nil
}

// PortfolioTotal is the rollup of all the assets.
type PortfolioTotal struct {
	Cost       Money   `json:"portfolioCost"`
	Value      Money   `json:"portfolioValue"`
	PNL        Money   `json:"portfolioPNL"`
	PNLPercent Percent `json:"portfolioPNL%"`
}

// Portfolio is the valuation of every traded asset, most profitable first.
type Portfolio struct {
	Assets []PortfolioSummary
	Total  PortfolioTotal
}

// MarshalJSON encodes the portfolio as an array of the asset summaries
// followed by the total as the last record.
func (p Portfolio) MarshalJSON() ([]byte, error) {
	records := make([]any, 0, len(p.Assets)+1)
	for _, a := range p.Assets {
		records = append(records, a)
	}
	records = append(records, p.Total)
	return json.Marshal(records)
}

// UnmarshalJSON decodes the array written by MarshalJSON.
func (p *Portfolio) UnmarshalJSON(b []byte) error {
	var records []json.RawMessage
	if err := json.Unmarshal(b, &records); err != nil {
		return err
	}
	*p = Portfolio{}
	if len(records) == 0 {
		return nil
	}
	last := len(records) - 1
	for _, r := range records[:last] {
		var s PortfolioSummary
		if err := json.Unmarshal(r, &s); err != nil {
			return err
		}
		p.Assets = append(p.Assets, s)
	}
	return json.Unmarshal(records[last], &p.Total)
}

// Value joins the ticker summaries with the live balances and computes the
// profit and loss of each asset and of the whole portfolio.
//
// A summary whose asset is no longer held is valued at zero.
func Value(summaries map[string]TickerSummary, balances []ValuedBalance, opts ValuationOptions) Portfolio {
	quote := opts.QuoteAsset
	if quote == "" {
		quote = DefaultQuoteAsset
	}
	byAsset := make(map[string]ValuedBalance, len(balances))
	for _, b := range balances {
		byAsset[b.Symbol] = b
	}

	var p Portfolio
	for _, s := range SortedSummaries(summaries) {
		asset := BaseAsset(s.Symbol, quote)
		b, ok := byAsset[asset]
		if !ok {
			b = ValuedBalance{Symbol: asset, Price: M(0, quote), ActualValue: M(0, quote)}
		}
		ps := PortfolioSummary{
			TickerSummary: s,
			Balance:       b,
			TotalQty:      s.TotalSaleQty.Add(b.BalanceQty),
			TotalValue:    s.TotalSaleValue.Add(b.ActualValue),
		}
		ps.PNL = ps.TotalValue.Sub(s.TotalCost)
		ps.PNLPercent = percentOf(ps.PNL, s.TotalCost)
		p.Assets = append(p.Assets, ps)
	}
	sort.SliceStable(p.Assets, func(i, j int) bool {
		return p.Assets[i].PNLPercent > p.Assets[j].PNLPercent
	})

	cost, value := M(0, quote), M(0, quote)
	for _, a := range p.Assets {
		cost = cost.Add(a.TotalCost)
		value = value.Add(a.Balance.ActualValue)
	}
	if b, ok := byAsset[quote]; ok {
		value = value.Add(b.ActualValue)
	}
	cost = cost.Sub(opts.CostOffset.In(quote))

	p.Total = PortfolioTotal{
		Cost:       cost,
		Value:      value,
		PNL:        value.Sub(cost),
		PNLPercent: percentOf(value.Sub(cost), cost),
	}
	return p
}
