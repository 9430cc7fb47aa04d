package cryptofolio

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

var noOffset = ValuationOptions{QuoteAsset: "USDT", CostOffset: USDT(0)}

// endToEnd values the example portfolio: one buy of 10 X for 100, one sell
// of 4 X for 60, and 6 X held at 20.
func endToEnd(t *testing.T, opts ValuationOptions) Portfolio {
	t.Helper()
	l := NewLedger(
		filled(1, "XUSDT", Buy, 10, 100, 0),
		filled(2, "XUSDT", Sell, 4, 60, 1),
	)
	trades, err := ResolveTrades(l, "USDT")
	if err != nil {
		t.Fatalf("ResolveTrades() returned an unexpected error: %v", err)
	}
	summaries := Aggregate(trades, time.Now())
	balances, err := ValueBalances(
		[]Balance{{Asset: "X", Free: Q(6), Locked: Q(0)}},
		map[string]Money{"X": USDT(20)},
		"USDT")
	if err != nil {
		t.Fatalf("ValueBalances() returned an unexpected error: %v", err)
	}
	return Value(summaries, balances, opts)
}

func TestValue_EndToEnd(t *testing.T) {
	p := endToEnd(t, noOffset)
	if len(p.Assets) != 1 {
		t.Fatalf("Value() returned %d assets, want 1", len(p.Assets))
	}
	x := p.Assets[0]

	if x.TotalSaleQty.String() != "4" {
		t.Errorf("TotalSaleQty = %v, want 4", x.TotalSaleQty)
	}
	if !x.TotalSaleValue.Equal(USDT(59.94)) {
		t.Errorf("TotalSaleValue = %v, want 59.94", x.TotalSaleValue)
	}
	if x.TotalQty.String() != "10" {
		t.Errorf("TotalQty = %v, want 10", x.TotalQty)
	}
	if !x.TotalValue.Equal(USDT(179.94)) {
		t.Errorf("TotalValue = %v, want 179.94", x.TotalValue)
	}
	if !x.PNL.Equal(USDT(79.94)) {
		t.Errorf("PNL = %v, want 79.94", x.PNL)
	}
	if !x.PNLPercent.Equal(79.94) {
		t.Errorf("PNLPercent = %v, want 79.94%%", x.PNLPercent)
	}
	if x.Balance.Symbol != "X" {
		t.Errorf("Balance.Symbol = %q, want X", x.Balance.Symbol)
	}

	if !p.Total.Cost.Equal(USDT(100)) || !p.Total.Value.Equal(USDT(120)) {
		t.Errorf("Total = %v / %v, want 100 / 120", p.Total.Cost, p.Total.Value)
	}
	if !p.Total.PNL.Equal(USDT(20)) || !p.Total.PNLPercent.Equal(20) {
		t.Errorf("Total PNL = %v (%v), want 20 (20%%)", p.Total.PNL, p.Total.PNLPercent)
	}
}

func TestValue_CostOffset(t *testing.T) {
	p := endToEnd(t, ValuationOptions{QuoteAsset: "USDT", CostOffset: DefaultCostOffset})
	want := USDT(100 - 345.85)
	if !p.Total.Cost.Equal(want) {
		t.Errorf("Total.Cost = %v, want %v", p.Total.Cost, want)
	}
	if !p.Total.PNL.Equal(USDT(120).Sub(want)) {
		t.Errorf("Total.PNL = %v, want %v", p.Total.PNL, USDT(120).Sub(want))
	}
}

func TestValue_ZeroCost(t *testing.T) {
	// a coin received without any buy, then partly sold.
	summaries := map[string]TickerSummary{
		"AIRUSDT": {Symbol: "AIRUSDT", TotalSaleQty: Q(1), TotalSaleValue: USDT(5)},
	}
	balances := []ValuedBalance{{Symbol: "AIR", BalanceQty: Q(1), Price: USDT(5), ActualValue: USDT(5)}}

	p := Value(summaries, balances, noOffset)
	x := p.Assets[0]
	if !x.PNL.Equal(USDT(10)) {
		t.Errorf("PNL = %v, want 10", x.PNL)
	}
	// the zero cost is replaced by 1.
	if !x.PNLPercent.Equal(1000) {
		t.Errorf("PNLPercent = %v, want 1000%%", x.PNLPercent)
	}
	// no cost in total either: the value of 5 is all profit.
	if !p.Total.PNLPercent.Equal(500) {
		t.Errorf("Total.PNLPercent = %v, want 500%%", p.Total.PNLPercent)
	}
}

func TestValue_MissingBalance(t *testing.T) {
	summaries := map[string]TickerSummary{
		"GONEUSDT": {Symbol: "GONEUSDT", OrigQty: Q(1), TotalCost: USDT(10), TotalSaleQty: Q(1), TotalSaleValue: USDT(8)},
	}
	p := Value(summaries, nil, noOffset)
	x := p.Assets[0]
	if x.Balance.Symbol != "GONE" || !x.Balance.ActualValue.IsZero() {
		t.Errorf("Balance = %+v, want a zero GONE balance", x.Balance)
	}
	if !x.PNL.Equal(USDT(-2)) || !x.PNLPercent.Equal(-20) {
		t.Errorf("PNL = %v (%v), want -2 (-20%%)", x.PNL, x.PNLPercent)
	}
}

func TestValue_Order(t *testing.T) {
	summaries := map[string]TickerSummary{
		"AUSDT": {Symbol: "AUSDT", TotalCost: USDT(100)},
		"BUSDT": {Symbol: "BUSDT", TotalCost: USDT(100)},
		"CUSDT": {Symbol: "CUSDT", TotalCost: USDT(100)},
	}
	balances := []ValuedBalance{
		{Symbol: "A", ActualValue: USDT(50)},
		{Symbol: "B", ActualValue: USDT(150)},
		{Symbol: "C", ActualValue: USDT(50)},
		{Symbol: "USDT", BalanceQty: Q(30), Price: USDT(1), ActualValue: USDT(30)},
	}
	p := Value(summaries, balances, noOffset)

	var got []string
	for _, a := range p.Assets {
		got = append(got, a.Symbol)
	}
	// most profitable first, ties by symbol.
	if strings.Join(got, ",") != "BUSDT,AUSDT,CUSDT" {
		t.Errorf("Value() order = %v, want [BUSDT AUSDT CUSDT]", got)
	}
	// the quote balance is part of the value.
	if !p.Total.Value.Equal(USDT(280)) {
		t.Errorf("Total.Value = %v, want 280", p.Total.Value)
	}
}

func TestPortfolio_JSON(t *testing.T) {
	p := endToEnd(t, noOffset)
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() returned an unexpected error: %v", err)
	}
	got := string(b)

	// summary keys come first, then the balance, then the results.
	keys := []string{`"symbol":"XUSDT"`, `"totalCost"`, `"totalSaleValue"`, `"asset":"X"`, `"balanceQty"`, `"totalQty"`, `"totalValue"`, `"pnl"`, `"pnl%":"79.94%"`, `"portfolioCost"`, `"portfolioPNL%":"20.00%"`}
	last := -1
	for _, k := range keys {
		i := strings.Index(got, k)
		if i < 0 {
			t.Errorf("JSON does not contain %s:\n%s", k, got)
			continue
		}
		if i < last {
			t.Errorf("%s is out of order:\n%s", k, got)
		}
		last = i
	}

	var back Portfolio
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() returned an unexpected error: %v", err)
	}
	if len(back.Assets) != 1 || back.Assets[0].Balance.Symbol != "X" || !back.Assets[0].TotalValue.Equal(USDT(179.94)) {
		t.Errorf("Unmarshal() = %+v", back)
	}
	if !back.Total.PNLPercent.Equal(20) {
		t.Errorf("Unmarshal() total pnl%% = %v, want 20", back.Total.PNLPercent)
	}
}
