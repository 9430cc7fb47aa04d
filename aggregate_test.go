package cryptofolio

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	l := NewLedger(
		filled(1, "XUSDT", Buy, 10, 100, 0),
		filled(2, "XUSDT", Sell, 4, 60, 1),
	)
	trades, err := ResolveTrades(l, "USDT")
	if err != nil {
		t.Fatalf("ResolveTrades() returned an unexpected error: %v", err)
	}
	on := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	got := Summarize("XUSDT", trades["XUSDT"], on)

	checks := []struct {
		name string
		got  interface{ String() string }
		want string
	}{
		{"OrigQty", got.OrigQty, "10"},
		{"ActualQty", got.ActualQty, "9.99"},
		{"TotalSaleQty", got.TotalSaleQty, "4"},
	}
	for _, c := range checks {
		if c.got.String() != c.want {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if !got.TotalCost.Equal(USDT(100)) {
		t.Errorf("TotalCost = %v, want 100", got.TotalCost)
	}
	if !got.ActualCost.Equal(USDT(100)) {
		t.Errorf("ActualCost = %v, want 100", got.ActualCost)
	}
	if !got.TotalSaleValue.Equal(USDT(59.94)) {
		t.Errorf("TotalSaleValue = %v, want 59.94", got.TotalSaleValue)
	}
	if !got.Date.Equal(on) {
		t.Errorf("Date = %v, want %v", got.Date, on)
	}
}

func TestAggregate_OnlyFilled(t *testing.T) {
	pending := filled(2, "XUSDT", Buy, 100, 1000, 1)
	pending.Status = "NEW"
	canceled := filled(3, "ZUSDT", Buy, 1, 10, 1)
	canceled.Status = "CANCELED"

	l := NewLedger(filled(1, "XUSDT", Buy, 10, 100, 0), pending, canceled)
	trades, err := ResolveTrades(l, "USDT")
	if err != nil {
		t.Fatalf("ResolveTrades() returned an unexpected error: %v", err)
	}
	summaries := Aggregate(trades, time.Now())

	if _, ok := summaries["ZUSDT"]; ok {
		t.Error("Aggregate() summarized a symbol with no filled order")
	}
	x := summaries["XUSDT"]
	if !x.TotalCost.Equal(USDT(100)) || x.OrigQty.String() != "10" {
		t.Errorf("XUSDT summary includes non filled orders: cost %v, qty %v", x.TotalCost, x.OrigQty)
	}
}

func TestSortedSummaries(t *testing.T) {
	summaries := map[string]TickerSummary{
		"ETHUSDT": {Symbol: "ETHUSDT"},
		"ADAUSDT": {Symbol: "ADAUSDT"},
		"BTCUSDT": {Symbol: "BTCUSDT"},
	}
	got := SortedSummaries(summaries)
	want := []string{"ADAUSDT", "BTCUSDT", "ETHUSDT"}
	for i, s := range got {
		if s.Symbol != want[i] {
			t.Errorf("SortedSummaries()[%d] = %s, want %s", i, s.Symbol, want[i])
		}
	}
}
