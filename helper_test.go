package cryptofolio

import "time"

// USDT is a helper for test to create USDT money from const
func USDT(v float64) Money { return M(v, "USDT") }

// t0 is the time of the first test order.
var t0 = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

// filled is a helper for test to create a filled order, day days after t0.
func filled(id int64, symbol string, side Side, qty, quote float64, day int) Order {
	at := Timestamp{t0.AddDate(0, 0, day)}
	return Order{
		Symbol:              symbol,
		OrderID:             id,
		OrigQty:             Q(qty),
		ExecutedQty:         Q(qty),
		CummulativeQuoteQty: M(quote, ""),
		Status:              Filled,
		Type:                "MARKET",
		Side:                side,
		Time:                at,
		UpdateTime:          at,
	}
}

// ids returns the order IDs of the ledger, in ledger order.
func ids(l *Ledger) []int64 {
	var res []int64
	for o := range l.Orders() {
		res = append(res, o.OrderID)
	}
	return res
}
