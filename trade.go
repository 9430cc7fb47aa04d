package cryptofolio

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// FeeRate is the exchange spot trading fee (0.1%).
var FeeRate = decimal.RequireFromString("0.001")

// ErrUnknownSide is returned when an order is neither a buy nor a sell.
var ErrUnknownSide = errors.New("unknown trade side, neither 'BUY' nor 'SELL'")

// Trade is a filled order together with its economic outcome.
type Trade struct {
	Order
	// ActualQty is the quantity of base asset added to (buy) or removed from (sell) the wallet.
	ActualQty Quantity `json:"actualQty"`
	// Fee paid, in FeeAsset.
	Fee      decimal.Decimal `json:"fee"`
	FeeAsset string          `json:"feeAsset"`
	// ActualCost is the quote amount spent (buy) or received net of fees (sell).
	ActualCost Money `json:"actualCost"`
	// TotalCost is the gross quote amount of the order.
	TotalCost Money `json:"totalCost"`
}

// Resolve computes the economic outcome of an order.
//
// On a buy the fee is taken from the purchased asset, on a sell it is taken
// from the quote proceeds. quote is the quote asset of the order's symbol.
func Resolve(o Order, quote string) (Trade, error) {
	t := Trade{Order: o}
	one := decimal.NewFromInt(1)
	executed := o.ExecutedQty.value
	quoteQty := o.CummulativeQuoteQty.In(quote)

	switch o.Side {
	case Buy:
		t.ActualQty = Quantity{executed.Mul(one.Sub(FeeRate))}
		t.Fee = executed.Mul(FeeRate)
		t.FeeAsset = BaseAsset(o.Symbol, quote)
		t.ActualCost = quoteQty
	case Sell:
		t.ActualQty = o.ExecutedQty
		t.Fee = quoteQty.value.Mul(FeeRate)
		t.FeeAsset = quote
		t.ActualCost = Money{value: quoteQty.value.Mul(one.Sub(FeeRate)), cur: quote}
	default:
		return Trade{}, fmt.Errorf("order %d on %s: %w: %q", o.OrderID, o.Symbol, ErrUnknownSide, o.Side)
	}
	t.TotalCost = quoteQty
	return t, nil
}

// ResolveTrades resolves every filled order of the ledger and groups the trades
// by symbol, in ledger order. Orders in any other status are skipped here and
// nowhere else.
func ResolveTrades(l *Ledger, quote string) (map[string][]Trade, error) {
	trades := make(map[string][]Trade)
	for o := range l.Orders() {
		if o.Status != Filled {
			continue
		}
		t, err := Resolve(o, quote)
		if err != nil {
			return nil, err
		}
		trades[o.Symbol] = append(trades[o.Symbol], t)
	}
	return trades, nil
}
