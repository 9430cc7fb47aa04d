package cryptofolio

import (
	"context"
	"strings"
)

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Status is the exchange status of an order.
type Status string

// Filled is the only status for which an order is accounted for.
const Filled Status = "FILLED"

// Order is a spot order as returned by the exchange order history.
//
// Orders are identified by their OrderID and never change once fetched.
type Order struct {
	Symbol              string    `json:"symbol"`
	OrderID             int64     `json:"orderId"`
	OrderListID         int64     `json:"orderListId"`
	ClientOrderID       string    `json:"clientOrderId"`
	Price               Money     `json:"price"`
	OrigQty             Quantity  `json:"origQty"`
	ExecutedQty         Quantity  `json:"executedQty"`
	CummulativeQuoteQty Money     `json:"cummulativeQuoteQty"`
	Status              Status    `json:"status"`
	TimeInForce         string    `json:"timeInForce"`
	Type                string    `json:"type"`
	Side                Side      `json:"side"`
	StopPrice           Money     `json:"stopPrice"`
	IcebergQty          Quantity  `json:"icebergQty"`
	Time                Timestamp `json:"time"`
	UpdateTime          Timestamp `json:"updateTime"`
	IsWorking           bool      `json:"isWorking"`
	OrigQuoteOrderQty   Money     `json:"origQuoteOrderQty"`
}

// Balance is the live holding of an asset in the spot account.
type Balance struct {
	Asset  string   `json:"asset"`
	Free   Quantity `json:"free"`
	Locked Quantity `json:"locked"`
}

// Snapshot is the state of the spot account at a given time.
type Snapshot struct {
	UpdateTime Timestamp `json:"updateTime"`
	Balances   []Balance `json:"balances"`
}

// Exchange is the remote source of orders, balances and prices.
type Exchange interface {
	// FetchOrders returns all the orders ever placed on a symbol pair (e.g. "BTCUSDT").
	FetchOrders(ctx context.Context, symbol string) ([]Order, error)
	// FetchAccountSnapshot returns the latest snapshot of the spot account.
	FetchAccountSnapshot(ctx context.Context) (Snapshot, error)
	// FetchPrice returns the latest price of a symbol pair.
	FetchPrice(ctx context.Context, symbol string) (Money, error)
}

// Pair returns the symbol pair of an asset quoted in quote.
func Pair(asset, quote string) string { return asset + quote }

// BaseAsset strips the quote suffix from a symbol pair: BaseAsset("BTCUSDT", "USDT") is "BTC".
func BaseAsset(symbol, quote string) string {
	return strings.TrimSuffix(symbol, quote)
}
