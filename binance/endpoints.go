package binance

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/cryptofolio"
)

// Endpoints of the spot API.
const (
	allOrdersPath       = "/api/v3/allOrders"
	accountSnapshotPath = "/sapi/v1/accountSnapshot"
	tickerPricePath     = "/api/v3/ticker/price"
)

// latestSnapshotPath selects the most recent daily snapshot of the account.
const latestSnapshotPath = "$.snapshotVos[-1:]"

// FetchOrders returns all the orders (open, canceled or filled) on a symbol.
func (c *Client) FetchOrders(ctx context.Context, symbol string) ([]cryptofolio.Order, error) {
	var orders []cryptofolio.Order
	if err := c.get(ctx, allOrdersPath, Params{{"symbol", symbol}}, true, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FetchAccountSnapshot returns the latest daily snapshot of the spot account.
func (c *Client) FetchAccountSnapshot(ctx context.Context) (cryptofolio.Snapshot, error) {
	var payload map[string]any
	if err := c.get(ctx, accountSnapshotPath, Params{{"type", "SPOT"}}, true, &payload); err != nil {
		return cryptofolio.Snapshot{}, err
	}
	if code, ok := payload["code"].(float64); ok && code != 200 {
		msg, _ := payload["msg"].(string)
		return cryptofolio.Snapshot{}, &ClientError{Endpoint: accountSnapshotPath, StatusCode: 200, Code: int(code), Msg: msg}
	}

	jval, err := jsonpath.Get(latestSnapshotPath, payload)
	if err != nil {
		return cryptofolio.Snapshot{}, &ClientError{Endpoint: accountSnapshotPath, Err: fmt.Errorf("cannot select %q: %w", latestSnapshotPath, err)}
	}
	// jsonpath returns a list for a slice selector, keep its only element.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return cryptofolio.Snapshot{}, &ClientError{Endpoint: accountSnapshotPath, StatusCode: 200, Msg: "no snapshot available"}
		}
		jval = jlist[0]
	}

	raw, err := json.Marshal(jval)
	if err != nil {
		return cryptofolio.Snapshot{}, &ClientError{Endpoint: accountSnapshotPath, Err: err}
	}
	var vo struct {
		UpdateTime cryptofolio.Timestamp `json:"updateTime"`
		Data       struct {
			Balances []cryptofolio.Balance `json:"balances"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &vo); err != nil {
		return cryptofolio.Snapshot{}, &ClientError{Endpoint: accountSnapshotPath, Err: fmt.Errorf("unmarshal snapshot: %w", err)}
	}
	return cryptofolio.Snapshot{UpdateTime: vo.UpdateTime, Balances: vo.Data.Balances}, nil
}

// FetchPrice returns the latest price of a symbol. This endpoint is public and not signed.
func (c *Client) FetchPrice(ctx context.Context, symbol string) (cryptofolio.Money, error) {
	var ticker struct {
		Symbol string            `json:"symbol"`
		Price  cryptofolio.Money `json:"price"`
	}
	if err := c.get(ctx, tickerPricePath, Params{{"symbol", symbol}}, false, &ticker); err != nil {
		return cryptofolio.Money{}, err
	}
	return ticker.Price, nil
}

var _ cryptofolio.Exchange = (*Client)(nil)
