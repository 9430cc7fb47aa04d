package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "test_api_key"
	testSecret = "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
)

var testNow = time.UnixMilli(1499827319559)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(testKey, testSecret,
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000),
		WithClock(func() time.Time { return testNow }),
	)
}

func TestParamsEncode(t *testing.T) {
	p := Params{{"symbol", "BTCUSDT"}, {"type", "SPOT"}}.Add("timestamp", "1")
	// insertion order is kept and nothing is escaped.
	assert.Equal(t, "symbol=BTCUSDT&type=SPOT&timestamp=1", p.Encode())
	assert.Equal(t, "a=b c&d=é", Params{{"a", "b c"}, {"d", "é"}}.Encode())
	assert.Equal(t, "", Params{}.Encode())
}

func TestSign(t *testing.T) {
	query := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"
	got := sign(query, testSecret)
	assert.Equal(t, "C8DB56825AE71D6D79447849E617115F4A920FA2ACDCAB2B053C4B2838BD6B71", got)
}

func TestFetchOrders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, allOrdersPath, r.URL.Path)
		assert.Equal(t, testKey, r.Header.Get("X-MBX-APIKEY"))

		query := r.URL.RawQuery
		unsigned, signature, found := strings.Cut(query, "&signature=")
		require.True(t, found, "query %q is not signed", query)
		assert.Equal(t, "symbol=BTCUSDT&timestamp=1499827319559", unsigned)
		assert.Equal(t, sign(unsigned, testSecret), signature)

		w.Write([]byte(`[
			{"symbol":"BTCUSDT","orderId":2,"orderListId":-1,"clientOrderId":"b","price":"0.00000000",
			 "origQty":"0.00100000","executedQty":"0.00100000","cummulativeQuoteQty":"30.00000000",
			 "status":"FILLED","timeInForce":"GTC","type":"MARKET","side":"BUY","stopPrice":"0.00000000",
			 "icebergQty":"0.00000000","time":1600000000000,"updateTime":1600000000500,"isWorking":true,
			 "origQuoteOrderQty":"0.00000000"},
			{"symbol":"BTCUSDT","orderId":3,"status":"CANCELED","side":"SELL","time":1600000001000}
		]`))
	})

	orders, err := c.FetchOrders(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, orders, 2)

	o := orders[0]
	assert.Equal(t, int64(2), o.OrderID)
	assert.Equal(t, cryptofolio.Buy, o.Side)
	assert.Equal(t, cryptofolio.Filled, o.Status)
	assert.True(t, o.ExecutedQty.Equal(cryptofolio.Q(0.001)), "executedQty = %v", o.ExecutedQty)
	assert.True(t, o.CummulativeQuoteQty.Equal(cryptofolio.M(30, "")), "cummulativeQuoteQty = %v", o.CummulativeQuoteQty)
	assert.Equal(t, int64(1600000000000), o.Time.UnixMilli())
	assert.Equal(t, cryptofolio.Status("CANCELED"), orders[1].Status)
}

func TestFetchAccountSnapshot(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, accountSnapshotPath, r.URL.Path)
		assert.True(t, strings.HasPrefix(r.URL.RawQuery, "type=SPOT&timestamp="), "query = %q", r.URL.RawQuery)
		w.Write([]byte(`{"code":200,"msg":"","snapshotVos":[
			{"type":"spot","updateTime":1576195199000,"data":{"totalAssetOfBtc":"0.1","balances":[
				{"asset":"BTC","free":"1.00000000","locked":"0.00000000"}]}},
			{"type":"spot","updateTime":1576281599000,"data":{"totalAssetOfBtc":"0.2","balances":[
				{"asset":"BTC","free":"0.09905021","locked":"0.00000000"},
				{"asset":"USDT","free":"1.89109409","locked":"0.50000000"}]}}
		]}`))
	})

	snapshot, err := c.FetchAccountSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1576281599000), snapshot.UpdateTime.UnixMilli())
	require.Len(t, snapshot.Balances, 2)
	assert.Equal(t, "BTC", snapshot.Balances[0].Asset)
	assert.True(t, snapshot.Balances[0].Free.Equal(cryptofolio.Q(0.09905021)))
	assert.Equal(t, "USDT", snapshot.Balances[1].Asset)
	assert.True(t, snapshot.Balances[1].Locked.Equal(cryptofolio.Q(0.5)))
}

func TestFetchAccountSnapshot_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"msg":"","snapshotVos":[]}`))
	})
	_, err := c.FetchAccountSnapshot(context.Background())
	var cerr *ClientError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, accountSnapshotPath, cerr.Endpoint)
}

func TestFetchPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tickerPricePath, r.URL.Path)
		// prices are public, the request is not signed.
		assert.Equal(t, "symbol=ETHUSDT", r.URL.RawQuery)
		w.Write([]byte(`{"symbol":"ETHUSDT","price":"2543.21000000"}`))
	})

	price, err := c.FetchPrice(context.Background(), "ETHUSDT")
	require.NoError(t, err)
	assert.True(t, price.Equal(cryptofolio.M(2543.21, "")), "price = %v", price)
}

func TestClientError(t *testing.T) {
	t.Run("exchange error payload", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
		})
		_, err := c.FetchOrders(context.Background(), "NOPEUSDT")
		var cerr *ClientError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, http.StatusBadRequest, cerr.StatusCode)
		assert.Equal(t, -1121, cerr.Code)
		assert.Equal(t, "Invalid symbol.", cerr.Msg)
	})

	t.Run("non 2xx without payload", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := c.FetchPrice(context.Background(), "BTCUSDT")
		var cerr *ClientError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, http.StatusBadGateway, cerr.StatusCode)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()
		c := New(testKey, testSecret, WithBaseURL(addr))
		_, err := c.FetchAccountSnapshot(context.Background())
		var cerr *ClientError
		require.ErrorAs(t, err, &cerr)
		assert.Zero(t, cerr.StatusCode)
		assert.NotNil(t, errors.Unwrap(err))
	})

	t.Run("canceled context", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.FetchPrice(ctx, "BTCUSDT")
		var cerr *ClientError
		require.ErrorAs(t, err, &cerr)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
