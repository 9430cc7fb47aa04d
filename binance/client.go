// Package binance implements the cryptofolio.Exchange on top of the Binance spot REST API.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Binance spot API endpoint.
const DefaultBaseURL = "https://api3.binance.com"

// Client is an authenticated Binance spot client.
type Client struct {
	apiKey     string
	secretKey  string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
	verbose    bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API endpoint.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

// WithRateLimit limits the client to perSecond requests per second.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1) }
}

// WithClock sets the clock used to timestamp signed requests.
func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

// WithVerbose logs every request and response status.
func WithVerbose(v bool) Option { return func(c *Client) { c.verbose = v } }

// New creates a client authenticated with apiKey and secretKey.
func New(apiKey, secretKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		secretKey:  secretKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 1),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get sends a GET request to path and decodes the JSON response into out.
//
// Signed requests get a timestamp and a signature appended to params.
// Every failure is returned as a *ClientError.
func (c *Client) get(ctx context.Context, path string, params Params, signed bool, out any) error {
	if signed {
		params = params.Add("timestamp", fmt.Sprint(c.now().UnixMilli()))
		params = params.Add("signature", sign(params.Encode(), c.secretKey))
	}
	addr := c.baseURL + path
	if len(params) > 0 {
		addr += "?" + params.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Endpoint: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return &ClientError{Endpoint: path, Err: err}
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ClientError{Endpoint: path, StatusCode: resp.StatusCode, Err: err}
	}
	if c.verbose {
		log.Printf("GET %v%v %v", req.URL.Host, req.URL.Path, resp.Status)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		cerr := &ClientError{Endpoint: path, StatusCode: resp.StatusCode, Msg: resp.Status}
		var apiErr struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Msg != "" {
			cerr.Code, cerr.Msg = apiErr.Code, apiErr.Msg
		}
		return cerr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ClientError{Endpoint: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return nil
}
