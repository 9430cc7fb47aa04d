package binance

import "fmt"

// ClientError is the single kind of error returned by the client: transport
// failures, non-2xx statuses and exchange error payloads alike.
type ClientError struct {
	Endpoint   string
	StatusCode int    // 0 if no response was received
	Code       int    // exchange error code, if any
	Msg        string // exchange error message or HTTP status
	Err        error  // underlying cause, if any
}

func (e *ClientError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("binance %s: %v", e.Endpoint, e.Err)
	case e.Code != 0:
		return fmt.Sprintf("binance %s: HTTP %d: code %d: %s", e.Endpoint, e.StatusCode, e.Code, e.Msg)
	default:
		return fmt.Sprintf("binance %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Msg)
	}
}

func (e *ClientError) Unwrap() error { return e.Err }
