package cryptofolio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TimestampFormat is the human-readable layout used for time fields in persisted files.
const TimestampFormat = time.ANSIC

// Timestamp is a point in time as reported by the exchange.
//
// The exchange sends epoch milliseconds, files hold the human-readable local
// datetime. Decoding accepts both, encoding always produces the latter, so
// the conversion happens once, the first time an order is persisted.
type Timestamp struct {
	time.Time
}

// Millis returns a Timestamp from epoch milliseconds.
func Millis(ms int64) Timestamp {
	return Timestamp{time.UnixMilli(ms)}
}

func (t Timestamp) Before(u Timestamp) bool { return t.Time.Before(u.Time) }

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(TimestampFormat)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if b[0] != '"' {
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid epoch milliseconds %s: %w", b, err)
		}
		*t = Millis(ms)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	v, err := time.ParseInLocation(TimestampFormat, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	*t = Timestamp{v}
	return nil
}
