package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key, Value string
}

// Params are query parameters kept in insertion order.
//
// The exchange checks the signature against the exact query string, so the
// order in which parameters are added is the order in which they are sent.
type Params []Param

// Add returns params with key=value appended.
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode returns the canonical query string: key=value pairs joined by '&',
// in insertion order, without any escaping.
func (p Params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(kv.Key)
		b.WriteByte('=')
		b.WriteString(kv.Value)
	}
	return b.String()
}

// sign returns the upper-case hex HMAC-SHA256 of query keyed by secret.
func sign(query, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(query))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}
