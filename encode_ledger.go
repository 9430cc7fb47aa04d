package cryptofolio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeLedger decodes a ledger from a JSON array of orders.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	var orders []Order
	if err := json.NewDecoder(r).Decode(&orders); err != nil {
		if err == io.EOF {
			// an empty file is an empty ledger.
			return NewLedger(), nil
		}
		return nil, fmt.Errorf("cannot decode ledger: %w", err)
	}
	return NewLedger(orders...), nil
}

// MarshalJSON encodes the ledger as a JSON array of orders.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	orders := l.orders
	if orders == nil {
		orders = []Order{}
	}
	return json.Marshal(orders)
}

// UnmarshalJSON decodes the ledger from a JSON array of orders.
func (l *Ledger) UnmarshalJSON(b []byte) error {
	var orders []Order
	if err := json.Unmarshal(b, &orders); err != nil {
		return err
	}
	*l = *NewLedger(orders...)
	return nil
}

// EncodeLedger writes the ledger as an indented JSON array of orders.
func EncodeLedger(w io.Writer, l *Ledger) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(l)
}
