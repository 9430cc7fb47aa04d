package cryptofolio

import (
	"errors"
	"fmt"
)

// ErrMissingPrice is returned when a held asset has no known price.
var ErrMissingPrice = errors.New("missing price")

// ValuedBalance is a live balance valued at the latest price.
type ValuedBalance struct {
	Symbol      string   `json:"symbol"`
	BalanceQty  Quantity `json:"balanceQty"`
	Price       Money    `json:"price"`
	ActualValue Money    `json:"actualValue"`
	Locked      Quantity `json:"locked"`
}

// ValueBalances values each balance at its price in quote currency.
//
// prices are indexed by asset. The quote asset is always worth 1.
// Only the free quantity is valued, the locked quantity is reported as is.
func ValueBalances(balances []Balance, prices map[string]Money, quote string) ([]ValuedBalance, error) {
	result := make([]ValuedBalance, 0, len(balances))
	for _, b := range balances {
		price := M(1, quote)
		if b.Asset != quote {
			p, ok := prices[b.Asset]
			if !ok {
				return nil, fmt.Errorf("cannot value %s balance: %w for %s", b.Asset, ErrMissingPrice, Pair(b.Asset, quote))
			}
			price = p.In(quote)
		}
		result = append(result, ValuedBalance{
			Symbol:      b.Asset,
			BalanceQty:  b.Free,
			Price:       price,
			ActualValue: price.Mul(b.Free),
			Locked:      b.Locked,
		})
	}
	return result, nil
}
