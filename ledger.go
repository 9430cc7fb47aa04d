package cryptofolio

import (
	"iter"
	"slices"
	"sort"
)

// Ledger is the historical list of orders, deduplicated by order ID.
//
// A Ledger only grows: orders are merged in, never removed.
type Ledger struct {
	orders []Order
	ids    map[int64]struct{} // index of order IDs present in orders
}

// NewLedger creates a ledger holding orders, in that order. Later duplicates are ignored.
func NewLedger(orders ...Order) *Ledger {
	l := &Ledger{
		orders: make([]Order, 0, len(orders)),
		ids:    make(map[int64]struct{}, len(orders)),
	}
	l.merge(orders)
	return l
}

// Reconcile returns a new ledger made of all the existing orders followed by
// the incoming orders that are not already known, in their incoming order.
//
// existing is not modified. Reconciling the same batch twice yields the same
// ledger as reconciling it once.
func Reconcile(existing *Ledger, incoming []Order) *Ledger {
	l := NewLedger()
	if existing != nil {
		l.orders = slices.Clone(existing.orders)
		for _, o := range l.orders {
			l.ids[o.OrderID] = struct{}{}
		}
	}
	l.merge(incoming)
	return l
}

// merge appends orders whose ID is unknown and returns how many were appended.
func (l *Ledger) merge(orders []Order) (n int) {
	for _, o := range orders {
		if _, known := l.ids[o.OrderID]; known {
			continue
		}
		l.ids[o.OrderID] = struct{}{}
		l.orders = append(l.orders, o)
		n++
	}
	return n
}

// Sort sorts the ledger by order time. The sort is stable, orders at the same
// time keep their relative order.
func (l *Ledger) Sort() {
	sort.SliceStable(l.orders, func(i, j int) bool {
		return l.orders[i].Time.Before(l.orders[j].Time)
	})
}

// Len returns the number of orders.
func (l *Ledger) Len() int { return len(l.orders) }

// Has reports whether an order with this ID is in the ledger.
func (l *Ledger) Has(orderID int64) bool {
	_, ok := l.ids[orderID]
	return ok
}

// Orders returns an iterator over the orders in ledger order.
func (l *Ledger) Orders() iter.Seq[Order] {
	return slices.Values(l.orders)
}

// Symbols returns the sorted list of distinct symbols found in the ledger.
func (l *Ledger) Symbols() []string {
	set := make(map[string]struct{})
	for _, o := range l.orders {
		set[o.Symbol] = struct{}{}
	}
	symbols := make([]string, 0, len(set))
	for s := range set {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)
	return symbols
}
