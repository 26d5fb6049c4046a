package matching

import (
	"fmt"

	"code.ospreymarkets.io/osprey/types"
)

// PriceLevel holds the entries resting at one price, in arrival order.
// Entries are only ever appended at the tail, which is what gives resting
// interest its time priority.
type PriceLevel struct {
	price   types.Price
	entries []*types.Tradable
}

func NewPriceLevel(price types.Price) *PriceLevel {
	return &PriceLevel{
		price:   price,
		entries: []*types.Tradable{},
	}
}

func (l *PriceLevel) addEntry(t *types.Tradable) {
	l.entries = append(l.entries, t)
}

func (l *PriceLevel) removeEntry(t *types.Tradable) bool {
	for i, e := range l.entries {
		if e == t {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (l *PriceLevel) volume() uint64 {
	var v uint64
	for _, t := range l.entries {
		v += t.RemainingVolume()
	}
	return v
}

// uncross walks the level in arrival order, trading the aggressor against
// each resting entry until one of them is exhausted. The trade price is the
// resting entry's price, unless that is the market marker in which case the
// aggressor's limit price is used. Every step produces a record per
// counterparty; fully traded entries are archived and removed.
func (l *PriceLevel) uncross(agg *types.Tradable, fills *fillSet, book *OrderBook) {
	var tradedOut []*types.Tradable

	for _, r := range l.entries {
		if agg.RemainingVolume() == 0 {
			break
		}

		tradePrice := r.Price()
		if tradePrice.IsMarket() {
			tradePrice = agg.Price()
		}

		if agg.RemainingVolume() >= r.RemainingVolume() {
			// full fill of the resting entry
			size := r.RemainingVolume()
			fills.add(fillRecord{
				user: r.User(), product: r.Product(), price: tradePrice,
				volume: size, details: "leaving 0", side: r.Side(), id: r.ID(),
			})
			fills.add(fillRecord{
				user: agg.User(), product: agg.Product(), price: tradePrice,
				volume:  size,
				details: fmt.Sprintf("leaving %d", agg.RemainingVolume()-size),
				side:    agg.Side(), id: agg.ID(),
			})
			book.mustSetRemaining(agg, agg.RemainingVolume()-size)
			book.mustSetRemaining(r, 0)
			book.archive(r)
			tradedOut = append(tradedOut, r)
		} else {
			// partial fill, the aggressor is exhausted
			size := agg.RemainingVolume()
			remainder := r.RemainingVolume() - size
			fills.add(fillRecord{
				user: r.User(), product: r.Product(), price: tradePrice,
				volume:  size,
				details: fmt.Sprintf("leaving %d", remainder),
				side:    r.Side(), id: r.ID(),
			})
			fills.add(fillRecord{
				user: agg.User(), product: agg.Product(), price: tradePrice,
				volume: size, details: "leaving 0", side: agg.Side(), id: agg.ID(),
			})
			book.mustSetRemaining(r, remainder)
			book.mustSetRemaining(agg, 0)
			break
		}
	}

	// a fully traded aggressor leaves the active book for good
	if agg.RemainingVolume() == 0 {
		book.archive(agg)
	}

	for _, r := range tradedOut {
		l.removeEntry(r)
	}
}
