package matching

import (
	"code.ospreymarkets.io/osprey/types"
)

// fillRecord is one party's side of a matching step before it is turned
// into a fill event.
type fillRecord struct {
	user    string
	product string
	price   types.Price
	volume  uint64
	details string
	side    types.Side
	id      types.TradableID
}

type fillKey struct {
	user  string
	id    types.TradableID
	price types.Price
}

// fillSet accumulates the fill records of one matching call. Records for
// the same party, entry and trade price are merged: volumes sum, the detail
// text is overwritten by the latest step. Insertion order is preserved and
// the most recently executed record is tracked for last sale reporting.
type fillSet struct {
	byKey map[fillKey]*fillRecord
	order []*fillRecord
	last  *fillRecord
}

func newFillSet() *fillSet {
	return &fillSet{
		byKey: map[fillKey]*fillRecord{},
	}
}

func (f *fillSet) add(rec fillRecord) {
	k := fillKey{user: rec.user, id: rec.id, price: rec.price}
	if existing, ok := f.byKey[k]; ok {
		existing.volume += rec.volume
		existing.details = rec.details
		f.last = existing
		return
	}
	r := &rec
	f.byKey[k] = r
	f.order = append(f.order, r)
	f.last = r
}

// merge folds another set into this one, preserving the other set's
// execution order.
func (f *fillSet) merge(other *fillSet) {
	for _, rec := range other.order {
		f.add(*rec)
	}
}

func (f *fillSet) empty() bool {
	return len(f.order) == 0
}

// lastExecuted returns the record of the most recent matching step, the
// price of which is the last sale price of the pass.
func (f *fillSet) lastExecuted() *fillRecord {
	return f.last
}
