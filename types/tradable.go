package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// TradableID identifies a tradable entry: the product it belongs to plus a
// per-product monotonic sequence number. Unlike the reference system the id
// is structured, so nothing ever needs to be re-parsed out of it.
type TradableID struct {
	Product string
	Seq     uint64
}

func (id TradableID) String() string {
	return fmt.Sprintf("%s-%d", id.Product, id.Seq)
}

func (id TradableID) IsZero() bool {
	return id.Product == "" && id.Seq == 0
}

// Tradable is one unit of resting or incoming trading interest: either an
// independently submitted order, or one leg of a two sided quote (the quote
// flag). Matching and book code only ever operate on this common shape.
type Tradable struct {
	id              TradableID
	user            string
	product         string
	price           Price
	originalVolume  uint64
	remainingVolume uint64
	cancelledVolume uint64
	side            Side
	quote           bool
}

// NewOrder creates a plain order. Volume must be strictly positive.
func NewOrder(id TradableID, user, product string, price Price, volume uint64, side Side) (*Tradable, error) {
	if volume == 0 {
		return nil, errors.Wrapf(ErrInvalidVolume, "invalid order volume: %d", volume)
	}
	return &Tradable{
		id:              id,
		user:            user,
		product:         product,
		price:           price,
		originalVolume:  volume,
		remainingVolume: volume,
		side:            side,
	}, nil
}

// NewQuoteSide creates one leg of a quote. Volume validation happens on the
// enclosing Quote.
func NewQuoteSide(id TradableID, user, product string, price Price, volume uint64, side Side) *Tradable {
	return &Tradable{
		id:              id,
		user:            user,
		product:         product,
		price:           price,
		originalVolume:  volume,
		remainingVolume: volume,
		side:            side,
		quote:           true,
	}
}

func (t *Tradable) ID() TradableID          { return t.id }
func (t *Tradable) User() string            { return t.user }
func (t *Tradable) Product() string         { return t.product }
func (t *Tradable) Price() Price            { return t.price }
func (t *Tradable) OriginalVolume() uint64  { return t.originalVolume }
func (t *Tradable) RemainingVolume() uint64 { return t.remainingVolume }
func (t *Tradable) CancelledVolume() uint64 { return t.cancelledVolume }
func (t *Tradable) Side() Side              { return t.side }
func (t *Tradable) IsQuote() bool           { return t.quote }

// SetRemainingVolume mutates the remaining volume on a fill. The remaining
// plus cancelled volume can never exceed the original volume.
func (t *Tradable) SetRemainingVolume(v uint64) error {
	if v+t.cancelledVolume > t.originalVolume {
		return errors.Wrapf(ErrInvalidVolume,
			"requested remaining volume %d plus cancelled volume %d exceeds original volume %d",
			v, t.cancelledVolume, t.originalVolume)
	}
	t.remainingVolume = v
	return nil
}

// SetCancelledVolume mutates the cancelled volume on a cancel.
func (t *Tradable) SetCancelledVolume(v uint64) error {
	if v+t.remainingVolume > t.originalVolume {
		return errors.Wrapf(ErrInvalidVolume,
			"requested cancelled volume %d plus remaining volume %d exceeds original volume %d",
			v, t.remainingVolume, t.originalVolume)
	}
	t.cancelledVolume = v
	return nil
}

func (t *Tradable) String() string {
	kind := "order"
	if t.quote {
		kind = "quote-side"
	}
	return fmt.Sprintf("%s %s: %s %d %s at %s (Original Vol: %d, CXL'd Vol: %d), ID: %s",
		t.user, kind, t.side, t.remainingVolume, t.product, t.price,
		t.originalVolume, t.cancelledVolume, t.id)
}

// Snapshot copies out all tradable fields for the query surface.
func (t *Tradable) Snapshot() TradableSnapshot {
	return TradableSnapshot{
		ID:              t.id,
		User:            t.user,
		Product:         t.product,
		Price:           t.price,
		OriginalVolume:  t.originalVolume,
		RemainingVolume: t.remainingVolume,
		CancelledVolume: t.cancelledVolume,
		Side:            t.side,
		IsQuote:         t.quote,
	}
}

// TradableSnapshot is an immutable copy of a tradable's state at one point
// in time.
type TradableSnapshot struct {
	ID              TradableID
	User            string
	Product         string
	Price           Price
	OriginalVolume  uint64
	RemainingVolume uint64
	CancelledVolume uint64
	Side            Side
	IsQuote         bool
}

// Quote bundles a buy leg and a sell leg submitted together by one user. A
// user has at most one live quote per product; resubmitting replaces it.
type Quote struct {
	user    string
	product string
	buy     *Tradable
	sell    *Tradable
}

func NewQuote(buyID, sellID TradableID, user, product string, buyPrice Price, buyVolume uint64, sellPrice Price, sellVolume uint64) (*Quote, error) {
	if buyVolume == 0 {
		return nil, errors.Wrapf(ErrInvalidVolume, "invalid buy-side volume: %d", buyVolume)
	}
	if sellVolume == 0 {
		return nil, errors.Wrapf(ErrInvalidVolume, "invalid sell-side volume: %d", sellVolume)
	}
	return &Quote{
		user:    user,
		product: product,
		buy:     NewQuoteSide(buyID, user, product, buyPrice, buyVolume, SideBuy),
		sell:    NewQuoteSide(sellID, user, product, sellPrice, sellVolume, SideSell),
	}, nil
}

func (q *Quote) User() string    { return q.user }
func (q *Quote) Product() string { return q.product }

// Leg returns the requested side of the quote.
func (q *Quote) Leg(side Side) *Tradable {
	if side == SideBuy {
		return q.buy
	}
	return q.sell
}
