package types

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Price is an immutable fixed point monetary value held as a count of minor
// currency units (cents), or the distinguished market marker which carries
// no value at all. The zero value is a limit price of zero, which the book
// sides use as the "no top of book" sentinel.
type Price struct {
	amount int64
	market bool
}

// MarketPrice returns the non-valued "trade at best available price" marker.
func MarketPrice() Price {
	return Price{market: true}
}

// IsMarket reports whether this is the market marker.
func (p Price) IsMarket() bool {
	return p.market
}

func (p Price) IsNegative() bool {
	return !p.market && p.amount < 0
}

// Amount returns the value in minor currency units. Zero for the market
// marker.
func (p Price) Amount() int64 {
	return p.amount
}

// Add returns p + o. Either operand being the market marker is illegal.
func (p Price) Add(o Price) (Price, error) {
	if p.market || o.market {
		return Price{}, errors.Wrap(ErrInvalidPrice, "cannot add a market price")
	}
	return Price{amount: p.amount + o.amount}, nil
}

// Sub returns p - o. Either operand being the market marker is illegal.
func (p Price) Sub(o Price) (Price, error) {
	if p.market || o.market {
		return Price{}, errors.Wrap(ErrInvalidPrice, "cannot subtract using a market price")
	}
	return Price{amount: p.amount - o.amount}, nil
}

// Mul returns p scaled by a quantity. The market marker is illegal.
func (p Price) Mul(qty int64) (Price, error) {
	if p.market {
		return Price{}, errors.Wrap(ErrInvalidPrice, "cannot multiply a market price")
	}
	return Price{amount: p.amount * qty}, nil
}

// Compare yields a strict total order over finite amounts: -1, 0 or 1.
func (p Price) Compare(o Price) int {
	switch {
	case p.amount < o.amount:
		return -1
	case p.amount > o.amount:
		return 1
	default:
		return 0
	}
}

// The magnitude comparisons return false whenever either operand is the
// market marker. The reference implementation only guarded the argument and
// let a market receiver compare its zero amount; a market price never rests
// on a book so guarding both operands changes no reachable behaviour and
// removes the trap.

func (p Price) GreaterOrEqual(o Price) bool {
	return !p.market && !o.market && p.amount >= o.amount
}

func (p Price) GreaterThan(o Price) bool {
	return !p.market && !o.market && p.amount > o.amount
}

func (p Price) LessOrEqual(o Price) bool {
	return !p.market && !o.market && p.amount <= o.amount
}

func (p Price) LessThan(o Price) bool {
	return !p.market && !o.market && p.amount < o.amount
}

func (p Price) String() string {
	if p.market {
		return "MKT"
	}
	amount := p.amount
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("$%s%d.%02d", sign, amount/100, amount%100)
}

// PriceTable is the flyweight cache of previously constructed finite
// prices. It is append only, safe for concurrent use, and never
// invalidated. Equal amounts always yield equal Price values whether or not
// they hit the cache.
type PriceTable struct {
	table sync.Map // int64 -> Price
}

func NewPriceTable() *PriceTable {
	return &PriceTable{}
}

// Limit returns the finite price for the given amount of minor units.
func (t *PriceTable) Limit(amount int64) Price {
	if p, ok := t.table.Load(amount); ok {
		return p.(Price)
	}
	p, _ := t.table.LoadOrStore(amount, Price{amount: amount})
	return p.(Price)
}

// Market returns the market marker.
func (t *PriceTable) Market() Price {
	return MarketPrice()
}

// ParseLimit builds a finite price from a decimal string, normalising the
// fractional digits: "5" -> $5.00, "5.1" -> $5.10, "$1,234.56" -> $1234.56.
func (t *PriceTable) ParseLimit(value string) (Price, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return Price{}, errors.Wrap(ErrInvalidPrice, "empty price string")
	}
	switch dec := strings.Index(v, "."); {
	case dec == -1:
		v += "00"
	case dec == len(v)-1:
		v += "00"
	case dec == len(v)-2:
		v += "0"
	case dec < len(v)-3:
		return Price{}, errors.Wrapf(ErrInvalidPrice, "more than two fractional digits in %q", value)
	}
	v = strings.NewReplacer("$", "", ",", "", ".", "").Replace(v)
	amount, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return Price{}, errors.Wrapf(ErrInvalidPrice, "cannot parse %q", value)
	}
	return t.Limit(amount), nil
}
