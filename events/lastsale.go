package events

import (
	"context"
	"fmt"

	"code.ospreymarkets.io/osprey/types"
)

// LastSale reports the trade price and total volume of one matching pass.
type LastSale struct {
	*Base
	product string
	price   types.Price
	volume  uint64
}

func NewLastSaleEvent(ctx context.Context, product string, price types.Price, volume uint64) *LastSale {
	return &LastSale{
		Base:    newBase(ctx, LastSaleEvent),
		product: product,
		price:   price,
		volume:  volume,
	}
}

func (l *LastSale) Product() string    { return l.product }
func (l *LastSale) Price() types.Price { return l.price }
func (l *LastSale) Volume() uint64     { return l.volume }

func (l *LastSale) String() string {
	return fmt.Sprintf("Last sale %s: %d at %s", l.product, l.volume, l.price)
}
