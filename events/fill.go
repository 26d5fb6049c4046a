package events

import (
	"context"
	"fmt"

	"code.ospreymarkets.io/osprey/types"
)

// Fill reports one party's side of a single matching step. Fills are always
// produced in pairs, one per counterparty.
type Fill struct {
	*Base
	user    string
	product string
	price   types.Price
	volume  uint64
	details string
	side    types.Side
	id      types.TradableID
}

func NewFillEvent(ctx context.Context, user, product string, price types.Price, volume uint64, details string, side types.Side, id types.TradableID) (*Fill, error) {
	if err := validateParty(user, product); err != nil {
		return nil, err
	}
	return &Fill{
		Base:    newBase(ctx, FillEvent),
		user:    user,
		product: product,
		price:   price,
		volume:  volume,
		details: details,
		side:    side,
		id:      id,
	}, nil
}

func (f *Fill) User() string         { return f.user }
func (f *Fill) Product() string      { return f.product }
func (f *Fill) Price() types.Price   { return f.price }
func (f *Fill) Volume() uint64       { return f.volume }
func (f *Fill) Details() string      { return f.details }
func (f *Fill) Side() types.Side     { return f.side }
func (f *Fill) ID() types.TradableID { return f.id }

func (f *Fill) String() string {
	return fmt.Sprintf("User: %s, Product: %s, Fill Price: %s, Fill Volume: %d, Details: %s, Side: %s",
		f.user, f.product, f.price, f.volume, f.details, f.side)
}
