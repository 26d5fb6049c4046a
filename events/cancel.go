package events

import (
	"context"
	"fmt"

	"code.ospreymarkets.io/osprey/types"
)

// Cancel reports one cancelled entry, including quote leg cancels which
// carry a distinguishing detail text.
type Cancel struct {
	*Base
	user    string
	product string
	price   types.Price
	volume  uint64
	details string
	side    types.Side
	id      types.TradableID
}

func NewCancelEvent(ctx context.Context, user, product string, price types.Price, volume uint64, details string, side types.Side, id types.TradableID) (*Cancel, error) {
	if err := validateParty(user, product); err != nil {
		return nil, err
	}
	return &Cancel{
		Base:    newBase(ctx, CancelEvent),
		user:    user,
		product: product,
		price:   price,
		volume:  volume,
		details: details,
		side:    side,
		id:      id,
	}, nil
}

func (c *Cancel) User() string         { return c.user }
func (c *Cancel) Product() string      { return c.product }
func (c *Cancel) Price() types.Price   { return c.price }
func (c *Cancel) Volume() uint64       { return c.volume }
func (c *Cancel) Details() string      { return c.details }
func (c *Cancel) Side() types.Side     { return c.side }
func (c *Cancel) ID() types.TradableID { return c.id }

func (c *Cancel) String() string {
	return fmt.Sprintf("User: %s, Product: %s, Price: %s, Volume: %d, Details: %s, Side: %s, Id: %s",
		c.user, c.product, c.price, c.volume, c.details, c.side, c.id)
}
