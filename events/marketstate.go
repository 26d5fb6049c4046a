package events

import (
	"context"
	"fmt"

	"code.ospreymarkets.io/osprey/types"
)

// MarketState announces a successful market state transition.
type MarketState struct {
	*Base
	state types.MarketState
}

func NewMarketStateEvent(ctx context.Context, state types.MarketState) *MarketState {
	return &MarketState{
		Base:  newBase(ctx, MarketStateEvent),
		state: state,
	}
}

func (m *MarketState) State() types.MarketState {
	return m.state
}

func (m *MarketState) String() string {
	return fmt.Sprintf("Market is now %s", m.state)
}
