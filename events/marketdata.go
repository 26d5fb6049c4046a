package events

import (
	"context"

	"code.ospreymarkets.io/osprey/types"
)

// MarketData carries a changed top of book summary for one product.
type MarketData struct {
	*Base
	md types.MarketData
}

func NewMarketDataEvent(ctx context.Context, md types.MarketData) *MarketData {
	return &MarketData{
		Base: newBase(ctx, MarketDataEvent),
		md:   md,
	}
}

func (m *MarketData) MarketData() types.MarketData {
	return m.md
}

func (m *MarketData) String() string {
	return m.md.String()
}
