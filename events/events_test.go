package events_test

import (
	"context"
	"testing"

	"code.ospreymarkets.io/osprey/events"
	"code.ospreymarkets.io/osprey/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillEventValidation(t *testing.T) {
	ctx := context.Background()
	id := types.TradableID{Product: "TGT", Seq: 1}

	_, err := events.NewFillEvent(ctx, "", "TGT", types.MarketPrice(), 10, "leaving 0", types.SideBuy, id)
	assert.ErrorIs(t, err, types.ErrInvalidMessage)

	_, err = events.NewFillEvent(ctx, "UA1", "", types.MarketPrice(), 10, "leaving 0", types.SideBuy, id)
	assert.ErrorIs(t, err, types.ErrInvalidMessage)

	f, err := events.NewFillEvent(ctx, "UA1", "TGT", types.MarketPrice(), 10, "leaving 0", types.SideBuy, id)
	require.NoError(t, err)
	assert.Equal(t, events.FillEvent, f.Type())
	assert.Equal(t, ctx, f.Context())
	assert.Equal(t, id, f.ID())
}

func TestCancelEventValidation(t *testing.T) {
	ctx := context.Background()
	id := types.TradableID{Product: "TGT", Seq: 2}

	_, err := events.NewCancelEvent(ctx, "", "TGT", types.MarketPrice(), 10, "Cancelled", types.SideSell, id)
	assert.ErrorIs(t, err, types.ErrInvalidMessage)

	c, err := events.NewCancelEvent(ctx, "UA1", "TGT", types.MarketPrice(), 10, "Cancelled", types.SideSell, id)
	require.NoError(t, err)
	assert.Equal(t, events.CancelEvent, c.Type())
	assert.Equal(t, "Cancelled", c.Details())
}

func TestTypeStrings(t *testing.T) {
	assert.Equal(t, "Fill", events.FillEvent.String())
	assert.Equal(t, "Cancel", events.CancelEvent.String())
	assert.Equal(t, "MarketData", events.MarketDataEvent.String())
	assert.Equal(t, "LastSale", events.LastSaleEvent.String())
	assert.Equal(t, "MarketState", events.MarketStateEvent.String())
	assert.Equal(t, "UNKNOWN EVENT", events.Type(99).String())
}
