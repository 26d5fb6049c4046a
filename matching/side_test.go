package matching

import (
	"testing"

	"code.ospreymarkets.io/osprey/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestSide(t *testing.T, side types.Side) (*BookSide, *testBook) {
	t.Helper()
	tb := getTestBook(t, "TGT")
	if side == types.SideBuy {
		return tb.buy, tb
	}
	return tb.sell, tb
}

func newEntry(t *testing.T, tb *testBook, user string, side types.Side, price types.Price, volume uint64) *types.Tradable {
	t.Helper()
	o, err := types.NewOrder(tb.NextID(), user, "TGT", price, volume, side)
	require.NoError(t, err)
	return o
}

func TestGetPriceLevelReturnsExistingLevel(t *testing.T) {
	side, tb := getTestSide(t, types.SideSell)
	for _, amount := range []int64{100, 103, 102, 101} {
		side.getPriceLevel(tb.table.Limit(amount))
	}
	assert.Len(t, side.levels, 4)
	side.getPriceLevel(tb.table.Limit(102))
	assert.Len(t, side.levels, 4)
}

func TestSellSideLevelsAscendBuySideLevelsDescend(t *testing.T) {
	sell, tb := getTestSide(t, types.SideSell)
	for _, amount := range []int64{103, 100, 102, 101} {
		sell.getPriceLevel(tb.table.Limit(amount))
	}
	for i, want := range []int64{100, 101, 102, 103} {
		assert.EqualValues(t, want, sell.levels[i].price.Amount())
	}

	buy, tb2 := getTestSide(t, types.SideBuy)
	for _, amount := range []int64{100, 103, 101, 102} {
		buy.getPriceLevel(tb2.table.Limit(amount))
	}
	for i, want := range []int64{103, 102, 101, 100} {
		assert.EqualValues(t, want, buy.levels[i].price.Amount())
	}
}

func TestTopOfBook(t *testing.T) {
	side, tb := getTestSide(t, types.SideBuy)
	assert.Equal(t, types.Price{}, side.TopOfBookPrice())
	assert.EqualValues(t, 0, side.TopOfBookVolume())

	side.add(newEntry(t, tb, "UA1", types.SideBuy, tb.table.Limit(1000), 100))
	side.add(newEntry(t, tb, "UA2", types.SideBuy, tb.table.Limit(1000), 50))
	side.add(newEntry(t, tb, "UA3", types.SideBuy, tb.table.Limit(995), 200))

	assert.EqualValues(t, 1000, side.TopOfBookPrice().Amount())
	assert.EqualValues(t, 150, side.TopOfBookVolume())
	assert.Len(t, side.EntriesAtTopOfBook(), 2)
}

func TestEntriesAtPricePreserveArrivalOrder(t *testing.T) {
	side, tb := getTestSide(t, types.SideSell)
	first := newEntry(t, tb, "UA1", types.SideSell, tb.table.Limit(1000), 10)
	second := newEntry(t, tb, "UA2", types.SideSell, tb.table.Limit(1000), 20)
	side.add(first)
	side.add(second)

	entries := side.EntriesAtPrice(tb.table.Limit(1000))
	require.Len(t, entries, 2)
	assert.Same(t, first, entries[0])
	assert.Same(t, second, entries[1])
	assert.Nil(t, side.EntriesAtPrice(tb.table.Limit(999)))
}

func TestRemoveEntryDropsEmptyLevel(t *testing.T) {
	side, tb := getTestSide(t, types.SideSell)
	a := newEntry(t, tb, "UA1", types.SideSell, tb.table.Limit(1000), 10)
	b := newEntry(t, tb, "UA2", types.SideSell, tb.table.Limit(1010), 10)
	side.add(a)
	side.add(b)
	require.Len(t, side.levels, 2)

	assert.True(t, side.removeEntry(b))
	assert.Len(t, side.levels, 1)
	assert.False(t, side.removeEntry(b))
}

func TestAddMarketPricedEntryPanics(t *testing.T) {
	side, tb := getTestSide(t, types.SideBuy)
	assert.Panics(t, func() {
		side.add(newEntry(t, tb, "UA1", types.SideBuy, tb.table.Market(), 10))
	})
}

func TestCancelOrderEmitsEventAndArchives(t *testing.T) {
	side, tb := getTestSide(t, types.SideBuy)
	o := newEntry(t, tb, "UA1", types.SideBuy, tb.table.Limit(1000), 100)
	side.add(o)

	assert.True(t, side.CancelOrder(tb.ctx, o.ID()))
	assert.True(t, side.isEmpty())

	cancels := tb.broker.cancels()
	require.Len(t, cancels, 1)
	assert.Equal(t, "UA1", cancels[0].User())
	assert.EqualValues(t, 100, cancels[0].Volume())
	assert.Equal(t, o.ID(), cancels[0].ID())

	assert.EqualValues(t, 0, o.RemainingVolume())
	assert.EqualValues(t, 100, o.CancelledVolume())
}

func TestCancelOrderUnknownID(t *testing.T) {
	side, tb := getTestSide(t, types.SideBuy)
	assert.False(t, side.CancelOrder(tb.ctx, types.TradableID{Product: "TGT", Seq: 99}))
	assert.Empty(t, tb.broker.cancels())
}

func TestCancelQuoteOnlyHitsQuoteLegs(t *testing.T) {
	side, tb := getTestSide(t, types.SideBuy)
	order := newEntry(t, tb, "MM1", types.SideBuy, tb.table.Limit(1000), 100)
	leg := types.NewQuoteSide(tb.NextID(), "MM1", "TGT", tb.table.Limit(995), 50, types.SideBuy)
	side.add(order)
	side.add(leg)

	assert.True(t, side.CancelQuote(tb.ctx, "MM1"))
	assert.False(t, side.CancelQuote(tb.ctx, "MM1"))

	cancels := tb.broker.cancels()
	require.Len(t, cancels, 1)
	assert.Equal(t, "Quote BUY-Side Cancelled", cancels[0].Details())

	// the plain order is untouched
	assert.EqualValues(t, 100, side.TopOfBookVolume())
}

func TestDepthAggregatesPerLevel(t *testing.T) {
	side, tb := getTestSide(t, types.SideSell)
	side.add(newEntry(t, tb, "UA1", types.SideSell, tb.table.Limit(1000), 10))
	side.add(newEntry(t, tb, "UA2", types.SideSell, tb.table.Limit(1000), 15))
	side.add(newEntry(t, tb, "UA3", types.SideSell, tb.table.Limit(1010), 20))

	depth := side.depth()
	require.Len(t, depth, 2)
	assert.EqualValues(t, 1000, depth[0].Price.Amount())
	assert.EqualValues(t, 25, depth[0].Volume)
	assert.EqualValues(t, 1010, depth[1].Price.Amount())
	assert.EqualValues(t, 20, depth[1].Volume)
}
