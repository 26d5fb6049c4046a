package matching

import (
	"context"
	"testing"

	"code.ospreymarkets.io/osprey/events"
	"code.ospreymarkets.io/osprey/logging"
	"code.ospreymarkets.io/osprey/types"

	"github.com/stretchr/testify/require"
)

// stubBroker records everything sent through it, split out by event type
// for convenient assertions.
type stubBroker struct {
	all []events.Event
}

func (s *stubBroker) Send(event events.Event) {
	s.all = append(s.all, event)
}

func (s *stubBroker) fills() []*events.Fill {
	var out []*events.Fill
	for _, e := range s.all {
		if f, ok := e.(*events.Fill); ok {
			out = append(out, f)
		}
	}
	return out
}

func (s *stubBroker) cancels() []*events.Cancel {
	var out []*events.Cancel
	for _, e := range s.all {
		if c, ok := e.(*events.Cancel); ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *stubBroker) marketData() []*events.MarketData {
	var out []*events.MarketData
	for _, e := range s.all {
		if m, ok := e.(*events.MarketData); ok {
			out = append(out, m)
		}
	}
	return out
}

func (s *stubBroker) lastSales() []*events.LastSale {
	var out []*events.LastSale
	for _, e := range s.all {
		if l, ok := e.(*events.LastSale); ok {
			out = append(out, l)
		}
	}
	return out
}

func (s *stubBroker) reset() {
	s.all = nil
}

type testBook struct {
	*OrderBook
	broker *stubBroker
	table  *types.PriceTable
	ctx    context.Context
}

func getTestBook(t *testing.T, symbol string) *testBook {
	t.Helper()
	broker := &stubBroker{}
	table := types.NewPriceTable()
	book := NewOrderBook(logging.NewTestLogger(), NewDefaultConfig(), symbol, table, broker)
	return &testBook{
		OrderBook: book,
		broker:    broker,
		table:     table,
		ctx:       context.Background(),
	}
}

// order builds and submits a plain order in the open market, returning it.
func (tb *testBook) order(t *testing.T, user string, side types.Side, price types.Price, volume uint64) *types.Tradable {
	t.Helper()
	return tb.orderAt(t, types.MarketOpen, user, side, price, volume)
}

func (tb *testBook) orderAt(t *testing.T, state types.MarketState, user string, side types.Side, price types.Price, volume uint64) *types.Tradable {
	t.Helper()
	o, err := types.NewOrder(tb.NextID(), user, tb.Symbol(), price, volume, side)
	require.NoError(t, err)
	tb.SubmitOrder(tb.ctx, state, o)
	return o
}

func (tb *testBook) quote(t *testing.T, state types.MarketState, user string, buyPrice types.Price, buyVol uint64, sellPrice types.Price, sellVol uint64) *types.Quote {
	t.Helper()
	q, err := types.NewQuote(tb.NextID(), tb.NextID(), user, tb.Symbol(), buyPrice, buyVol, sellPrice, sellVol)
	require.NoError(t, err)
	require.NoError(t, tb.SubmitQuote(tb.ctx, state, q))
	return q
}
