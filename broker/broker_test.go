package broker_test

import (
	"context"
	"testing"

	"code.ospreymarkets.io/osprey/broker"
	"code.ospreymarkets.io/osprey/events"
	"code.ospreymarkets.io/osprey/logging"
	"code.ospreymarkets.io/osprey/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSub struct {
	id    int
	types []events.Type
	recv  []events.Event
}

func (s *testSub) Push(evts ...events.Event) {
	s.recv = append(s.recv, evts...)
}

func (s *testSub) Types() []events.Type {
	return s.types
}

func (s *testSub) SetID(id int) { s.id = id }
func (s *testSub) ID() int      { return s.id }

func getTestBroker() *broker.Broker {
	return broker.New(logging.NewTestLogger(), broker.NewDefaultConfig())
}

func lastSale(product string) events.Event {
	return events.NewLastSaleEvent(context.Background(), product, types.MarketPrice(), 10)
}

func marketState(state types.MarketState) events.Event {
	return events.NewMarketStateEvent(context.Background(), state)
}

func TestSendToTypedSubscriber(t *testing.T) {
	b := getTestBroker()
	sub := &testSub{types: []events.Type{events.LastSaleEvent}}
	b.Subscribe(sub)

	b.Send(lastSale("TGT"))
	b.Send(marketState(types.MarketOpen))

	require.Len(t, sub.recv, 1)
	assert.Equal(t, events.LastSaleEvent, sub.recv[0].Type())
}

func TestSendToAllSubscriber(t *testing.T) {
	b := getTestBroker()
	all := &testSub{types: []events.Type{events.All}}
	none := &testSub{}
	b.SubscribeBatch(all, none)

	b.Send(lastSale("TGT"))
	b.Send(marketState(types.MarketOpen))

	// both an explicit All subscription and an empty type list get everything
	assert.Len(t, all.recv, 2)
	assert.Len(t, none.recv, 2)
}

func TestAllSubscriberSeesTypesRegisteredLater(t *testing.T) {
	b := getTestBroker()
	all := &testSub{types: []events.Type{events.All}}
	b.Subscribe(all)

	typed := &testSub{types: []events.Type{events.MarketStateEvent}}
	b.Subscribe(typed)

	b.Send(marketState(types.MarketPreOpen))
	assert.Len(t, all.recv, 1)
	assert.Len(t, typed.recv, 1)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := getTestBroker()
	sub := &testSub{types: []events.Type{events.LastSaleEvent}}
	k := b.Subscribe(sub)

	b.Send(lastSale("TGT"))
	b.Unsubscribe(k)
	b.Send(lastSale("TGT"))

	assert.Len(t, sub.recv, 1)
}

func TestSubscriberKeysAreReused(t *testing.T) {
	b := getTestBroker()
	first := &testSub{types: []events.Type{events.LastSaleEvent}}
	k := b.Subscribe(first)
	require.Equal(t, k, first.ID())

	b.Unsubscribe(k)
	// unsubscribing twice must not corrupt the free list
	b.Unsubscribe(k)

	second := &testSub{types: []events.Type{events.LastSaleEvent}}
	assert.Equal(t, k, b.Subscribe(second))
}
