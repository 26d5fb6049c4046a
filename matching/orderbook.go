package matching

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"code.ospreymarkets.io/osprey/events"
	"code.ospreymarkets.io/osprey/logging"
	"code.ospreymarkets.io/osprey/metrics"
	"code.ospreymarkets.io/osprey/types"

	"github.com/pkg/errors"
)

// Broker sends events out to the interested parties.
type Broker interface {
	Send(event events.Event)
}

// OrderBook pairs the buy and sell side for one product, owns the archive
// of entries that have left the active book, and is the single critical
// section for everything that mutates the product's state: submissions,
// cancels, the opening auction sweep and the close sweep.
type OrderBook struct {
	log *logging.Logger
	cfg Config

	symbol string
	mu     sync.Mutex
	buy    *BookSide
	sell   *BookSide

	// entries that were fully traded or cancelled, kept for "too late to
	// cancel" lookups
	archived   map[types.Price][]*types.Tradable
	liveQuotes map[string]struct{}

	// cached summary of the last published market data, publishing is
	// suppressed while it does not change
	lastMarketData string

	seq    uint64
	table  *types.PriceTable
	broker Broker
}

func NewOrderBook(log *logging.Logger, cfg Config, symbol string, table *types.PriceTable, broker Broker) *OrderBook {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	b := &OrderBook{
		log:        log,
		cfg:        cfg,
		symbol:     symbol,
		archived:   map[types.Price][]*types.Tradable{},
		liveQuotes: map[string]struct{}{},
		table:      table,
		broker:     broker,
	}
	b.buy = newBookSide(log, b, types.SideBuy)
	b.sell = newBookSide(log, b, types.SideSell)
	return b
}

func (b *OrderBook) Symbol() string {
	return b.symbol
}

// NextID mints the next tradable identifier for this product.
func (b *OrderBook) NextID() types.TradableID {
	return types.TradableID{
		Product: b.symbol,
		Seq:     atomic.AddUint64(&b.seq, 1),
	}
}

func (b *OrderBook) sideFor(side types.Side) *BookSide {
	if side == types.SideBuy {
		return b.buy
	}
	return b.sell
}

// SubmitOrder books or matches an incoming order depending on the market
// state: during pre-open interest accumulates for the opening auction,
// otherwise the order is matched against the opposite side first and any
// remainder rests (a market priced remainder is cancelled, it cannot rest
// at no price).
func (b *OrderBook) SubmitOrder(ctx context.Context, state types.MarketState, t *types.Tradable) {
	defer metrics.EngineTimeCounterAdd(b.symbol, "matching", "OrderBook.SubmitOrder")()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.submit(ctx, state, t)
	b.refreshMarketData(ctx)
}

// SubmitQuote books or matches both legs of a quote. A new quote from a
// user with a live quote replaces it: both prior legs are cancelled first.
func (b *OrderBook) SubmitQuote(ctx context.Context, state types.MarketState, q *types.Quote) error {
	defer metrics.EngineTimeCounterAdd(b.symbol, "matching", "OrderBook.SubmitQuote")()

	buyLeg, sellLeg := q.Leg(types.SideBuy), q.Leg(types.SideSell)
	if buyLeg.Price().IsMarket() || sellLeg.Price().IsMarket() {
		return errors.Wrap(types.ErrInvalidQuote, "quote legs must carry limit prices")
	}
	if buyLeg.Price().Amount() <= 0 || sellLeg.Price().Amount() <= 0 {
		return errors.Wrap(types.ErrInvalidQuote, "quote prices must be positive")
	}
	if !sellLeg.Price().GreaterThan(buyLeg.Price()) {
		return errors.Wrap(types.ErrInvalidQuote, "sell price must exceed buy price")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.liveQuotes[q.User()]; ok {
		b.buy.CancelQuote(ctx, q.User())
		b.sell.CancelQuote(ctx, q.User())
		b.refreshMarketData(ctx)
	}

	b.submit(ctx, state, buyLeg)
	b.submit(ctx, state, sellLeg)
	b.liveQuotes[q.User()] = struct{}{}
	b.refreshMarketData(ctx)
	return nil
}

// CancelOrder cancels a resting order by id on the named side. When the
// order is not resting any more the archive decides: an archived entry
// yields a "too late to cancel" event, an unknown one an error.
func (b *OrderBook) CancelOrder(ctx context.Context, side types.Side, id types.TradableID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sideFor(side).CancelOrder(ctx, id) {
		b.refreshMarketData(ctx)
		return nil
	}
	if b.tooLateToCancel(ctx, id) {
		return nil
	}
	return types.ErrOrderNotFound
}

// CancelQuote cancels the user's quote legs on both sides. Cancelling a
// user with no live quote is a no-op.
func (b *OrderBook) CancelQuote(ctx context.Context, user string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buy.CancelQuote(ctx, user)
	b.sell.CancelQuote(ctx, user)
	delete(b.liveQuotes, user)
	b.refreshMarketData(ctx)
}

// OpenAuction resolves the interest accumulated during pre-open: while the
// book is crossed, every entry at the best buy price trades against the
// sell side in arrival order, one last sale per pass.
func (b *OrderBook) OpenAuction(ctx context.Context) {
	defer metrics.EngineTimeCounterAdd(b.symbol, "matching", "OrderBook.OpenAuction")()

	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		if b.buy.isEmpty() || b.sell.isEmpty() {
			return
		}
		buyTop, sellTop := b.buy.TopOfBookPrice(), b.sell.TopOfBookPrice()
		if !(buyTop.GreaterOrEqual(sellTop) || buyTop.IsMarket() || sellTop.IsMarket()) {
			return
		}

		entries := append([]*types.Tradable{}, b.buy.EntriesAtPrice(buyTop)...)
		passFills := newFillSet()
		var passVolume uint64
		for _, t := range entries {
			before := t.RemainingVolume()
			passFills.merge(b.sell.matchAgainst(ctx, t))
			passVolume += before - t.RemainingVolume()
			if t.RemainingVolume() == 0 {
				b.buy.removeEntry(t)
			}
		}

		b.refreshMarketData(ctx)
		if passFills.empty() || passVolume == 0 {
			return
		}
		last := passFills.lastExecuted()
		b.broker.Send(events.NewLastSaleEvent(ctx, b.symbol, last.price, passVolume))
	}
}

// CloseMarket cancels every resting entry on both sides.
func (b *OrderBook) CloseMarket(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buy.CancelAll(ctx)
	b.sell.CancelAll(ctx)
	b.liveQuotes = map[string]struct{}{}
	b.refreshMarketData(ctx)
}

// HasRestingInterest reports whether either side has booked entries.
func (b *OrderBook) HasRestingInterest() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.buy.isEmpty() || !b.sell.isEmpty()
}

// MarketData snapshots the current top of book on both sides.
func (b *OrderBook) MarketData() types.MarketData {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.marketData()
}

// BookDepth lists price and aggregate volume per level, best first on each
// side.
func (b *OrderBook) BookDepth() types.BookDepth {
	b.mu.Lock()
	defer b.mu.Unlock()
	return types.BookDepth{
		Buy:  b.buy.depth(),
		Sell: b.sell.depth(),
	}
}

// OrdersWithRemainingQty snapshots the user's resting plain orders on both
// sides. Quote legs are not reported here.
func (b *OrderBook) OrdersWithRemainingQty(user string) []types.TradableSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.buy.ordersWithRemainingQty(user)
	return append(out, b.sell.ordersWithRemainingQty(user)...)
}

// submit runs the common booking path for orders and quote legs. The
// caller holds the book lock.
func (b *OrderBook) submit(ctx context.Context, state types.MarketState, t *types.Tradable) {
	if state == types.MarketPreOpen {
		// interest accumulates to be resolved by the opening auction
		b.sideFor(t.Side()).add(t)
		return
	}

	fills := b.sideFor(t.Side().Opposite()).matchAgainst(ctx, t)
	if !fills.empty() {
		b.refreshMarketData(ctx)
		traded := t.OriginalVolume() - t.RemainingVolume()
		last := fills.lastExecuted()
		b.broker.Send(events.NewLastSaleEvent(ctx, b.symbol, last.price, traded))
	}

	if t.RemainingVolume() > 0 {
		if t.Price().IsMarket() {
			// no opposite liquidity left, a market order cannot rest
			b.sendCancel(ctx, t.User(), t.Price(), t.RemainingVolume(), "Cancelled", t.Side(), t.ID())
			b.archive(t)
			return
		}
		b.sideFor(t.Side()).add(t)
	}
}

// archive moves an entry that left the active book into the old entries
// map, folding whatever volume remained into its cancelled volume.
func (b *OrderBook) archive(t *types.Tradable) {
	remaining := t.RemainingVolume()
	b.mustSetRemaining(t, 0)
	if err := t.SetCancelledVolume(remaining); err != nil {
		b.log.Panic("archive broke the volume invariant",
			logging.String("id", t.ID().String()),
			logging.Error(err))
	}
	b.archived[t.Price()] = append(b.archived[t.Price()], t)
}

// tooLateToCancel emits the post-hoc cancel notification for an entry that
// already left the book, reporting whether the id was found in the archive.
func (b *OrderBook) tooLateToCancel(ctx context.Context, id types.TradableID) bool {
	for _, list := range b.archived {
		for _, t := range list {
			if t.ID() == id {
				b.sendCancel(ctx, t.User(), t.Price(), t.CancelledVolume(),
					"Too late to cancel.", t.Side(), t.ID())
				return true
			}
		}
	}
	return false
}

func (b *OrderBook) marketData() types.MarketData {
	return types.MarketData{
		Product:    b.symbol,
		BuyPrice:   b.buy.TopOfBookPrice(),
		BuyVolume:  b.buy.TopOfBookVolume(),
		SellPrice:  b.sell.TopOfBookPrice(),
		SellVolume: b.sell.TopOfBookVolume(),
	}
}

// refreshMarketData publishes the top of book summary, but only when it
// changed since the last publication.
func (b *OrderBook) refreshMarketData(ctx context.Context) {
	md := b.marketData()
	summary := fmt.Sprintf("%s%d%s%d", md.BuyPrice, md.BuyVolume, md.SellPrice, md.SellVolume)
	if summary == b.lastMarketData {
		return
	}
	b.broker.Send(events.NewMarketDataEvent(ctx, md))
	b.lastMarketData = summary
}

func (b *OrderBook) sendFills(ctx context.Context, fills *fillSet) {
	for _, rec := range fills.order {
		evt, err := events.NewFillEvent(ctx, rec.user, rec.product, rec.price,
			rec.volume, rec.details, rec.side, rec.id)
		if err != nil {
			b.log.Panic("built an invalid fill event",
				logging.String("id", rec.id.String()),
				logging.Error(err))
		}
		b.broker.Send(evt)
		metrics.TradeCounterInc(rec.product)
	}
}

func (b *OrderBook) sendCancel(ctx context.Context, user string, price types.Price, volume uint64, details string, side types.Side, id types.TradableID) {
	evt, err := events.NewCancelEvent(ctx, user, b.symbol, price, volume, details, side, id)
	if err != nil {
		b.log.Panic("built an invalid cancel event",
			logging.String("id", id.String()),
			logging.Error(err))
	}
	b.broker.Send(evt)
}

func (b *OrderBook) mustSetRemaining(t *types.Tradable, v uint64) {
	if err := t.SetRemainingVolume(v); err != nil {
		b.log.Panic("matching broke the volume invariant",
			logging.String("id", t.ID().String()),
			logging.Error(err))
	}
}
