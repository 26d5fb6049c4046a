package execution

import (
	"context"
	"sort"
	"sync"

	"code.ospreymarkets.io/osprey/events"
	"code.ospreymarkets.io/osprey/logging"
	"code.ospreymarkets.io/osprey/matching"
	"code.ospreymarkets.io/osprey/metrics"
	"code.ospreymarkets.io/osprey/types"

	"github.com/pkg/errors"
)

// Broker sends events out to the interested parties.
type Broker interface {
	Send(event events.Event)
}

// Engine is the entry point for everything trading related: it owns the
// registry of product books, the market state machine that gates all
// submissions, and fans the state transitions out to every book.
type Engine struct {
	log *logging.Logger
	Config

	mu    sync.RWMutex
	books map[string]*matching.OrderBook
	state types.MarketState

	matchingCfg matching.Config
	table       *types.PriceTable
	broker      Broker
}

// NewEngine takes a Matching and an Execution configuration and returns an
// engine over which the callers can operate the markets.
func NewEngine(log *logging.Logger, executionConfig Config, matchingConfig matching.Config, broker Broker, table *types.PriceTable) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(executionConfig.Level.Get())

	return &Engine{
		log:         log,
		Config:      executionConfig,
		books:       map[string]*matching.OrderBook{},
		state:       types.MarketClosed,
		matchingCfg: matchingConfig,
		table:       table,
		broker:      broker,
	}
}

// ReloadConf updates the internal configuration of the execution engine and
// its dependencies.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	e.Config = cfg
}

// CreateProduct registers a new product and gives it an empty book. The
// symbol must be non empty and not registered yet.
func (e *Engine) CreateProduct(symbol string) error {
	if len(symbol) <= 0 {
		return errors.Wrap(types.ErrInvalidProduct, "product symbol is empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.books[symbol]; ok {
		return errors.Wrapf(types.ErrProductAlreadyExists, "product %s", symbol)
	}
	e.books[symbol] = matching.NewOrderBook(e.log, e.matchingCfg, symbol, e.table, e.broker)

	e.log.Info("product created", logging.String("product", symbol))
	return nil
}

// Products returns the registered product symbols in lexical order.
func (e *Engine) Products() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.symbols()
}

// MarketState returns the current state of the market.
func (e *Engine) MarketState() types.MarketState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetMarketState drives the market through its lifecycle. The only legal
// transitions are CLOSED -> PREOPEN -> OPEN -> CLOSED, anything else is
// rejected and leaves the state untouched. Opening runs the opening auction
// on every book holding resting interest, closing sweeps every book clean.
func (e *Engine) SetMarketState(ctx context.Context, next types.MarketState) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !validTransition(e.state, next) {
		return errors.Wrapf(types.ErrInvalidMarketState,
			"cannot transition from %s to %s", e.state, next)
	}

	e.log.Info("market state changed",
		logging.String("from", e.state.String()),
		logging.String("to", next.String()),
	)
	e.state = next
	e.broker.Send(events.NewMarketStateEvent(ctx, next))

	switch next {
	case types.MarketOpen:
		for _, symbol := range e.symbols() {
			book := e.books[symbol]
			if book.HasRestingInterest() {
				book.OpenAuction(ctx)
			}
		}
	case types.MarketClosed:
		for _, symbol := range e.symbols() {
			e.books[symbol].CloseMarket(ctx)
		}
	}
	return nil
}

func validTransition(from, to types.MarketState) bool {
	switch from {
	case types.MarketClosed:
		return to == types.MarketPreOpen
	case types.MarketPreOpen:
		return to == types.MarketOpen
	case types.MarketOpen:
		return to == types.MarketClosed
	}
	return false
}

// SubmitOrder checks the market gate, builds the order and hands it to the
// product's book. The returned id identifies the order for later cancels.
func (e *Engine) SubmitOrder(ctx context.Context, user, product string, price types.Price, volume uint64, side types.Side) (types.TradableID, error) {
	defer metrics.EngineTimeCounterAdd(product, "execution", "SubmitOrder")()

	e.mu.RLock()
	defer e.mu.RUnlock()

	book, err := e.gate(product, price)
	if err != nil {
		metrics.OrderCounterInc(product, "false")
		return types.TradableID{}, err
	}

	order, err := types.NewOrder(book.NextID(), user, product, price, volume, side)
	if err != nil {
		metrics.OrderCounterInc(product, "false")
		return types.TradableID{}, err
	}

	book.SubmitOrder(ctx, e.state, order)
	metrics.OrderCounterInc(product, "true")
	return order.ID(), nil
}

// SubmitQuote checks the market gate, builds the two sided quote and hands
// it to the product's book, replacing the user's previous quote if any.
func (e *Engine) SubmitQuote(ctx context.Context, user, product string, buyPrice types.Price, buyVolume uint64, sellPrice types.Price, sellVolume uint64) error {
	defer metrics.EngineTimeCounterAdd(product, "execution", "SubmitQuote")()

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == types.MarketClosed {
		return errors.Wrap(types.ErrMarketClosed, "quote rejected")
	}
	book, ok := e.books[product]
	if !ok {
		return errors.Wrapf(types.ErrNoSuchProduct, "product %s", product)
	}

	quote, err := types.NewQuote(book.NextID(), book.NextID(), user, product,
		buyPrice, buyVolume, sellPrice, sellVolume)
	if err != nil {
		return err
	}
	return book.SubmitQuote(ctx, e.state, quote)
}

// CancelOrder cancels a resting order on the given product and side.
func (e *Engine) CancelOrder(ctx context.Context, product string, side types.Side, id types.TradableID) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == types.MarketClosed {
		return errors.Wrap(types.ErrMarketClosed, "cancel rejected")
	}
	book, ok := e.books[product]
	if !ok {
		return errors.Wrapf(types.ErrNoSuchProduct, "product %s", product)
	}

	if err := book.CancelOrder(ctx, side, id); err != nil {
		return err
	}
	metrics.CancelCounterInc(product)
	return nil
}

// CancelQuote cancels both legs of the user's quote on the given product.
func (e *Engine) CancelQuote(ctx context.Context, user, product string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == types.MarketClosed {
		return errors.Wrap(types.ErrMarketClosed, "cancel rejected")
	}
	book, ok := e.books[product]
	if !ok {
		return errors.Wrapf(types.ErrNoSuchProduct, "product %s", product)
	}

	book.CancelQuote(ctx, user)
	metrics.CancelCounterInc(product)
	return nil
}

// MarketData returns the top of book summary for the product.
func (e *Engine) MarketData(product string) (types.MarketData, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	book, ok := e.books[product]
	if !ok {
		return types.MarketData{}, errors.Wrapf(types.ErrNoSuchProduct, "product %s", product)
	}
	return book.MarketData(), nil
}

// BookDepth returns the aggregated volume per price level on both sides of
// the product's book, best price first.
func (e *Engine) BookDepth(product string) (types.BookDepth, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	book, ok := e.books[product]
	if !ok {
		return types.BookDepth{}, errors.Wrapf(types.ErrNoSuchProduct, "product %s", product)
	}
	return book.BookDepth(), nil
}

// OrdersWithRemainingQty returns snapshots of the user's resting orders on
// the product, quote legs excluded.
func (e *Engine) OrdersWithRemainingQty(user, product string) ([]types.TradableSnapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	book, ok := e.books[product]
	if !ok {
		return nil, errors.Wrapf(types.ErrNoSuchProduct, "product %s", product)
	}
	return book.OrdersWithRemainingQty(user), nil
}

// gate applies the market state rules common to order submission: nothing
// trades while the market is closed, and market priced orders cannot enter
// during pre-open because they would rest with no price.
func (e *Engine) gate(product string, price types.Price) (*matching.OrderBook, error) {
	switch e.state {
	case types.MarketClosed:
		return nil, errors.Wrap(types.ErrMarketClosed, "order rejected")
	case types.MarketPreOpen:
		if price.IsMarket() {
			return nil, errors.Wrap(types.ErrMarketPreOpen, "market order rejected")
		}
	}
	book, ok := e.books[product]
	if !ok {
		return nil, errors.Wrapf(types.ErrNoSuchProduct, "product %s", product)
	}
	return book, nil
}

// symbols returns the registered products sorted, callers hold the lock.
func (e *Engine) symbols() []string {
	out := make([]string, 0, len(e.books))
	for symbol := range e.books {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}
