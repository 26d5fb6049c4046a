package matching

import (
	"context"
	"fmt"
	"sort"

	"code.ospreymarkets.io/osprey/logging"
	"code.ospreymarkets.io/osprey/types"
)

// BookSide represents one side of a book, either Sell or Buy. Levels are
// kept sorted best price first: descending for the buy side, ascending for
// the sell side.
type BookSide struct {
	log    *logging.Logger
	side   types.Side
	book   *OrderBook
	levels []*PriceLevel
}

func newBookSide(log *logging.Logger, book *OrderBook, side types.Side) *BookSide {
	return &BookSide{
		log:  log,
		side: side,
		book: book,
	}
}

func (s *BookSide) isEmpty() bool {
	return len(s.levels) == 0
}

// TopOfBookPrice returns the best resting price, or the zero limit price
// when the side is empty.
func (s *BookSide) TopOfBookPrice() types.Price {
	if len(s.levels) == 0 {
		return types.Price{}
	}
	return s.levels[0].price
}

// TopOfBookVolume sums the remaining volumes at the best price.
func (s *BookSide) TopOfBookVolume() uint64 {
	if len(s.levels) == 0 {
		return 0
	}
	return s.levels[0].volume()
}

// EntriesAtTopOfBook returns the live arrival ordered queue at the best
// price, nil when the side is empty.
func (s *BookSide) EntriesAtTopOfBook() []*types.Tradable {
	if len(s.levels) == 0 {
		return nil
	}
	return s.levels[0].entries
}

// EntriesAtPrice returns the live queue at the given price, nil if there is
// no such level.
func (s *BookSide) EntriesAtPrice(price types.Price) []*types.Tradable {
	for _, l := range s.levels {
		if l.price == price {
			return l.entries
		}
	}
	return nil
}

// better reports whether price a ranks before price b on this side.
func (s *BookSide) better(a, b types.Price) bool {
	if s.side == types.SideBuy {
		return a.Compare(b) > 0
	}
	return a.Compare(b) < 0
}

func (s *BookSide) add(t *types.Tradable) {
	if t.Price().IsMarket() {
		s.log.Panic("market priced entry cannot rest on a book",
			logging.String("side", s.side.String()),
			logging.String("id", t.ID().String()))
	}
	s.getPriceLevel(t.Price()).addEntry(t)
}

func (s *BookSide) getPriceLevel(price types.Price) *PriceLevel {
	i := sort.Search(len(s.levels), func(i int) bool {
		return !s.better(s.levels[i].price, price)
	})

	// we found the level just return it.
	if i < len(s.levels) && s.levels[i].price == price {
		return s.levels[i]
	}

	if s.book.cfg.LogPriceLevelsDebug && s.log.GetLevel() == logging.DebugLevel {
		s.log.Debug("new price level",
			logging.String("side", s.side.String()),
			logging.String("price", price.String()))
	}

	// append new elem first to make sure we have enough place
	// this would reallocate sufficiently then
	level := NewPriceLevel(price)
	s.levels = append(s.levels, nil)
	copy(s.levels[i+1:], s.levels[i:])
	s.levels[i] = level
	return level
}

// removeEntry drops a specific entry, and its price level when that is left
// empty. Removal scans the levels, there is no secondary index: book depth
// is small relative to matching frequency.
func (s *BookSide) removeEntry(t *types.Tradable) bool {
	for i, l := range s.levels {
		if l.price != t.Price() {
			continue
		}
		if !l.removeEntry(t) {
			return false
		}
		if len(l.entries) == 0 {
			s.levels = s.levels[:i+copy(s.levels[i:], s.levels[i+1:])]
		}
		if s.book.cfg.LogRemovedOrdersDebug && s.log.GetLevel() == logging.DebugLevel {
			s.log.Debug("removed entry",
				logging.String("side", s.side.String()),
				logging.String("id", t.ID().String()))
		}
		return true
	}
	return false
}

// cancelEntry emits the cancel event for an entry, archives it and removes
// it from this side.
func (s *BookSide) cancelEntry(ctx context.Context, t *types.Tradable, details string) {
	volume := t.RemainingVolume()
	s.book.sendCancel(ctx, t.User(), t.Price(), volume, details, t.Side(), t.ID())
	s.book.archive(t)
	s.removeEntry(t)
}

// CancelAll cancels every resting entry on this side, one cancel event per
// entry, archiving each before removal.
func (s *BookSide) CancelAll(ctx context.Context) {
	levels := append([]*PriceLevel{}, s.levels...)
	for _, l := range levels {
		entries := append([]*types.Tradable{}, l.entries...)
		for _, t := range entries {
			s.cancelEntry(ctx, t, s.cancelDetails(t))
		}
	}
}

func (s *BookSide) cancelDetails(t *types.Tradable) string {
	if t.IsQuote() {
		return fmt.Sprintf("Quote %s-Side Cancelled", s.side)
	}
	return t.String()
}

// CancelOrder cancels the entry with the given id if it rests on this side,
// reporting whether it was found.
func (s *BookSide) CancelOrder(ctx context.Context, id types.TradableID) bool {
	for _, l := range s.levels {
		for _, t := range l.entries {
			if t.ID() == id {
				s.cancelEntry(ctx, t, s.cancelDetails(t))
				return true
			}
		}
	}
	return false
}

// CancelQuote cancels the user's quote leg on this side, if any. A user has
// at most one live quote leg per side.
func (s *BookSide) CancelQuote(ctx context.Context, user string) bool {
	for _, l := range s.levels {
		for _, t := range l.entries {
			if t.IsQuote() && t.User() == user {
				s.cancelEntry(ctx, t, fmt.Sprintf("Quote %s-Side Cancelled", s.side))
				return true
			}
		}
	}
	return false
}

// crosses reports whether an incoming price trades against the current top
// of this (resting) side.
func (s *BookSide) crosses(incoming, top types.Price) bool {
	if s.side == types.SideBuy {
		// an incoming sell trades while its price is at or below the best bid
		return incoming.LessOrEqual(top)
	}
	// an incoming buy trades while its price is at or above the best offer
	return incoming.GreaterOrEqual(top)
}

// matchAgainst trades the incoming entry against this side's resting queue,
// top price level first, for as long as the incoming entry has remaining
// volume and still crosses (a market price always crosses). All fill
// records of the call are emitted once matching completes.
func (s *BookSide) matchAgainst(ctx context.Context, agg *types.Tradable) *fillSet {
	fills := newFillSet()

	for agg.RemainingVolume() > 0 && !s.isEmpty() &&
		(agg.Price().IsMarket() || s.crosses(agg.Price(), s.TopOfBookPrice())) {
		top := s.levels[0]
		top.uncross(agg, fills, s.book)
		if len(top.entries) == 0 {
			s.levels = s.levels[1:]
		}
	}

	s.book.sendFills(ctx, fills)
	return fills
}

// depth returns the aggregate volume per price level, best price first.
func (s *BookSide) depth() []types.PriceVolume {
	out := make([]types.PriceVolume, 0, len(s.levels))
	for _, l := range s.levels {
		out = append(out, types.PriceVolume{Price: l.price, Volume: l.volume()})
	}
	return out
}

// ordersWithRemainingQty snapshots the user's resting plain orders.
func (s *BookSide) ordersWithRemainingQty(user string) []types.TradableSnapshot {
	var out []types.TradableSnapshot
	for _, l := range s.levels {
		for _, t := range l.entries {
			if t.User() == user && !t.IsQuote() && t.RemainingVolume() > 0 {
				out = append(out, t.Snapshot())
			}
		}
	}
	return out
}
