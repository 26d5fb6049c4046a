package types

// Side of the book an entry rests on.
type Side int8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideBuy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the side an incoming entry matches against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// MarketState is the process wide trading session state. Transitions are
// strictly cyclic: Closed -> PreOpen -> Open -> Closed.
type MarketState int8

const (
	MarketClosed MarketState = iota
	MarketPreOpen
	MarketOpen
)

func (s MarketState) String() string {
	switch s {
	case MarketClosed:
		return "CLOSED"
	case MarketPreOpen:
		return "PREOPEN"
	default:
		return "OPEN"
	}
}
