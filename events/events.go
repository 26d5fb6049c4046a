package events

import (
	"context"

	"code.ospreymarkets.io/osprey/types"

	"github.com/pkg/errors"
)

type Type int

const (
	// All is used by subscribers that want every event, it has no payload of
	// its own.
	All Type = iota
	FillEvent
	CancelEvent
	MarketDataEvent
	LastSaleEvent
	MarketStateEvent
)

var eventStrings = map[Type]string{
	All:              "ALL",
	FillEvent:        "Fill",
	CancelEvent:      "Cancel",
	MarketDataEvent:  "MarketData",
	LastSaleEvent:    "LastSale",
	MarketStateEvent: "MarketState",
}

// String get string representation of event type
func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}

type Event interface {
	Type() Type
	Context() context.Context
}

// Base common denominator all bus events share
type Base struct {
	ctx context.Context
	et  Type
}

func newBase(ctx context.Context, t Type) *Base {
	return &Base{
		ctx: ctx,
		et:  t,
	}
}

// Context returns context
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type
func (b Base) Type() Type {
	return b.et
}

func validateParty(user, product string) error {
	if user == "" {
		return errors.Wrap(types.ErrInvalidMessage, "user cannot be empty")
	}
	if product == "" {
		return errors.Wrap(types.ErrInvalidMessage, "product cannot be empty")
	}
	return nil
}
