package types

import "github.com/pkg/errors"

var (
	// ErrInvalidPrice signals arithmetic or comparison involving a market
	// price, or a price that could not be parsed.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrInvalidVolume signals a zero volume, or a volume change that would
	// break the original/remaining/cancelled bookkeeping.
	ErrInvalidVolume = errors.New("invalid volume")
	// ErrInvalidQuote signals a quote whose sell price does not exceed its
	// buy price, or whose legs carry no tradable price.
	ErrInvalidQuote = errors.New("invalid quote")
	// ErrInvalidMessage signals a malformed event payload (empty user,
	// product, etc).
	ErrInvalidMessage = errors.New("invalid message")
	// ErrInvalidMarketState signals an illegal market state transition.
	ErrInvalidMarketState = errors.New("invalid market state transition")
	// ErrMarketClosed - submissions and cancels are rejected while the
	// market is closed.
	ErrMarketClosed = errors.New("market is closed")
	// ErrMarketPreOpen - market priced orders are rejected during pre-open,
	// there is no price to execute them against yet.
	ErrMarketPreOpen = errors.New("market orders are not accepted in pre-open")
	// ErrNoSuchProduct - the product symbol is not registered.
	ErrNoSuchProduct = errors.New("product does not exist")
	// ErrProductAlreadyExists - a product with this symbol is registered
	// already.
	ErrProductAlreadyExists = errors.New("product already exists")
	// ErrInvalidProduct - the product symbol is empty.
	ErrInvalidProduct = errors.New("product symbol cannot be empty")
	// ErrOrderNotFound - the cancel target is neither resting nor archived.
	ErrOrderNotFound = errors.New("order not found")
)
