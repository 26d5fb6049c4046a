package types

import "fmt"

// MarketData is the top of book summary for one product: best buy price and
// volume, best sell price and volume. Prices are the zero limit price when
// the side is empty.
type MarketData struct {
	Product    string
	BuyPrice   Price
	BuyVolume  uint64
	SellPrice  Price
	SellVolume uint64
}

func (m MarketData) String() string {
	return fmt.Sprintf("%s %d@%s x %d@%s",
		m.Product, m.BuyVolume, m.BuyPrice, m.SellVolume, m.SellPrice)
}

// PriceVolume is one book depth rung: a price level and its aggregate
// remaining volume.
type PriceVolume struct {
	Price  Price
	Volume uint64
}

// BookDepth lists every price level on both sides of a book, best first on
// each side.
type BookDepth struct {
	Buy  []PriceVolume
	Sell []PriceVolume
}
