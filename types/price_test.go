package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimitNormalisation(t *testing.T) {
	table := NewPriceTable()
	cases := []struct {
		value  string
		amount int64
	}{
		{"12.85", 1285},
		{"12.8", 1280},
		{"12.", 1200},
		{"12", 1200},
		{"$12.85", 1285},
		{"$1,234.56", 123456},
		{".75", 75},
		{"-5.00", -500},
		{"0", 0},
	}
	for _, c := range cases {
		p, err := table.ParseLimit(c.value)
		require.NoError(t, err, c.value)
		assert.Equal(t, c.amount, p.Amount(), c.value)
		assert.False(t, p.IsMarket())
	}
}

func TestParseLimitRejectsBadInput(t *testing.T) {
	table := NewPriceTable()
	for _, value := range []string{"", "   ", "12.345", "1.2.3", "abc"} {
		_, err := table.ParseLimit(value)
		assert.ErrorIs(t, err, ErrInvalidPrice, value)
	}
}

func TestPriceValueEquality(t *testing.T) {
	table := NewPriceTable()
	a := table.Limit(1285)
	b, err := table.ParseLimit("12.85")
	require.NoError(t, err)

	// same amount is the same value whether or not it came from the cache
	assert.Equal(t, a, b)
	assert.True(t, a == b)
	assert.NotEqual(t, a, table.Limit(1286))
	assert.NotEqual(t, a, MarketPrice())
}

func TestPriceArithmetic(t *testing.T) {
	table := NewPriceTable()
	a, b := table.Limit(1000), table.Limit(250)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.EqualValues(t, 1250, sum.Amount())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.EqualValues(t, 750, diff.Amount())

	scaled, err := b.Mul(4)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, scaled.Amount())

	neg, err := b.Sub(a)
	require.NoError(t, err)
	assert.True(t, neg.IsNegative())
	assert.EqualValues(t, -750, neg.Amount())
}

func TestMarketPriceArithmeticFails(t *testing.T) {
	table := NewPriceTable()
	limit, market := table.Limit(1000), table.Market()

	_, err := market.Add(limit)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = limit.Add(market)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = limit.Sub(market)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = market.Mul(2)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestPriceComparisons(t *testing.T) {
	table := NewPriceTable()
	low, high := table.Limit(1000), table.Limit(1285)

	assert.Equal(t, -1, low.Compare(high))
	assert.Equal(t, 1, high.Compare(low))
	assert.Equal(t, 0, low.Compare(table.Limit(1000)))

	assert.True(t, high.GreaterThan(low))
	assert.True(t, high.GreaterOrEqual(high))
	assert.True(t, low.LessThan(high))
	assert.True(t, low.LessOrEqual(low))
	assert.False(t, low.GreaterThan(high))
}

func TestMarketPriceComparesFalse(t *testing.T) {
	table := NewPriceTable()
	limit, market := table.Limit(1000), table.Market()

	// either operand being the market marker defeats every magnitude check
	assert.False(t, market.GreaterThan(limit))
	assert.False(t, market.GreaterOrEqual(limit))
	assert.False(t, market.LessThan(limit))
	assert.False(t, market.LessOrEqual(limit))
	assert.False(t, limit.GreaterThan(market))
	assert.False(t, limit.LessOrEqual(market))
}

func TestPriceString(t *testing.T) {
	table := NewPriceTable()
	assert.Equal(t, "$12.85", table.Limit(1285).String())
	assert.Equal(t, "$12.05", table.Limit(1205).String())
	assert.Equal(t, "$0.75", table.Limit(75).String())
	assert.Equal(t, "$0.00", table.Limit(0).String())
	assert.Equal(t, "$-7.50", table.Limit(-750).String())
	assert.Equal(t, "MKT", MarketPrice().String())
}

func TestPriceTableConcurrentInterning(t *testing.T) {
	table := NewPriceTable()
	done := make(chan Price, 32)
	for i := 0; i < 32; i++ {
		go func() {
			done <- table.Limit(1285)
		}()
	}
	first := <-done
	for i := 1; i < 32; i++ {
		assert.True(t, first == <-done)
	}
}
