package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavOdysseus/odysseus-backtester/common"
	"github.com/GustavOdysseus/odysseus-backtester/fill"
	"github.com/GustavOdysseus/odysseus-backtester/kline"
)

var testStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func day(i int) time.Time {
	return testStart.Add(time.Duration(i) * 24 * time.Hour)
}

func buyFill(t time.Time, price, size, fee float64) fill.Fill {
	return fill.Fill{
		Time:  t,
		Side:  fill.Buy,
		Price: decimal.NewFromFloat(price),
		Size:  decimal.NewFromFloat(size),
		Fee:   decimal.NewFromFloat(fee),
	}
}

func sellFill(t time.Time, price, size, fee float64) fill.Fill {
	f := buyFill(t, price, size, fee)
	f.Side = fill.Sell
	return f
}

func TestNewAccountant(t *testing.T) {
	t.Parallel()
	_, err := NewAccountant(decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidInitialCash)
	_, err = NewAccountant(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidInitialCash)

	a, err := NewAccountant(decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "1000", a.Cash().String())
	assert.False(t, a.Position().IsOpen())
}

func TestApplyRoundTrip(t *testing.T) {
	t.Parallel()
	a, err := NewAccountant(decimal.NewFromInt(1000))
	require.NoError(t, err)

	applied, err := a.Apply(buyFill(day(0), 100, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, "10", applied.Size.String())
	assert.Equal(t, "0", a.Cash().String())
	assert.Equal(t, "10", a.Position().Size.String())
	assert.Equal(t, "100", a.Position().AverageCostBasis.String())

	_, err = a.Apply(sellFill(day(3), 103, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, "1030", a.Cash().String())
	assert.False(t, a.Position().IsOpen())

	trades := a.CloseTrades()
	require.Len(t, trades, 1)
	assert.Equal(t, "30", trades[0].PNL.String())
	assert.Equal(t, "3", trades[0].ReturnPercent.String())
	assert.Equal(t, 72*time.Hour, trades[0].HoldingDuration)
}

func TestApplyValidation(t *testing.T) {
	t.Parallel()
	a, err := NewAccountant(decimal.NewFromInt(1000))
	require.NoError(t, err)

	_, err = a.Apply(fill.Fill{Side: fill.Buy})
	assert.ErrorIs(t, err, fill.ErrInvalidFill)

	_, err = a.Apply(fill.Fill{Side: "HODL", Price: decimal.NewFromInt(1), Size: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, fill.ErrInvalidSide)

	_, err = a.Apply(sellFill(day(0), 100, 1, 0))
	assert.ErrorIs(t, err, ErrNoOpenPosition)
}

func TestApplyBuyClamping(t *testing.T) {
	t.Parallel()
	a, err := NewAccountant(decimal.NewFromInt(1000))
	require.NoError(t, err)

	// 11 units at 100 with a 1% fee costs 1111, only 1000 available
	applied, err := a.Apply(buyFill(day(0), 100, 11, 11))
	require.NoError(t, err)
	assert.True(t, applied.Size.LessThan(decimal.NewFromInt(10)))
	assert.False(t, a.Cash().IsNegative())

	clamps := a.ClampEvents()
	require.Len(t, clamps, 1)
	assert.Equal(t, "11", clamps[0].RequestedSize.String())
	assert.Equal(t, applied.Size.String(), clamps[0].ClampedSize.String())

	// clamped cost must consume at most the available cash
	spent := applied.TotalCost()
	assert.True(t, spent.LessThanOrEqual(decimal.NewFromInt(1000)))
}

// a flat commission is owed in full on whatever size fills, so clamping
// shrinks only the proportional portion of the fee
func TestApplyBuyClampFlatCommission(t *testing.T) {
	t.Parallel()
	a, err := NewAccountant(decimal.NewFromInt(1000))
	require.NoError(t, err)

	f := buyFill(day(0), 100, 20, 5)
	f.FixedFee = decimal.NewFromInt(5)
	applied, err := a.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, "9.95", applied.Size.String())
	assert.Equal(t, "5", applied.Fee.String())
	assert.Equal(t, "0", a.Cash().String())

	b, err := NewAccountant(decimal.NewFromInt(1000))
	require.NoError(t, err)
	mixed := buyFill(day(0), 100, 20, 25)
	mixed.FixedFee = decimal.NewFromInt(5)
	applied, err = b.Apply(mixed)
	require.NoError(t, err)
	// 995 available after the flat fee, 101 per unit all-in
	assert.Equal(t, "9.85148514", applied.Size.String())
	assert.Equal(t, "14.85148514", applied.Fee.String())
	assert.True(t, applied.Fee.GreaterThanOrEqual(mixed.FixedFee))
	assert.False(t, b.Cash().IsNegative())
}

func TestApplySellClampFlatCommission(t *testing.T) {
	t.Parallel()
	a, err := NewAccountant(decimal.NewFromInt(1000))
	require.NoError(t, err)
	_, err = a.Apply(buyFill(day(0), 100, 5, 0))
	require.NoError(t, err)

	f := sellFill(day(1), 110, 9, 14)
	f.FixedFee = decimal.NewFromInt(5)
	applied, err := a.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, "5", applied.Size.String())
	// one per unit variable on five units plus the whole flat fee
	assert.Equal(t, "10", applied.Fee.String())
	assert.False(t, a.Position().IsOpen())
}

func TestApplyBuyClampToZero(t *testing.T) {
	t.Parallel()
	a, err := NewAccountant(decimal.NewFromFloat(0.0000000001))
	require.NoError(t, err)
	applied, err := a.Apply(buyFill(day(0), 100, 1, 0))
	require.NoError(t, err)
	assert.True(t, applied.Size.IsZero())
	assert.Empty(t, a.Fills())
	assert.Len(t, a.ClampEvents(), 1)
}

func TestApplySellClamping(t *testing.T) {
	t.Parallel()
	a, err := NewAccountant(decimal.NewFromInt(1000))
	require.NoError(t, err)
	_, err = a.Apply(buyFill(day(0), 100, 5, 0))
	require.NoError(t, err)

	applied, err := a.Apply(sellFill(day(1), 110, 9, 9))
	require.NoError(t, err)
	assert.Equal(t, "5", applied.Size.String())
	assert.Equal(t, "5", applied.Fee.String())
	assert.False(t, a.Position().IsOpen())
	assert.Len(t, a.ClampEvents(), 1)
}

func TestWeightedAverageCost(t *testing.T) {
	t.Parallel()
	a, err := NewAccountant(decimal.NewFromInt(10000))
	require.NoError(t, err)

	_, err = a.Apply(buyFill(day(0), 100, 10, 0))
	require.NoError(t, err)
	_, err = a.Apply(buyFill(day(1), 110, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, "20", a.Position().Size.String())
	assert.Equal(t, "105", a.Position().AverageCostBasis.String())
}

func TestMarkToMarketInvariant(t *testing.T) {
	t.Parallel()
	a, err := NewAccountant(decimal.NewFromInt(1000))
	require.NoError(t, err)
	_, err = a.Apply(buyFill(day(0), 100, 5, 0))
	require.NoError(t, err)

	point := a.MarkToMarket(day(0), decimal.NewFromInt(102))
	assert.Equal(t, "510", point.PositionValue.String())
	assert.Equal(t, point.Cash.Add(point.PositionValue).String(), point.TotalEquity.String())

	curve := a.EquityCurve()
	require.Len(t, curve, 1)
	assert.Equal(t, "1010", curve[0].TotalEquity.String())
}

func TestCloseTradesMultipleCycles(t *testing.T) {
	t.Parallel()
	a, err := NewAccountant(decimal.NewFromInt(10000))
	require.NoError(t, err)
	_, err = a.Apply(buyFill(day(0), 100, 10, 0))
	require.NoError(t, err)
	_, err = a.Apply(sellFill(day(1), 105, 10, 0))
	require.NoError(t, err)
	_, err = a.Apply(buyFill(day(2), 102, 10, 0))
	require.NoError(t, err)
	_, err = a.Apply(sellFill(day(3), 99, 10, 0))
	require.NoError(t, err)

	trades := a.CloseTrades()
	require.Len(t, trades, 2)
	assert.Equal(t, "50", trades[0].PNL.String())
	assert.Equal(t, "-30", trades[1].PNL.String())
}

func TestReplayRoundTrip(t *testing.T) {
	t.Parallel()
	closes := []float64{100, 102, 104, 103, 105}
	candles := make([]kline.Candle, len(closes))
	for i := range closes {
		price := decimal.NewFromFloat(closes[i])
		candles[i] = kline.Candle{
			Time: day(i), Open: price, High: price, Low: price, Close: price,
			Volume: decimal.NewFromInt(1),
		}
	}
	series, err := kline.NewSeries(candles)
	require.NoError(t, err)

	initial := decimal.NewFromInt(1000)
	a, err := NewAccountant(initial)
	require.NoError(t, err)
	_, err = a.Apply(buyFill(day(0), 100, 10, 0))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		a.MarkToMarket(day(i), candles[i].Close)
	}
	_, err = a.Apply(sellFill(day(3), 103, 10, 0))
	require.NoError(t, err)
	a.MarkToMarket(day(3), candles[3].Close)
	a.MarkToMarket(day(4), candles[4].Close)

	replayed, err := Replay(initial, a.Fills(), series)
	require.NoError(t, err)

	original := a.EquityCurve()
	reproduced := replayed.EquityCurve()
	require.Equal(t, len(original), len(reproduced))
	for i := range original {
		assert.True(t, original[i].TotalEquity.Equal(reproduced[i].TotalEquity),
			"equity mismatch at %v: %v != %v", i, original[i].TotalEquity, reproduced[i].TotalEquity)
	}
	assert.Equal(t, a.CloseTrades(), replayed.CloseTrades())
}

func TestReplayMismatch(t *testing.T) {
	t.Parallel()
	series, err := kline.NewSeries([]kline.Candle{{
		Time: day(0), Open: decimal.NewFromInt(100), High: decimal.NewFromInt(100),
		Low: decimal.NewFromInt(100), Close: decimal.NewFromInt(100), Volume: decimal.NewFromInt(1),
	}})
	require.NoError(t, err)

	orphan := buyFill(day(7), 100, 1, 0)
	_, err = Replay(decimal.NewFromInt(1000), []fill.Fill{orphan}, series)
	assert.ErrorIs(t, err, ErrSeriesMismatch)

	_, err = Replay(decimal.NewFromInt(1000), nil, nil)
	assert.ErrorIs(t, err, common.ErrNilPointer)
}
