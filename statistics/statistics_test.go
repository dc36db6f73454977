package statistics

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavOdysseus/odysseus-backtester/fill"
	"github.com/GustavOdysseus/odysseus-backtester/portfolio"
)

func equityFixture(t *testing.T, totals ...float64) []portfolio.EquityPoint {
	t.Helper()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	resp := make([]portfolio.EquityPoint, len(totals))
	for i := range totals {
		total := decimal.NewFromFloat(totals[i])
		resp[i] = portfolio.EquityPoint{
			Time:        start.Add(time.Duration(i) * 24 * time.Hour),
			Cash:        total,
			TotalEquity: total,
		}
	}
	return resp
}

func tradeFixture(pnl, entryFee, exitFee float64) portfolio.Trade {
	return portfolio.Trade{
		Entry: fill.Fill{Side: fill.Buy, Fee: decimal.NewFromFloat(entryFee)},
		Exit:  fill.Fill{Side: fill.Sell, Fee: decimal.NewFromFloat(exitFee)},
		PNL:   decimal.NewFromFloat(pnl),
	}
}

func TestCalculateValidation(t *testing.T) {
	t.Parallel()
	_, err := Calculate(nil, nil, 252, 0)
	assert.ErrorIs(t, err, ErrNoEquityPoints)

	_, err = Calculate(equityFixture(t, 1000, 1010), nil, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPeriodsPerYear)
}

func TestCalculateFlatCurve(t *testing.T) {
	t.Parallel()
	m, err := Calculate(equityFixture(t, 1000, 1000, 1000), nil, 252, 0)
	require.NoError(t, err)
	assert.Zero(t, m.TotalReturn)
	assert.Zero(t, m.Volatility)
	assert.Zero(t, m.MaxDrawdown)
	assert.Zero(t, m.MaxDrawdownDuration)
	// zero dispersion leaves the risk ratios undefined
	assert.True(t, math.IsNaN(m.SharpeRatio))
	assert.True(t, math.IsNaN(m.SortinoRatio))
	// no trades leaves the hit-rate metrics undefined
	assert.True(t, math.IsNaN(m.WinRate))
	assert.True(t, math.IsNaN(m.ProfitFactor))
	assert.Zero(t, m.TotalTrades)
	assert.Zero(t, m.Exposure)
}

func TestCalculateSteadyGrowth(t *testing.T) {
	t.Parallel()
	// two periods of exactly 10% growth with two periods per year
	m, err := Calculate(equityFixture(t, 100, 110, 121), nil, 2, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.21, m.TotalReturn, 1e-10)
	assert.InDelta(t, 0.21, m.AnnualizedReturn, 1e-10)
	assert.InDelta(t, 100, m.InitialEquity, 1e-10)
	assert.InDelta(t, 121, m.FinalEquity, 1e-10)
	// identical returns have zero deviation
	assert.InDelta(t, 0, m.Volatility, 1e-10)
	assert.True(t, math.IsNaN(m.SharpeRatio))
	// no period fell below the risk-free rate
	assert.True(t, math.IsNaN(m.SortinoRatio))
}

func TestCalculateMaxDrawdown(t *testing.T) {
	t.Parallel()
	m, err := Calculate(equityFixture(t, 100, 120, 90, 95, 130), nil, 252, 0)
	require.NoError(t, err)
	// 120 peak to 90 trough
	assert.InDelta(t, -0.25, m.MaxDrawdown, 1e-10)
	// two periods below the 120 peak before the recovery
	assert.Equal(t, 2, m.MaxDrawdownDuration)
	assert.True(t, m.SharpeRatio != 0)
}

func TestCalculateTradeMetrics(t *testing.T) {
	t.Parallel()
	trades := []portfolio.Trade{
		tradeFixture(30, 1, 1),
		tradeFixture(-10, 1, 1),
	}
	m, err := Calculate(equityFixture(t, 1000, 1030, 1020), trades, 252, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalTrades)
	assert.Equal(t, 1, m.WinningTrades)
	assert.Equal(t, 1, m.LosingTrades)
	assert.InDelta(t, 0.5, m.WinRate, 1e-10)
	assert.InDelta(t, 3, m.ProfitFactor, 1e-10)
	assert.InDelta(t, 30, m.AverageWin, 1e-10)
	assert.InDelta(t, 10, m.AverageLoss, 1e-10)
	assert.InDelta(t, 4, m.TotalFees, 1e-10)
}

func TestCalculateAllWinners(t *testing.T) {
	t.Parallel()
	trades := []portfolio.Trade{tradeFixture(30, 0, 0)}
	m, err := Calculate(equityFixture(t, 1000, 1030), trades, 252, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1, m.WinRate, 1e-10)
	// no losing trade means gross loss is zero and the factor is undefined
	assert.True(t, math.IsNaN(m.ProfitFactor))
	assert.True(t, math.IsNaN(m.AverageLoss))
}

func TestCalculateExposure(t *testing.T) {
	t.Parallel()
	equity := equityFixture(t, 1000, 1000, 1000, 1000)
	equity[1].PositionValue = decimal.NewFromInt(500)
	equity[2].PositionValue = decimal.NewFromInt(500)
	m, err := Calculate(equity, nil, 252, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, m.Exposure, 1e-10)
}

func TestCalculateEquityMetricsShortSeries(t *testing.T) {
	t.Parallel()
	_, err := CalculateEquityMetrics([]float64{1000}, 252, 0)
	assert.ErrorIs(t, err, ErrNoEquityPoints)
}

func TestGetMetric(t *testing.T) {
	t.Parallel()
	m := &Metrics{SharpeRatio: 1.5, MaxDrawdown: 0.2, MaxDrawdownDuration: 7}
	v, err := m.GetMetric(SharpeRatio)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = m.GetMetric(MaxDrawdownDuration)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	_, err = m.GetMetric("sharpness")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestIsDrawdownMetric(t *testing.T) {
	t.Parallel()
	assert.True(t, IsDrawdownMetric(MaxDrawdown))
	assert.True(t, IsDrawdownMetric(Volatility))
	assert.False(t, IsDrawdownMetric(SharpeRatio))
	assert.False(t, IsDrawdownMetric("sharpness"))
}

func TestMetricsMarshalJSON(t *testing.T) {
	t.Parallel()
	m, err := Calculate(equityFixture(t, 1000, 1000, 1000), nil, 252, 0)
	require.NoError(t, err)
	payload, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"winRate":null`)
	assert.Contains(t, string(payload), `"sharpeRatio":null`)
	assert.Contains(t, string(payload), `"totalReturn":0`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Nil(t, decoded["profitFactor"])
}
