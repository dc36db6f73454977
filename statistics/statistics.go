package statistics

import (
	"encoding/json"
	"fmt"
	"math"

	gctmath "github.com/GustavOdysseus/odysseus-backtester/common/math"
	"github.com/GustavOdysseus/odysseus-backtester/portfolio"
)

// Calculate produces the full scorecard for a completed run. The equity
// curve supplies the return-based metrics and the closed trades supply the
// hit-rate metrics. riskFreeRate is annual and fractional, 0.02 for 2%
func Calculate(equity []portfolio.EquityPoint, trades []portfolio.Trade, periodsPerYear, riskFreeRate float64) (*Metrics, error) {
	if len(equity) < 2 {
		return nil, ErrNoEquityPoints
	}
	if periodsPerYear <= 0 {
		return nil, ErrInvalidPeriodsPerYear
	}

	totals := make([]float64, len(equity))
	inPosition := 0
	for i := range equity {
		totals[i] = equity[i].TotalEquity.InexactFloat64()
		if equity[i].PositionValue.IsPositive() {
			inPosition++
		}
	}

	m, err := CalculateEquityMetrics(totals, periodsPerYear, riskFreeRate)
	if err != nil {
		return nil, err
	}
	m.Exposure = float64(inPosition) / float64(len(equity))
	m.applyTrades(trades)
	return m, nil
}

// CalculateEquityMetrics derives the return-based metrics from a raw series
// of per-period equity totals. Trade metrics are left at their zero or NaN
// values; resampled equity paths have no trade ledger to score
func CalculateEquityMetrics(totals []float64, periodsPerYear, riskFreeRate float64) (*Metrics, error) {
	if len(totals) < 2 {
		return nil, ErrNoEquityPoints
	}
	if periodsPerYear <= 0 {
		return nil, ErrInvalidPeriodsPerYear
	}

	returns := make([]float64, 0, len(totals)-1)
	for i := 1; i < len(totals); i++ {
		returns = append(returns, gctmath.CalculateTotalReturn(totals[i-1], totals[i]))
	}

	riskFreePerPeriod := riskFreeRate / periodsPerYear
	annualise := math.Sqrt(periodsPerYear)
	maxDrawdown, maxDuration := calculateMaxDrawdown(totals)

	m := &Metrics{
		InitialEquity:       totals[0],
		FinalEquity:         totals[len(totals)-1],
		TotalReturn:         gctmath.CalculateTotalReturn(totals[0], totals[len(totals)-1]),
		AnnualizedReturn:    gctmath.CalculateCompoundAnnualGrowthRate(totals[0], totals[len(totals)-1], periodsPerYear, float64(len(returns))),
		Volatility:          gctmath.SampleStandardDeviation(returns) * annualise,
		SharpeRatio:         gctmath.CalculateSharpeRatio(returns, riskFreePerPeriod) * annualise,
		SortinoRatio:        gctmath.CalculateSortinoRatio(returns, riskFreePerPeriod) * annualise,
		MaxDrawdown:         maxDrawdown,
		MaxDrawdownDuration: maxDuration,
		WinRate:             math.NaN(),
		ProfitFactor:        math.NaN(),
		AverageWin:          math.NaN(),
		AverageLoss:         math.NaN(),
	}
	return m, nil
}

// calculateMaxDrawdown walks the curve tracking the running peak, returning
// the deepest fractional decline from any peak as a non-positive number and
// the longest consecutive stretch of periods spent below one
func calculateMaxDrawdown(totals []float64) (float64, int) {
	peak := totals[0]
	deepest := 0.0
	longest, current := 0, 0
	for i := 1; i < len(totals); i++ {
		if totals[i] >= peak {
			peak = totals[i]
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
		if peak > 0 {
			if dd := (totals[i] - peak) / peak; dd < deepest {
				deepest = dd
			}
		}
	}
	return deepest, longest
}

func (m *Metrics) applyTrades(trades []portfolio.Trade) {
	m.TotalTrades = len(trades)
	var grossProfit, grossLoss, fees float64
	for i := range trades {
		pnl := trades[i].PNL.InexactFloat64()
		fees += trades[i].Entry.Fee.InexactFloat64() + trades[i].Exit.Fee.InexactFloat64()
		if pnl > 0 {
			m.WinningTrades++
			grossProfit += pnl
		} else if pnl < 0 {
			m.LosingTrades++
			grossLoss += -pnl
		}
	}
	m.TotalFees = fees
	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades)
	}
	if m.WinningTrades > 0 {
		m.AverageWin = grossProfit / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AverageLoss = grossLoss / float64(m.LosingTrades)
	}
	if grossLoss > 0 {
		m.ProfitFactor = grossProfit / grossLoss
	}
}

// GetMetric returns the named ratio or return figure for ranking purposes
func (m *Metrics) GetMetric(name string) (float64, error) {
	switch name {
	case TotalReturn:
		return m.TotalReturn, nil
	case AnnualizedReturn:
		return m.AnnualizedReturn, nil
	case Volatility:
		return m.Volatility, nil
	case SharpeRatio:
		return m.SharpeRatio, nil
	case SortinoRatio:
		return m.SortinoRatio, nil
	case MaxDrawdown:
		return m.MaxDrawdown, nil
	case MaxDrawdownDuration:
		return float64(m.MaxDrawdownDuration), nil
	case WinRate:
		return m.WinRate, nil
	case ProfitFactor:
		return m.ProfitFactor, nil
	case Exposure:
		return m.Exposure, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownMetric, name)
}

// IsDrawdownMetric reports whether a smaller value of the named metric is
// better, flipping the sort direction when ranking sweep results
func IsDrawdownMetric(name string) bool {
	switch name {
	case MaxDrawdown, MaxDrawdownDuration, Volatility:
		return true
	}
	return false
}

// nullableFloat marshals NaN as JSON null rather than erroring
type nullableFloat float64

// MarshalJSON implements json.Marshaler
func (n nullableFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

// MarshalJSON renders NaN ratio fields as null, which encoding/json cannot
// do for raw float64 values
func (m *Metrics) MarshalJSON() ([]byte, error) {
	type alias struct {
		InitialEquity       float64       `json:"initialEquity"`
		FinalEquity         float64       `json:"finalEquity"`
		TotalReturn         nullableFloat `json:"totalReturn"`
		AnnualizedReturn    nullableFloat `json:"annualizedReturn"`
		Volatility          nullableFloat `json:"volatility"`
		SharpeRatio         nullableFloat `json:"sharpeRatio"`
		SortinoRatio        nullableFloat `json:"sortinoRatio"`
		MaxDrawdown         nullableFloat `json:"maxDrawdown"`
		MaxDrawdownDuration int           `json:"maxDrawdownDuration"`
		Exposure            nullableFloat `json:"exposure"`
		TotalTrades         int           `json:"totalTrades"`
		WinningTrades       int           `json:"winningTrades"`
		LosingTrades        int           `json:"losingTrades"`
		WinRate             nullableFloat `json:"winRate"`
		ProfitFactor        nullableFloat `json:"profitFactor"`
		AverageWin          nullableFloat `json:"averageWin"`
		AverageLoss         nullableFloat `json:"averageLoss"`
		TotalFees           float64       `json:"totalFees"`
	}
	return json.Marshal(alias{
		InitialEquity:       m.InitialEquity,
		FinalEquity:         m.FinalEquity,
		TotalReturn:         nullableFloat(m.TotalReturn),
		AnnualizedReturn:    nullableFloat(m.AnnualizedReturn),
		Volatility:          nullableFloat(m.Volatility),
		SharpeRatio:         nullableFloat(m.SharpeRatio),
		SortinoRatio:        nullableFloat(m.SortinoRatio),
		MaxDrawdown:         nullableFloat(m.MaxDrawdown),
		MaxDrawdownDuration: m.MaxDrawdownDuration,
		Exposure:            nullableFloat(m.Exposure),
		TotalTrades:         m.TotalTrades,
		WinningTrades:       m.WinningTrades,
		LosingTrades:        m.LosingTrades,
		WinRate:             nullableFloat(m.WinRate),
		ProfitFactor:        nullableFloat(m.ProfitFactor),
		AverageWin:          nullableFloat(m.AverageWin),
		AverageLoss:         nullableFloat(m.AverageLoss),
		TotalFees:           m.TotalFees,
	})
}
