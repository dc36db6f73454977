package sweep

import (
	"math"
	"math/rand"

	"github.com/GustavOdysseus/odysseus-backtester/common"
	gctmath "github.com/GustavOdysseus/odysseus-backtester/common/math"
	"github.com/GustavOdysseus/odysseus-backtester/engine"
	"github.com/GustavOdysseus/odysseus-backtester/log"
	"github.com/GustavOdysseus/odysseus-backtester/statistics"
)

// Run bootstraps the periodic returns of a completed run, rebuilding an
// equity path from each resample and collecting the configured metric into
// a distribution. Sampling is with replacement and seeded, so a given seed
// always produces the same distribution
func (m *MonteCarlo) Run(source *engine.RunResult) (*Distribution, error) {
	if source == nil || source.Metrics == nil {
		return nil, common.ErrNilArguments
	}
	if m.Samples <= 0 {
		return nil, ErrInvalidSamples
	}
	if len(source.Equity) < 2 {
		return nil, statistics.ErrNoEquityPoints
	}
	metric := m.Metric
	if metric == "" {
		metric = defaultMetric
	}
	if _, err := (&statistics.Metrics{}).GetMetric(metric); err != nil {
		return nil, err
	}
	periodsPerYear := m.PeriodsPerYear
	if periodsPerYear <= 0 {
		return nil, statistics.ErrInvalidPeriodsPerYear
	}

	totals := make([]float64, len(source.Equity))
	for i := range source.Equity {
		totals[i] = source.Equity[i].TotalEquity.InexactFloat64()
	}
	returns := make([]float64, len(totals)-1)
	for i := 1; i < len(totals); i++ {
		returns[i-1] = gctmath.CalculateTotalReturn(totals[i-1], totals[i])
	}

	rng := rand.New(rand.NewSource(m.Seed))
	values := make([]float64, 0, m.Samples)
	excluded := 0
	path := make([]float64, len(totals))
	for s := 0; s < m.Samples; s++ {
		path[0] = totals[0]
		for i := range returns {
			path[i+1] = path[i] * (1 + returns[rng.Intn(len(returns))])
		}
		sampled, err := statistics.CalculateEquityMetrics(path, periodsPerYear, m.RiskFreeRate)
		if err != nil {
			return nil, err
		}
		v, err := sampled.GetMetric(metric)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			excluded++
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, ErrNoResults
	}

	resp := &Distribution{
		Metric:   metric,
		Samples:  len(values),
		Excluded: excluded,
		Mean:     gctmath.ArithmeticAverage(values),
		StdDev:   gctmath.SampleStandardDeviation(values),
		P5:       gctmath.Percentile(values, 5),
		P25:      gctmath.Percentile(values, 25),
		P50:      gctmath.Percentile(values, 50),
		P75:      gctmath.Percentile(values, 75),
		P95:      gctmath.Percentile(values, 95),
	}
	log.Infof(log.Sweep, "monte carlo complete, %v paths sampled for %v, %v excluded",
		resp.Samples, metric, excluded)
	return resp, nil
}
