package engine

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/GustavOdysseus/odysseus-backtester/common"
	"github.com/GustavOdysseus/odysseus-backtester/exchange"
	"github.com/GustavOdysseus/odysseus-backtester/kline"
	"github.com/GustavOdysseus/odysseus-backtester/log"
	"github.com/GustavOdysseus/odysseus-backtester/portfolio"
	"github.com/GustavOdysseus/odysseus-backtester/signal"
	"github.com/GustavOdysseus/odysseus-backtester/statistics"
)

// Run executes one complete backtest: the signals are simulated against the
// series under the supplied settings, the resulting ledger is accounted and
// the curve is scored. The returned result is self contained and immutable
// once handed back
func Run(series *kline.Series, signals *signal.Set, settings *Settings) (*RunResult, error) {
	if series == nil || signals == nil || settings == nil {
		return nil, common.ErrNilArguments
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	started := time.Now()

	acct, err := portfolio.NewAccountant(settings.InitialCash)
	if err != nil {
		return nil, err
	}
	sim := &exchange.Simulator{
		Cost:             settings.Cost,
		Sizer:            settings.Sizer,
		Timing:           settings.Timing,
		VolatilityPeriod: settings.VolatilityPeriod,
	}
	fills, err := sim.Run(series, signals, acct)
	if err != nil {
		return nil, err
	}

	trades := acct.CloseTrades()
	metrics, err := statistics.Calculate(acct.EquityCurve(), trades, settings.PeriodsPerYear, settings.RiskFreeRate)
	if err != nil {
		return nil, err
	}

	resp := &RunResult{
		Meta: RunMetadata{
			ID:       id,
			Started:  started,
			Finished: time.Now(),
		},
		Equity:  acct.EquityCurve(),
		Trades:  trades,
		Fills:   fills,
		Clamps:  acct.ClampEvents(),
		Metrics: metrics,
	}
	log.Debugf(log.Backtester, "run %v complete, %v fills %v trades over %v candles",
		id, len(fills), len(trades), series.Len())
	return resp, nil
}
