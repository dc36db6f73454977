package sweep

import (
	"context"
	"fmt"

	"github.com/GustavOdysseus/odysseus-backtester/common"
	"github.com/GustavOdysseus/odysseus-backtester/engine"
	"github.com/GustavOdysseus/odysseus-backtester/kline"
	"github.com/GustavOdysseus/odysseus-backtester/log"
	"github.com/GustavOdysseus/odysseus-backtester/statistics"
)

type foldWindow struct {
	trainStart, trainEnd, testStart, testEnd int
}

// folds tiles the tail of the series with test windows, walking back from
// the final candle in TestSize steps while at least one training candle
// remains. Each test window trains on the TrainSize candles before it,
// truncated at the series start. The returned folds are chronological
func (w *WalkForward) folds(seriesLen int) ([]foldWindow, error) {
	if w.TrainSize <= 0 || w.TestSize <= 0 {
		return nil, ErrInvalidWindow
	}
	if seriesLen < w.TestSize+1 {
		return nil, fmt.Errorf("%w: %v candles, test window %v", ErrInsufficientData, seriesLen, w.TestSize)
	}

	var reversed []foldWindow
	for testEnd := seriesLen; testEnd-w.TestSize >= 1; testEnd -= w.TestSize {
		testStart := testEnd - w.TestSize
		trainStart := testStart - w.TrainSize
		if trainStart < 0 {
			trainStart = 0
		}
		reversed = append(reversed, foldWindow{
			trainStart: trainStart,
			trainEnd:   testStart,
			testStart:  testStart,
			testEnd:    testEnd,
		})
	}

	resp := make([]foldWindow, len(reversed))
	for i := range reversed {
		resp[len(reversed)-1-i] = reversed[i]
	}
	return resp, nil
}

// Run optimises each fold's parameters in sample and evaluates the winner
// out of sample, carrying ending equity into the next fold. The returned
// equity curve covers only the concatenated test windows; in-sample results
// never contribute to it
func (w *WalkForward) Run(ctx context.Context, series *kline.Series) (*WalkForwardResult, error) {
	if series == nil {
		return nil, common.ErrNilArguments
	}
	if w.Builder == nil {
		return nil, ErrNilBuilder
	}
	metric := w.Metric
	if metric == "" {
		metric = defaultMetric
	}
	windows, err := w.folds(series.Len())
	if err != nil {
		return nil, err
	}

	resp := &WalkForwardResult{Folds: make([]Fold, 0, len(windows))}
	var carried *engine.RunResult
	for i := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		win := windows[i]

		train, err := series.Slice(win.trainStart, win.trainEnd)
		if err != nil {
			return nil, err
		}
		items, err := w.GridSearch.Run(ctx, train)
		if err != nil {
			return nil, err
		}
		best, err := Best(items, metric)
		if err != nil {
			return nil, fmt.Errorf("fold %v of %v: %w", i+1, len(windows), err)
		}

		test, err := series.Slice(win.testStart, win.testEnd)
		if err != nil {
			return nil, err
		}
		signals, settings, err := w.Builder(test, best.Params)
		if err != nil {
			return nil, err
		}
		if carried != nil {
			// continue the out-of-sample account rather than resetting
			// capital every fold
			settings.InitialCash = carried.Equity[len(carried.Equity)-1].TotalEquity
		}
		result, err := engine.Run(test, signals, settings)
		if err != nil {
			return nil, err
		}
		result.Params = best.Params

		resp.Folds = append(resp.Folds, Fold{
			TrainStart: win.trainStart,
			TrainEnd:   win.trainEnd,
			TestStart:  win.testStart,
			TestEnd:    win.testEnd,
			Params:     best.Params,
			Result:     result,
		})
		resp.Equity = append(resp.Equity, result.Equity...)
		resp.Trades = append(resp.Trades, result.Trades...)
		carried = result
		log.Infof(log.Sweep, "fold %v/%v evaluated %v out of sample, ending equity %v",
			i+1, len(windows), best.Params, result.Equity[len(result.Equity)-1].TotalEquity)
	}

	// score the stitched out-of-sample curve with the last fold's
	// annualisation settings
	_, settings, err := w.Builder(series, resp.Folds[len(resp.Folds)-1].Params)
	if err != nil {
		return nil, err
	}
	metrics, err := statistics.Calculate(resp.Equity, resp.Trades, settings.PeriodsPerYear, settings.RiskFreeRate)
	if err != nil {
		return nil, err
	}
	resp.Metrics = metrics
	return resp, nil
}
