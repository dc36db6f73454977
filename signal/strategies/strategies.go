// Package strategies holds reference signal producers. They exist to feed
// the simulator and the parameter sweeps; the engine itself never assumes
// how a signal set was produced
package strategies

import (
	"errors"
	"fmt"

	"github.com/thrasher-corp/gct-ta/indicators"

	"github.com/GustavOdysseus/odysseus-backtester/kline"
	"github.com/GustavOdysseus/odysseus-backtester/signal"
)

var (
	// ErrInvalidPeriod returned when a lookback period is not positive
	ErrInvalidPeriod = errors.New("period must be positive")
	// ErrInvalidLevels returned when the RSI entry level is not below the exit level
	ErrInvalidLevels = errors.New("entry level must be below exit level")
	// ErrSeriesTooShort returned when the series cannot cover the warmup window
	ErrSeriesTooShort = errors.New("series shorter than indicator warmup")
)

// RSIThreshold signals entry when the relative strength index falls to or
// below entryLevel and exit when it rises to or above exitLevel. Bars inside
// the warmup window stay flat
func RSIThreshold(series *kline.Series, period int, entryLevel, exitLevel float64) (*signal.Set, error) {
	if series == nil {
		return nil, signal.ErrNoSignals
	}
	if period <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, period)
	}
	if entryLevel >= exitLevel {
		return nil, fmt.Errorf("%w: entry %v exit %v", ErrInvalidLevels, entryLevel, exitLevel)
	}
	if series.Len() <= period {
		return nil, fmt.Errorf("%w: %v candles, period %v", ErrSeriesTooShort, series.Len(), period)
	}

	rsi := indicators.RSI(series.ClosesFloat(), period)
	entries := make([]bool, series.Len())
	exits := make([]bool, series.Len())
	for i := period; i < len(rsi) && i < series.Len(); i++ {
		entries[i] = rsi[i] <= entryLevel
		exits[i] = rsi[i] >= exitLevel
	}
	return signal.NewSet(entries, exits)
}

// SMACross signals entry when the fast simple moving average crosses above
// the slow one and exit on the cross back below
func SMACross(series *kline.Series, fastPeriod, slowPeriod int) (*signal.Set, error) {
	if series == nil {
		return nil, signal.ErrNoSignals
	}
	if fastPeriod <= 0 || slowPeriod <= 0 {
		return nil, fmt.Errorf("%w: fast %v slow %v", ErrInvalidPeriod, fastPeriod, slowPeriod)
	}
	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("%w: fast %v not below slow %v", ErrInvalidPeriod, fastPeriod, slowPeriod)
	}
	if series.Len() <= slowPeriod {
		return nil, fmt.Errorf("%w: %v candles, slow period %v", ErrSeriesTooShort, series.Len(), slowPeriod)
	}

	closes := series.ClosesFloat()
	fast := indicators.MA(closes, fastPeriod, indicators.Sma)
	slow := indicators.MA(closes, slowPeriod, indicators.Sma)
	entries := make([]bool, series.Len())
	exits := make([]bool, series.Len())
	for i := slowPeriod; i < series.Len() && i < len(fast) && i < len(slow); i++ {
		above := fast[i] > slow[i]
		wasAbove := fast[i-1] > slow[i-1]
		entries[i] = above && !wasAbove
		exits[i] = !above && wasAbove
	}
	return signal.NewSet(entries, exits)
}
