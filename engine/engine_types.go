package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/GustavOdysseus/odysseus-backtester/exchange"
	"github.com/GustavOdysseus/odysseus-backtester/exchange/size"
	"github.com/GustavOdysseus/odysseus-backtester/fill"
	"github.com/GustavOdysseus/odysseus-backtester/portfolio"
	"github.com/GustavOdysseus/odysseus-backtester/statistics"
)

var (
	// ErrNilSizer returned when settings carry no size policy
	ErrNilSizer = errors.New("settings require a size policy")
	// ErrInvalidPeriodsPerYear returned when the annualisation factor is not positive
	ErrInvalidPeriodsPerYear = errors.New("periods per year must be positive")
)

// Params is one strategy parameterisation, keyed by parameter name. Values
// are plain floats so sweep axes can be enumerated generically
type Params map[string]float64

// Get returns the named parameter or the fallback when absent
func (p Params) Get(name string, fallback float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return fallback
}

// Clone returns an independent copy
func (p Params) Clone() Params {
	resp := make(Params, len(p))
	for k, v := range p {
		resp[k] = v
	}
	return resp
}

// String renders the parameters in key order so equal parameterisations
// always render identically
func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", keys[i], p[keys[i]])
	}
	return strings.Join(pairs, " ")
}

// Settings holds everything a single run needs beyond its data and signals
type Settings struct {
	InitialCash decimal.Decimal
	Cost        exchange.CostModel
	Sizer       size.Sizer
	Timing      exchange.FillTiming
	// VolatilityPeriod is the ATR lookback for volatility-aware sizing,
	// defaulted by the simulator when zero
	VolatilityPeriod int
	// PeriodsPerYear annualises the return metrics, 252 for daily bars
	PeriodsPerYear float64
	// RiskFreeRate is annual and fractional
	RiskFreeRate float64
}

// Validate checks the settings are usable ahead of a run
func (s *Settings) Validate() error {
	if !s.InitialCash.IsPositive() {
		return fmt.Errorf("%w: %v", portfolio.ErrInvalidInitialCash, s.InitialCash)
	}
	if s.Sizer == nil {
		return ErrNilSizer
	}
	if s.PeriodsPerYear <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPeriodsPerYear, s.PeriodsPerYear)
	}
	return s.Cost.Validate()
}

// RunMetadata identifies one run and its wall-clock span
type RunMetadata struct {
	ID       uuid.UUID `json:"id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// RunResult is the complete output of one backtest run
type RunResult struct {
	Meta   RunMetadata `json:"meta"`
	Params Params      `json:"params,omitempty"`
	// Equity holds one point per candle
	Equity []portfolio.EquityPoint `json:"equity"`
	Trades []portfolio.Trade       `json:"trades"`
	Fills  []fill.Fill             `json:"fills"`
	// Clamps records every order the accountant shrank to fit available funds
	Clamps  []portfolio.ClampEvent `json:"clamps,omitempty"`
	Metrics *statistics.Metrics    `json:"metrics"`
}
