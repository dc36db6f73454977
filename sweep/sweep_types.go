package sweep

import (
	"errors"

	"github.com/GustavOdysseus/odysseus-backtester/engine"
	"github.com/GustavOdysseus/odysseus-backtester/kline"
	"github.com/GustavOdysseus/odysseus-backtester/portfolio"
	"github.com/GustavOdysseus/odysseus-backtester/signal"
	"github.com/GustavOdysseus/odysseus-backtester/statistics"
)

var (
	// ErrNilBuilder returned when no strategy builder is supplied
	ErrNilBuilder = errors.New("nil strategy builder")
	// ErrNoAxes returned when a grid holds no parameter ranges
	ErrNoAxes = errors.New("grid requires at least one parameter axis")
	// ErrEmptyAxis returned when a parameter axis holds no values
	ErrEmptyAxis = errors.New("parameter axis holds no values")
	// ErrNoResults returned when every run in a sweep failed or scored NaN
	ErrNoResults = errors.New("sweep produced no rankable results")
	// ErrInvalidWindow returned when walk-forward window sizes are not positive
	ErrInvalidWindow = errors.New("train and test windows must be positive")
	// ErrInsufficientData returned when a series cannot hold a single fold
	ErrInsufficientData = errors.New("series too short for one train and test window")
	// ErrInvalidSamples returned when a Monte Carlo sample count is not positive
	ErrInvalidSamples = errors.New("sample count must be positive")
)

// Builder produces the signals and run settings for one parameterisation of
// a strategy over the supplied series. Builders must be safe for concurrent
// use; the grid searcher invokes them from its worker pool
type Builder func(series *kline.Series, params engine.Params) (*signal.Set, *engine.Settings, error)

// Grid maps each parameter name to the values its axis takes
type Grid map[string][]float64

// Item is one completed grid cell. Err carries a per-cell failure without
// aborting the rest of the sweep
type Item struct {
	Params engine.Params     `json:"params"`
	Result *engine.RunResult `json:"result,omitempty"`
	Err    string            `json:"error,omitempty"`
}

// GridSearch runs every combination of the grid through the builder and
// ranks the outcomes by a single metric
type GridSearch struct {
	Grid    Grid
	Builder Builder
	// Workers bounds concurrent runs, defaulting to GOMAXPROCS
	Workers int
	// Metric names the statistic to rank by, sharpe_ratio when empty
	Metric string
}

// WalkForward re-optimises parameters on each rolling train window and
// evaluates the winner on the adjacent out-of-sample test window
type WalkForward struct {
	GridSearch
	// TrainSize is the number of candles optimised over per fold. The
	// earliest fold may train on fewer when the series start truncates it
	TrainSize int
	// TestSize is the number of out-of-sample candles evaluated per fold
	TestSize int
}

// Fold records one train and test split with the parameters chosen in
// sample and their out-of-sample result
type Fold struct {
	TrainStart int               `json:"trainStart"`
	TrainEnd   int               `json:"trainEnd"`
	TestStart  int               `json:"testStart"`
	TestEnd    int               `json:"testEnd"`
	Params     engine.Params     `json:"params"`
	Result     *engine.RunResult `json:"result"`
}

// WalkForwardResult concatenates the out-of-sample segments of every fold.
// Equity carries ending capital across folds, so the curve reads as one
// continuous out-of-sample account
type WalkForwardResult struct {
	Folds   []Fold                  `json:"folds"`
	Equity  []portfolio.EquityPoint `json:"equity"`
	Trades  []portfolio.Trade       `json:"trades"`
	Metrics *statistics.Metrics     `json:"metrics"`
}

// MonteCarlo bootstraps the periodic return sequence of a completed run to
// build a distribution of one metric. The price data is never reshuffled;
// only the realised return order is resampled
type MonteCarlo struct {
	// Samples is the number of resampled equity paths
	Samples int
	// Seed makes the resampling reproducible
	Seed int64
	// Metric names the statistic collected per path, sharpe_ratio when empty
	Metric         string
	PeriodsPerYear float64
	RiskFreeRate   float64
}

// Distribution summarises the sampled metric values. Excluded counts paths
// whose metric was undefined
type Distribution struct {
	Metric   string  `json:"metric"`
	Samples  int     `json:"samples"`
	Excluded int     `json:"excluded"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"stdDev"`
	P5       float64 `json:"p5"`
	P25      float64 `json:"p25"`
	P50      float64 `json:"p50"`
	P75      float64 `json:"p75"`
	P95      float64 `json:"p95"`
}
