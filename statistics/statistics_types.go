package statistics

import "errors"

var (
	// ErrNoEquityPoints returned when an equity curve holds fewer than two points
	ErrNoEquityPoints = errors.New("equity curve requires at least two points")
	// ErrInvalidPeriodsPerYear returned when the annualisation factor is not positive
	ErrInvalidPeriodsPerYear = errors.New("periods per year must be positive")
	// ErrUnknownMetric returned when a metric is requested by an unrecognised name
	ErrUnknownMetric = errors.New("unknown metric")
)

// Metric names accepted by GetMetric and the sweep ranking layer
const (
	TotalReturn         = "total_return"
	AnnualizedReturn    = "annualized_return"
	Volatility          = "volatility"
	SharpeRatio         = "sharpe_ratio"
	SortinoRatio        = "sortino_ratio"
	MaxDrawdown         = "max_drawdown"
	MaxDrawdownDuration = "max_drawdown_duration"
	WinRate             = "win_rate"
	ProfitFactor        = "profit_factor"
	Exposure            = "exposure"
)

// Metrics is the full scorecard for one backtest run. Ratio fields use NaN
// for undefined results, such as a win rate with zero trades, and marshal
// those as JSON null
type Metrics struct {
	InitialEquity float64 `json:"initialEquity"`
	FinalEquity   float64 `json:"finalEquity"`
	// TotalReturn is the overall fractional gain, 0.1 for a 10% gain
	TotalReturn float64 `json:"totalReturn"`
	// AnnualizedReturn is the compound annual growth rate as a fraction
	AnnualizedReturn float64 `json:"annualizedReturn"`
	// Volatility is the annualised sample standard deviation of the
	// periodic returns
	Volatility   float64 `json:"volatility"`
	SharpeRatio  float64 `json:"sharpeRatio"`
	SortinoRatio float64 `json:"sortinoRatio"`
	// MaxDrawdown is the largest peak-to-trough equity decline as a
	// non-positive fraction, -0.25 for a 25% drawdown
	MaxDrawdown float64 `json:"maxDrawdown"`
	// MaxDrawdownDuration is the longest stretch of consecutive periods
	// spent below a prior equity peak
	MaxDrawdownDuration int `json:"maxDrawdownDuration"`
	// Exposure is the fraction of periods with an open position
	Exposure float64 `json:"exposure"`

	TotalTrades   int     `json:"totalTrades"`
	WinningTrades int     `json:"winningTrades"`
	LosingTrades  int     `json:"losingTrades"`
	WinRate       float64 `json:"winRate"`
	// ProfitFactor is gross profit over gross loss, NaN when no trade lost
	ProfitFactor float64 `json:"profitFactor"`
	AverageWin   float64 `json:"averageWin"`
	AverageLoss  float64 `json:"averageLoss"`
	TotalFees    float64 `json:"totalFees"`
}
