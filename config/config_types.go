package config

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Size policy names accepted in configuration files
const (
	SizePolicyFixedFraction    = "fixed-fraction"
	SizePolicyFixedUnits       = "fixed-units"
	SizePolicyVolatilityScaled = "volatility-scaled"
)

// Fill timing names accepted in configuration files
const (
	FillTimingSameBarClose = "same-bar-close"
	FillTimingNextBarOpen  = "next-bar-open"
)

var decimalOne = decimal.NewFromInt(1)

var (
	// ErrUnknownSizePolicy returned for an unrecognised size policy name
	ErrUnknownSizePolicy = errors.New("unknown size policy")
	// ErrUnknownFillTiming returned for an unrecognised fill timing name
	ErrUnknownFillTiming = errors.New("unknown fill timing")
	errInvalidInitialCash = errors.New("initial cash must be positive")
	errInvalidPeriods     = errors.New("periods per year must be positive")
)

// Settings is the JSON configuration surface for one backtest run
type Settings struct {
	InitialCash     decimal.Decimal `json:"initial-cash"`
	FeeRate         decimal.Decimal `json:"fee-rate"`
	SlippageRate    decimal.Decimal `json:"slippage-rate"`
	FixedCommission decimal.Decimal `json:"fixed-commission"`
	// SizePolicy selects the order sizing scheme by name
	SizePolicy string `json:"size-policy"`
	// Fraction feeds the fixed-fraction policy
	Fraction decimal.Decimal `json:"fraction,omitempty"`
	// Units feeds the fixed-units policy
	Units decimal.Decimal `json:"units,omitempty"`
	// RiskFraction feeds the volatility-scaled policy
	RiskFraction decimal.Decimal `json:"risk-fraction,omitempty"`
	// VolatilityPeriod is the ATR lookback for volatility-scaled sizing
	VolatilityPeriod int `json:"volatility-period,omitempty"`
	// FillTiming selects the fill bar policy by name, same-bar-close when
	// empty
	FillTiming     string  `json:"fill-timing,omitempty"`
	PeriodsPerYear float64 `json:"periods-per-year"`
	RiskFreeRate   float64 `json:"risk-free-rate,omitempty"`
}
