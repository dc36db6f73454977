package size

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoFunds returned when sizing is requested against zero equity
	ErrNoFunds = errors.New("no funds available to size order")
	// ErrInvalidSettings returned when a policy is configured with a
	// nonsensical value
	ErrInvalidSettings = errors.New("invalid size policy settings")
	// ErrNoVolatility returned by the volatility policy when no volatility
	// reading is available for the bar being sized
	ErrNoVolatility = errors.New("no volatility reading available")
)

// Sizer converts available equity into an order size. Implementations must
// be pure so one instance can be shared across parallel sweep pipelines.
// feeRate is factored so the sized notional plus its proportional fee fits
// within the supplied equity
type Sizer interface {
	SizeOrder(equity, price, volatility, feeRate decimal.Decimal) (decimal.Decimal, error)
	Name() string
}

// FixedFraction sizes each entry as a fraction of current equity. Equity
// compounds over a run, so the same fraction buys more after gains
type FixedFraction struct {
	Fraction decimal.Decimal
}

// FixedUnits sizes every entry at the same number of units regardless of
// equity. Unaffordable sizes are clamped downstream by the accountant
type FixedUnits struct {
	Units decimal.Decimal
}

// VolatilityScaled risks a fixed fraction of equity per average true range
// unit, shrinking size in turbulent markets and growing it in quiet ones
type VolatilityScaled struct {
	RiskFraction decimal.Decimal
}
