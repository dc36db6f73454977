package exchange

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/GustavOdysseus/odysseus-backtester/exchange/size"
)

// FillTiming controls which bar a confirmed signal fills on. The source
// material for signal timing is ambiguous across the industry, so the choice
// is an explicit policy rather than a hardcoded assumption
type FillTiming uint8

const (
	// SameBarClose fills a signal confirmed at bar i using bar i's close.
	// The signal itself is derived from that close, so no future
	// information is consumed. This is the deterministic default
	SameBarClose FillTiming = iota
	// NextBarOpen defers the fill to the following bar's open, the more
	// conservative convention
	NextBarOpen
)

// String implements the stringer interface
func (f FillTiming) String() string {
	switch f {
	case SameBarClose:
		return "same-bar-close"
	case NextBarOpen:
		return "next-bar-open"
	}
	return "unknown"
}

var (
	// ErrInvalidCostModel returned when rates fall outside [0, 1)
	ErrInvalidCostModel = errors.New("cost model rates must be within [0, 1)")
	// ErrNilSizer returned when no size policy is supplied
	ErrNilSizer = errors.New("nil size policy")
)

// CostModel holds the proportional and fixed trading costs applied to every
// fill. Immutable configuration
type CostModel struct {
	// FeeRate is a proportional fee applied to notional
	FeeRate decimal.Decimal `json:"feeRate"`
	// SlippageRate adjusts the fill price against the trade direction
	SlippageRate decimal.Decimal `json:"slippageRate"`
	// FixedCommission is an optional flat amount added to every fill's fee
	FixedCommission decimal.Decimal `json:"fixedCommission"`
}

// Simulator converts a signal stream into a deterministic, cost-adjusted
// fill ledger with a single forward pass. It holds no per-run state; one
// instance may be reused across sequential runs
type Simulator struct {
	Cost  CostModel
	Sizer size.Sizer
	// Timing selects the fill bar policy, SameBarClose when unset
	Timing FillTiming
	// VolatilityPeriod is the ATR lookback feeding volatility-aware size
	// policies, defaulting to 14 bars
	VolatilityPeriod int
}

type pendingOrder struct {
	entry bool
}
