package fill

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Side describes the direction of a fill
type Side string

const (
	// Buy opens or extends a long position
	Buy Side = "BUY"
	// Sell reduces or closes a long position
	Sell Side = "SELL"
)

var (
	// ErrInvalidSide returned when a fill direction is not buy or sell
	ErrInvalidSide = errors.New("invalid fill side")
	// ErrInvalidFill returned when price or size are not positive
	ErrInvalidFill = errors.New("fill price and size must be positive")
)

// Fill is one executed buy or sell. Price is the slippage-adjusted
// execution price; SlippageCost is the adverse value difference between the
// reference close and the execution price for the filled size. Fills are
// immutable once appended to a ledger
type Fill struct {
	ID    uuid.UUID       `json:"id"`
	Time  time.Time       `json:"time"`
	Side  Side            `json:"side"`
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
	Fee   decimal.Decimal `json:"fee"`
	// FixedFee is the flat portion of Fee that does not scale with size.
	// Size clamping keeps it whole and shrinks only the remainder
	FixedFee     decimal.Decimal `json:"fixedFee,omitempty"`
	SlippageCost decimal.Decimal `json:"slippageCost"`
	Reason       string          `json:"reason,omitempty"`
}
