package portfolio

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavOdysseus/odysseus-backtester/fill"
)

var (
	// ErrInvalidInitialCash returned when an accountant is created without
	// positive starting funds
	ErrInvalidInitialCash = errors.New("initial cash must be positive")
	// ErrNoOpenPosition returned when a sell fill arrives with nothing held
	ErrNoOpenPosition = errors.New("no open position to sell")
	// ErrSeriesMismatch returned when replaying fills against a series that
	// does not cover them
	ErrSeriesMismatch = errors.New("fill ledger does not align with price series")
)

// Position is the aggregate holding for one run, maintained with
// weighted-average cost accounting. It exists only for the lifetime of the
// accountant that owns it
type Position struct {
	Size             decimal.Decimal `json:"size"`
	AverageCostBasis decimal.Decimal `json:"averageCostBasis"`
}

// IsOpen reports whether any units are held
func (p Position) IsOpen() bool {
	return p.Size.IsPositive()
}

// EquityPoint is one mark-to-market observation. One is produced per price
// series timestamp, not only on fill timestamps, so drawdown can be measured
// between trades
type EquityPoint struct {
	Time          time.Time       `json:"time"`
	Cash          decimal.Decimal `json:"cash"`
	PositionValue decimal.Decimal `json:"positionValue"`
	TotalEquity   decimal.Decimal `json:"totalEquity"`
}

// Trade is a closed round trip of one entry fill and one exit fill
type Trade struct {
	Entry           fill.Fill       `json:"entry"`
	Exit            fill.Fill       `json:"exit"`
	PNL             decimal.Decimal `json:"pnl"`
	ReturnPercent   decimal.Decimal `json:"returnPercent"`
	HoldingDuration time.Duration   `json:"holdingDuration"`
}

// ClampEvent records a fill whose size was reduced to keep cash from going
// negative or to avoid overselling the held position. Recovered locally,
// never raised as an error
type ClampEvent struct {
	Time          time.Time       `json:"time"`
	RequestedSize decimal.Decimal `json:"requestedSize"`
	ClampedSize   decimal.Decimal `json:"clampedSize"`
	Reason        string          `json:"reason"`
}

// Accountant maintains exact cash and position bookkeeping for one run.
// It is deliberately decoupled from how fills were generated so that
// externally supplied fill streams can be replayed through identical logic
type Accountant struct {
	initialCash decimal.Decimal
	cash        decimal.Decimal
	position    Position
	fills       []fill.Fill
	equity      []EquityPoint
	clamps      []ClampEvent
}
