package fill

import (
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// New creates a validated fill with a fresh ID
func New(t Fill) (Fill, error) {
	if t.Side != Buy && t.Side != Sell {
		return Fill{}, fmt.Errorf("%w '%v'", ErrInvalidSide, t.Side)
	}
	if !t.Price.IsPositive() || !t.Size.IsPositive() {
		return Fill{}, fmt.Errorf("%w: price %v size %v", ErrInvalidFill, t.Price, t.Size)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return Fill{}, err
	}
	t.ID = id
	return t, nil
}

// Notional returns price multiplied by size
func (f *Fill) Notional() decimal.Decimal {
	return f.Price.Mul(f.Size)
}

// TotalCost returns the cash impact of the fill including fees.
// Positive for buys, the proceeds are implied for sells
func (f *Fill) TotalCost() decimal.Decimal {
	return f.Notional().Add(f.Fee)
}
