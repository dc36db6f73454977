package portfolio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavOdysseus/odysseus-backtester/common"
	"github.com/GustavOdysseus/odysseus-backtester/fill"
	"github.com/GustavOdysseus/odysseus-backtester/kline"
	"github.com/GustavOdysseus/odysseus-backtester/log"
)

// sizePrecision is the decimal precision fill sizes are truncated to when
// clamping. Truncation rather than rounding guarantees the clamped cost
// never exceeds available cash
const sizePrecision = 8

// NewAccountant returns an accountant holding initialCash and no position
func NewAccountant(initialCash decimal.Decimal) (*Accountant, error) {
	if !initialCash.IsPositive() {
		return nil, fmt.Errorf("%w, received %v", ErrInvalidInitialCash, initialCash)
	}
	return &Accountant{
		initialCash: initialCash,
		cash:        initialCash,
	}, nil
}

// Apply updates cash and position state for a fill. Buys that would overdraw
// cash and sells that exceed the held size are clamped to the maximum
// affordable size and recorded as a ClampEvent rather than rejected. The
// returned fill is the applied, possibly reduced, fill; a zero-size return
// means the fill was skipped entirely
func (a *Accountant) Apply(f fill.Fill) (fill.Fill, error) {
	if !f.Price.IsPositive() || !f.Size.IsPositive() {
		return fill.Fill{}, fmt.Errorf("%w: price %v size %v", fill.ErrInvalidFill, f.Price, f.Size)
	}
	switch f.Side {
	case fill.Buy:
		return a.applyBuy(f)
	case fill.Sell:
		return a.applySell(f)
	default:
		return fill.Fill{}, fmt.Errorf("%w '%v'", fill.ErrInvalidSide, f.Side)
	}
}

func (a *Accountant) applyBuy(f fill.Fill) (fill.Fill, error) {
	cost := f.TotalCost()
	if cost.GreaterThan(a.cash) {
		requested := f.Size
		// the flat commission is owed in full whatever size fills, so
		// only price and the proportional fee scale the affordable size
		variableFeePerUnit := f.Fee.Sub(f.FixedFee).Div(f.Size)
		slippagePerUnit := f.SlippageCost.Div(f.Size)
		costPerUnit := f.Price.Add(variableFeePerUnit)
		available := a.cash.Sub(f.FixedFee)
		var maxSize decimal.Decimal
		if available.IsPositive() {
			maxSize = available.Div(costPerUnit).Truncate(sizePrecision)
		}
		a.clamps = append(a.clamps, ClampEvent{
			Time:          f.Time,
			RequestedSize: requested,
			ClampedSize:   maxSize,
			Reason:        fmt.Sprintf("cost %v exceeds cash %v", cost, a.cash),
		})
		log.Warnf(log.Portfolio, "SizeClamped %v buy %v -> %v, cost %v exceeds cash %v",
			f.Time.Format(time.RFC3339), requested, maxSize, cost, a.cash)
		if !maxSize.IsPositive() {
			return fill.Fill{}, nil
		}
		f.Size = maxSize
		f.Fee = variableFeePerUnit.Mul(maxSize).Add(f.FixedFee)
		f.SlippageCost = slippagePerUnit.Mul(maxSize)
	}

	notional := f.Notional()
	a.cash = a.cash.Sub(notional).Sub(f.Fee)
	if a.position.IsOpen() {
		held := a.position.Size.Mul(a.position.AverageCostBasis)
		newSize := a.position.Size.Add(f.Size)
		a.position.AverageCostBasis = held.Add(notional).Div(newSize)
		a.position.Size = newSize
	} else {
		a.position.Size = f.Size
		a.position.AverageCostBasis = f.Price
	}
	a.fills = append(a.fills, f)
	return f, nil
}

func (a *Accountant) applySell(f fill.Fill) (fill.Fill, error) {
	if !a.position.IsOpen() {
		return fill.Fill{}, fmt.Errorf("%w at %v", ErrNoOpenPosition, f.Time)
	}
	if f.Size.GreaterThan(a.position.Size) {
		requested := f.Size
		variableFeePerUnit := f.Fee.Sub(f.FixedFee).Div(f.Size)
		slippagePerUnit := f.SlippageCost.Div(f.Size)
		a.clamps = append(a.clamps, ClampEvent{
			Time:          f.Time,
			RequestedSize: requested,
			ClampedSize:   a.position.Size,
			Reason:        fmt.Sprintf("sell %v exceeds held %v", requested, a.position.Size),
		})
		log.Warnf(log.Portfolio, "SizeClamped %v sell %v -> %v, exceeds held size",
			f.Time.Format(time.RFC3339), requested, a.position.Size)
		f.Size = a.position.Size
		f.Fee = variableFeePerUnit.Mul(f.Size).Add(f.FixedFee)
		f.SlippageCost = slippagePerUnit.Mul(f.Size)
	}

	a.cash = a.cash.Add(f.Notional()).Sub(f.Fee)
	a.position.Size = a.position.Size.Sub(f.Size)
	if !a.position.IsOpen() {
		a.position = Position{}
	}
	a.fills = append(a.fills, f)
	return f, nil
}

// MarkToMarket values the holding at a close price and appends one equity
// point. Call once per price series timestamp, after any fills for that
// timestamp have been applied
func (a *Accountant) MarkToMarket(t time.Time, closePrice decimal.Decimal) EquityPoint {
	positionValue := a.position.Size.Mul(closePrice)
	point := EquityPoint{
		Time:          t,
		Cash:          a.cash,
		PositionValue: positionValue,
		TotalEquity:   a.cash.Add(positionValue),
	}
	a.equity = append(a.equity, point)
	return point
}

// CurrentEquity returns cash plus the position valued at markPrice
func (a *Accountant) CurrentEquity(markPrice decimal.Decimal) decimal.Decimal {
	return a.cash.Add(a.position.Size.Mul(markPrice))
}

// Cash returns uncommitted funds
func (a *Accountant) Cash() decimal.Decimal {
	return a.cash
}

// InitialCash returns the opening funds
func (a *Accountant) InitialCash() decimal.Decimal {
	return a.initialCash
}

// Position returns the current holding
func (a *Accountant) Position() Position {
	return a.position
}

// Fills returns a copy of the applied fill ledger
func (a *Accountant) Fills() []fill.Fill {
	f := make([]fill.Fill, len(a.fills))
	copy(f, a.fills)
	return f
}

// EquityCurve returns a copy of all mark-to-market observations
func (a *Accountant) EquityCurve() []EquityPoint {
	e := make([]EquityPoint, len(a.equity))
	copy(e, a.equity)
	return e
}

// ClampEvents returns a copy of all recorded size clamps
func (a *Accountant) ClampEvents() []ClampEvent {
	c := make([]ClampEvent, len(a.clamps))
	copy(c, a.clamps)
	return c
}

// CloseTrades pairs sequential opposite-side fills into round trips. Each
// entry and exit cycle yields exactly one trade. PNL is net of both fills'
// fees; the return is expressed as a percentage of the entry cost
func (a *Accountant) CloseTrades() []Trade {
	var trades []Trade
	var entry *fill.Fill
	for i := range a.fills {
		switch a.fills[i].Side {
		case fill.Buy:
			if entry == nil {
				entry = &a.fills[i]
			}
		case fill.Sell:
			if entry == nil {
				continue
			}
			exit := a.fills[i]
			entryCost := entry.TotalCost()
			pnl := exit.Notional().Sub(exit.Fee).Sub(entryCost)
			var returnPercent decimal.Decimal
			if entryCost.IsPositive() {
				returnPercent = pnl.Div(entryCost).Mul(decimal.NewFromInt(100))
			}
			trades = append(trades, Trade{
				Entry:           *entry,
				Exit:            exit,
				PNL:             pnl,
				ReturnPercent:   returnPercent,
				HoldingDuration: exit.Time.Sub(entry.Time),
			})
			entry = nil
		}
	}
	return trades
}

// Replay feeds an externally supplied fill ledger through fresh accounting
// logic against a price series, reproducing the equity curve and trade
// ledger the original run produced. Fills are applied at their matching
// candle timestamp before that candle is marked
func Replay(initialCash decimal.Decimal, fills []fill.Fill, series *kline.Series) (*Accountant, error) {
	if series == nil {
		return nil, fmt.Errorf("%w for price series", common.ErrNilPointer)
	}
	a, err := NewAccountant(initialCash)
	if err != nil {
		return nil, err
	}
	next := 0
	for i := 0; i < series.Len(); i++ {
		c := series.Candle(i)
		for next < len(fills) && fills[next].Time.Equal(c.Time) {
			if _, err = a.Apply(fills[next]); err != nil {
				return nil, err
			}
			next++
		}
		a.MarkToMarket(c.Time, c.Close)
	}
	if next != len(fills) {
		return nil, fmt.Errorf("%w: %v of %v fills matched", ErrSeriesMismatch, next, len(fills))
	}
	return a, nil
}
