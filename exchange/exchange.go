package exchange

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/gct-ta/indicators"

	"github.com/GustavOdysseus/odysseus-backtester/common"
	"github.com/GustavOdysseus/odysseus-backtester/exchange/size"
	"github.com/GustavOdysseus/odysseus-backtester/fill"
	"github.com/GustavOdysseus/odysseus-backtester/kline"
	"github.com/GustavOdysseus/odysseus-backtester/log"
	"github.com/GustavOdysseus/odysseus-backtester/portfolio"
	"github.com/GustavOdysseus/odysseus-backtester/signal"
)

const defaultVolatilityPeriod = 14

var one = decimal.NewFromInt(1)

// Validate ensures the cost model rates are usable
func (c *CostModel) Validate() error {
	if c.FeeRate.IsNegative() || c.FeeRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("%w: fee rate %v", ErrInvalidCostModel, c.FeeRate)
	}
	if c.SlippageRate.IsNegative() || c.SlippageRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("%w: slippage rate %v", ErrInvalidCostModel, c.SlippageRate)
	}
	if c.FixedCommission.IsNegative() {
		return fmt.Errorf("%w: fixed commission %v negative", ErrInvalidCostModel, c.FixedCommission)
	}
	return nil
}

// Run performs a single forward pass over the aligned series and signal
// set, applying every resulting fill to the supplied accountant and marking
// it to market once per candle. The returned ledger holds the applied,
// post-clamp fills in execution order.
//
// An open position remaining at the final bar is force closed at that bar's
// close so no unrealized, unmeasured position survives the run. Entries
// raised at the final bar are skipped for the same reason
func (s *Simulator) Run(series *kline.Series, signals *signal.Set, acct *portfolio.Accountant) ([]fill.Fill, error) {
	if series == nil || signals == nil || acct == nil {
		return nil, common.ErrNilArguments
	}
	if s.Sizer == nil {
		return nil, ErrNilSizer
	}
	if err := s.Cost.Validate(); err != nil {
		return nil, err
	}
	if err := signals.ValidateAgainst(series.Len()); err != nil {
		return nil, err
	}

	volatility := s.volatilityStream(series)
	var pending *pendingOrder
	for i := 0; i < series.Len(); i++ {
		c := series.Candle(i)
		last := i == series.Len()-1

		if pending != nil {
			err := s.executePending(pending, c, volatility[i], acct)
			if err != nil {
				return nil, err
			}
			pending = nil
		}

		hasPosition := acct.Position().IsOpen()
		switch s.Timing {
		case SameBarClose:
			if hasPosition && signals.Exit(i) {
				if err := s.sell(c.Time, c.Close, "", acct); err != nil {
					return nil, err
				}
			} else if !hasPosition && signals.Entry(i) && !last {
				if err := s.buy(c.Time, c.Close, volatility[i], acct); err != nil {
					return nil, err
				}
			}
		case NextBarOpen:
			if !last && ((hasPosition && signals.Exit(i)) || (!hasPosition && signals.Entry(i))) {
				pending = &pendingOrder{entry: !hasPosition}
			}
		}

		if last && acct.Position().IsOpen() {
			if err := s.sell(c.Time, c.Close, "forced close at final bar", acct); err != nil {
				return nil, err
			}
		}
		acct.MarkToMarket(c.Time, c.Close)
	}

	return acct.Fills(), nil
}

func (s *Simulator) executePending(p *pendingOrder, c kline.Candle, volatility decimal.Decimal, acct *portfolio.Accountant) error {
	if p.entry {
		if acct.Position().IsOpen() {
			return nil
		}
		return s.buy(c.Time, c.Open, volatility, acct)
	}
	if !acct.Position().IsOpen() {
		return nil
	}
	return s.sell(c.Time, c.Open, "", acct)
}

// buy opens a position at the slippage-adjusted reference price, sized
// against current equity so gains and losses compound
func (s *Simulator) buy(t time.Time, referencePrice, volatility decimal.Decimal, acct *portfolio.Accountant) error {
	buyPrice := referencePrice.Mul(one.Add(s.Cost.SlippageRate))
	equity := acct.CurrentEquity(referencePrice)
	amount, err := s.Sizer.SizeOrder(equity, buyPrice, volatility, s.Cost.FeeRate)
	if err != nil {
		if errors.Is(err, size.ErrNoFunds) || errors.Is(err, size.ErrNoVolatility) {
			log.Debugf(log.Backtester, "entry at %v skipped: %v", t.Format(time.RFC3339), err)
			return nil
		}
		return err
	}
	if !amount.IsPositive() {
		// computed size rounded to zero, not an error
		return nil
	}

	f, err := fill.New(fill.Fill{
		Time:         t,
		Side:         fill.Buy,
		Price:        buyPrice,
		Size:         amount,
		Fee:          s.fee(buyPrice, amount),
		FixedFee:     s.Cost.FixedCommission,
		SlippageCost: buyPrice.Sub(referencePrice).Mul(amount),
	})
	if err != nil {
		return err
	}
	_, err = acct.Apply(f)
	return err
}

// sell closes the full held position at the slippage-adjusted reference price
func (s *Simulator) sell(t time.Time, referencePrice decimal.Decimal, reason string, acct *portfolio.Accountant) error {
	sellPrice := referencePrice.Mul(one.Sub(s.Cost.SlippageRate))
	amount := acct.Position().Size
	f, err := fill.New(fill.Fill{
		Time:         t,
		Side:         fill.Sell,
		Price:        sellPrice,
		Size:         amount,
		Fee:          s.fee(sellPrice, amount),
		FixedFee:     s.Cost.FixedCommission,
		SlippageCost: referencePrice.Sub(sellPrice).Mul(amount),
		Reason:       reason,
	})
	if err != nil {
		return err
	}
	_, err = acct.Apply(f)
	return err
}

func (s *Simulator) fee(price, amount decimal.Decimal) decimal.Decimal {
	return price.Mul(amount).Mul(s.Cost.FeeRate).Add(s.Cost.FixedCommission)
}

// volatilityStream derives per-bar average true range readings for
// volatility-aware size policies. Bars inside the warmup window read zero
func (s *Simulator) volatilityStream(series *kline.Series) []decimal.Decimal {
	resp := make([]decimal.Decimal, series.Len())
	period := s.VolatilityPeriod
	if period <= 0 {
		period = defaultVolatilityPeriod
	}
	if series.Len() <= period {
		return resp
	}
	// the indicator output is already aligned index-for-index with the
	// candles it was computed from, so resp[i] reads only bars up to and
	// including i and needs no shift
	atr := indicators.ATR(series.HighsFloat(), series.LowsFloat(), series.ClosesFloat(), period)
	for i := range atr {
		if i >= len(resp) {
			break
		}
		resp[i] = decimal.NewFromFloat(atr[i])
	}
	return resp
}
