package size

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// SizeOrder calculates the affordable amount for a fraction of equity.
// The fee is factored ahead of ordering so the notional plus its
// proportional fee remains within the allocated funds
func (f *FixedFraction) SizeOrder(equity, price, _, feeRate decimal.Decimal) (decimal.Decimal, error) {
	if f.Fraction.LessThanOrEqual(decimal.Zero) || f.Fraction.GreaterThan(one) {
		return decimal.Zero, fmt.Errorf("%w: fraction %v outside (0, 1]", ErrInvalidSettings, f.Fraction)
	}
	if !equity.IsPositive() {
		return decimal.Zero, ErrNoFunds
	}
	if !price.IsPositive() {
		return decimal.Zero, nil
	}
	allocated := equity.Mul(f.Fraction)
	return allocated.Mul(one.Sub(feeRate)).Div(price), nil
}

// Name returns the policy name
func (f *FixedFraction) Name() string {
	return "FixedFraction"
}

// SizeOrder returns the configured unit count irrespective of equity.
// Overdraw protection belongs to the accountant, not the policy
func (f *FixedUnits) SizeOrder(equity, _, _, _ decimal.Decimal) (decimal.Decimal, error) {
	if f.Units.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: units %v not positive", ErrInvalidSettings, f.Units)
	}
	if !equity.IsPositive() {
		return decimal.Zero, ErrNoFunds
	}
	return f.Units, nil
}

// Name returns the policy name
func (f *FixedUnits) Name() string {
	return "FixedUnits"
}

// SizeOrder risks RiskFraction of equity per unit of volatility, capped at
// the fee-adjusted affordable amount so quiet markets cannot overdraw cash
func (v *VolatilityScaled) SizeOrder(equity, price, volatility, feeRate decimal.Decimal) (decimal.Decimal, error) {
	if v.RiskFraction.LessThanOrEqual(decimal.Zero) || v.RiskFraction.GreaterThan(one) {
		return decimal.Zero, fmt.Errorf("%w: risk fraction %v outside (0, 1]", ErrInvalidSettings, v.RiskFraction)
	}
	if !equity.IsPositive() {
		return decimal.Zero, ErrNoFunds
	}
	if !volatility.IsPositive() {
		return decimal.Zero, ErrNoVolatility
	}
	if !price.IsPositive() {
		return decimal.Zero, nil
	}
	amount := equity.Mul(v.RiskFraction).Div(volatility)
	affordable := equity.Mul(one.Sub(feeRate)).Div(price)
	if amount.GreaterThan(affordable) {
		amount = affordable
	}
	return amount, nil
}

// Name returns the policy name
func (v *VolatilityScaled) Name() string {
	return "VolatilityScaled"
}
