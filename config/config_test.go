package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavOdysseus/odysseus-backtester/exchange"
	"github.com/GustavOdysseus/odysseus-backtester/exchange/size"
)

const testSettingsJSON = `{
	"initial-cash": 10000,
	"fee-rate": 0.001,
	"slippage-rate": 0.0005,
	"size-policy": "fixed-fraction",
	"fraction": 0.5,
	"fill-timing": "next-bar-open",
	"periods-per-year": 252,
	"risk-free-rate": 0.02
}`

func TestLoadSettings(t *testing.T) {
	t.Parallel()
	_, err := LoadSettings([]byte(`{`))
	assert.Error(t, err)

	s, err := LoadSettings([]byte(testSettingsJSON))
	require.NoError(t, err)
	assert.Equal(t, "10000", s.InitialCash.String())
	assert.Equal(t, "0.001", s.FeeRate.String())
	assert.Equal(t, SizePolicyFixedFraction, s.SizePolicy)
	assert.Equal(t, FillTimingNextBarOpen, s.FillTiming)
	assert.Equal(t, 252.0, s.PeriodsPerYear)
}

func TestReadSettingsFromFile(t *testing.T) {
	t.Parallel()
	_, err := ReadSettingsFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	target := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(target, []byte(testSettingsJSON), 0o644))
	s, err := ReadSettingsFromFile(target)
	require.NoError(t, err)
	require.NoError(t, s.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()
	s, err := LoadSettings([]byte(testSettingsJSON))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	bad := *s
	bad.InitialCash = decimal.Zero
	assert.ErrorIs(t, bad.Validate(), errInvalidInitialCash)

	bad = *s
	bad.PeriodsPerYear = 0
	assert.ErrorIs(t, bad.Validate(), errInvalidPeriods)

	bad = *s
	bad.SizePolicy = "martingale"
	assert.ErrorIs(t, bad.Validate(), ErrUnknownSizePolicy)

	bad = *s
	bad.FillTiming = "yesterday"
	assert.ErrorIs(t, bad.Validate(), ErrUnknownFillTiming)

	bad = *s
	bad.FeeRate = decimal.NewFromInt(2)
	assert.ErrorIs(t, bad.Validate(), exchange.ErrInvalidCostModel)
}

// validation reports every fault at once rather than one per attempt
func TestValidateAggregatesFaults(t *testing.T) {
	t.Parallel()
	s, err := LoadSettings([]byte(testSettingsJSON))
	require.NoError(t, err)

	bad := *s
	bad.InitialCash = decimal.Zero
	bad.PeriodsPerYear = 0
	bad.FillTiming = "yesterday"
	err = bad.Validate()
	assert.ErrorIs(t, err, errInvalidInitialCash)
	assert.ErrorIs(t, err, errInvalidPeriods)
	assert.ErrorIs(t, err, ErrUnknownFillTiming)
	assert.Contains(t, err.Error(), ", ")
}

func TestBuildEngineSettings(t *testing.T) {
	t.Parallel()
	s, err := LoadSettings([]byte(testSettingsJSON))
	require.NoError(t, err)

	built, err := s.BuildEngineSettings()
	require.NoError(t, err)
	assert.Equal(t, "10000", built.InitialCash.String())
	assert.Equal(t, exchange.NextBarOpen, built.Timing)
	ff, ok := built.Sizer.(*size.FixedFraction)
	require.True(t, ok)
	assert.Equal(t, "0.5", ff.Fraction.String())
	assert.Equal(t, 0.02, built.RiskFreeRate)

	// the fraction defaults to all-in when the policy is named without one
	s.Fraction = decimal.Zero
	built, err = s.BuildEngineSettings()
	require.NoError(t, err)
	ff, ok = built.Sizer.(*size.FixedFraction)
	require.True(t, ok)
	assert.Equal(t, "1", ff.Fraction.String())

	s.SizePolicy = SizePolicyVolatilityScaled
	s.RiskFraction = decimal.NewFromFloat(0.02)
	built, err = s.BuildEngineSettings()
	require.NoError(t, err)
	_, ok = built.Sizer.(*size.VolatilityScaled)
	assert.True(t, ok)
}
