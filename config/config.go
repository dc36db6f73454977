// Package config loads and validates run settings from JSON documents and
// converts them into the engine's native types
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/GustavOdysseus/odysseus-backtester/common"
	"github.com/GustavOdysseus/odysseus-backtester/engine"
	"github.com/GustavOdysseus/odysseus-backtester/exchange"
	"github.com/GustavOdysseus/odysseus-backtester/exchange/size"
)

// ReadSettingsFromFile loads run settings from a JSON file
func ReadSettingsFromFile(path string) (*Settings, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadSettings(fileData)
}

// LoadSettings unmarshals byte data into a settings struct
func LoadSettings(data []byte) (resp *Settings, err error) {
	err = json.Unmarshal(data, &resp)
	return resp, err
}

// Validate checks every configured value without building anything and
// reports all faults in one pass rather than stopping at the first
func (s *Settings) Validate() error {
	var resp error
	if !s.InitialCash.IsPositive() {
		resp = common.AppendError(resp, fmt.Errorf("%w: %v", errInvalidInitialCash, s.InitialCash))
	}
	if s.PeriodsPerYear <= 0 {
		resp = common.AppendError(resp, fmt.Errorf("%w: %v", errInvalidPeriods, s.PeriodsPerYear))
	}
	if _, err := s.sizer(); err != nil {
		resp = common.AppendError(resp, err)
	}
	if _, err := s.fillTiming(); err != nil {
		resp = common.AppendError(resp, err)
	}
	cost := exchange.CostModel{
		FeeRate:         s.FeeRate,
		SlippageRate:    s.SlippageRate,
		FixedCommission: s.FixedCommission,
	}
	if err := cost.Validate(); err != nil {
		resp = common.AppendError(resp, err)
	}
	return resp
}

// BuildEngineSettings converts validated configuration into the engine's
// run settings
func (s *Settings) BuildEngineSettings() (*engine.Settings, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	sizer, err := s.sizer()
	if err != nil {
		return nil, err
	}
	timing, err := s.fillTiming()
	if err != nil {
		return nil, err
	}
	return &engine.Settings{
		InitialCash: s.InitialCash,
		Cost: exchange.CostModel{
			FeeRate:         s.FeeRate,
			SlippageRate:    s.SlippageRate,
			FixedCommission: s.FixedCommission,
		},
		Sizer:            sizer,
		Timing:           timing,
		VolatilityPeriod: s.VolatilityPeriod,
		PeriodsPerYear:   s.PeriodsPerYear,
		RiskFreeRate:     s.RiskFreeRate,
	}, nil
}

func (s *Settings) sizer() (size.Sizer, error) {
	switch s.SizePolicy {
	case SizePolicyFixedFraction, "":
		fraction := s.Fraction
		if fraction.IsZero() {
			fraction = decimalOne
		}
		return &size.FixedFraction{Fraction: fraction}, nil
	case SizePolicyFixedUnits:
		return &size.FixedUnits{Units: s.Units}, nil
	case SizePolicyVolatilityScaled:
		return &size.VolatilityScaled{RiskFraction: s.RiskFraction}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownSizePolicy, s.SizePolicy)
}

func (s *Settings) fillTiming() (exchange.FillTiming, error) {
	switch s.FillTiming {
	case FillTimingSameBarClose, "":
		return exchange.SameBarClose, nil
	case FillTimingNextBarOpen:
		return exchange.NextBarOpen, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownFillTiming, s.FillTiming)
}
