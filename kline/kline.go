package kline

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NewSeries validates candle data and returns an immutable Series.
// Timestamps must be strictly increasing, duplicates are rejected, gaps are
// permitted. High must be at least Low for every candle
func NewSeries(candles []Candle) (*Series, error) {
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	c := make([]Candle, len(candles))
	copy(c, candles)
	for i := range c {
		if c[i].High.LessThan(c[i].Low) {
			return nil, fmt.Errorf("%w at %v: high %v below low %v",
				ErrInvalidCandle, c[i].Time, c[i].High, c[i].Low)
		}
		if i == 0 {
			continue
		}
		if !c[i].Time.After(c[i-1].Time) {
			return nil, fmt.Errorf("%w: %v does not follow %v",
				ErrTimestampsOutOfOrder, c[i].Time, c[i-1].Time)
		}
	}
	return &Series{candles: c}, nil
}

// Len returns the number of candles held
func (s *Series) Len() int {
	return len(s.candles)
}

// Candle returns the candle at offset i
func (s *Series) Candle(i int) Candle {
	return s.candles[i]
}

// Candles returns a copy of all held candles
func (s *Series) Candles() []Candle {
	c := make([]Candle, len(s.candles))
	copy(c, s.candles)
	return c
}

// First returns the earliest candle
func (s *Series) First() Candle {
	return s.candles[0]
}

// Last returns the most recent candle
func (s *Series) Last() Candle {
	return s.candles[len(s.candles)-1]
}

// Slice returns a new Series covering candles [from, to).
// Used by walk-forward optimization to carve train and test windows
func (s *Series) Slice(from, to int) (*Series, error) {
	if from < 0 || to > len(s.candles) || from >= to {
		return nil, fmt.Errorf("%w [%v, %v) of %v candles", ErrInvalidRange, from, to, len(s.candles))
	}
	return NewSeries(s.candles[from:to])
}

// Timestamps returns every candle time in order
func (s *Series) Timestamps() []time.Time {
	t := make([]time.Time, len(s.candles))
	for i := range s.candles {
		t[i] = s.candles[i].Time
	}
	return t
}

// StreamOpen returns all open prices
func (s *Series) StreamOpen() []decimal.Decimal {
	return s.stream(func(c Candle) decimal.Decimal { return c.Open })
}

// StreamHigh returns all high prices
func (s *Series) StreamHigh() []decimal.Decimal {
	return s.stream(func(c Candle) decimal.Decimal { return c.High })
}

// StreamLow returns all low prices
func (s *Series) StreamLow() []decimal.Decimal {
	return s.stream(func(c Candle) decimal.Decimal { return c.Low })
}

// StreamClose returns all close prices
func (s *Series) StreamClose() []decimal.Decimal {
	return s.stream(func(c Candle) decimal.Decimal { return c.Close })
}

// StreamVol returns all volumes
func (s *Series) StreamVol() []decimal.Decimal {
	return s.stream(func(c Candle) decimal.Decimal { return c.Volume })
}

func (s *Series) stream(sel func(Candle) decimal.Decimal) []decimal.Decimal {
	resp := make([]decimal.Decimal, len(s.candles))
	for i := range s.candles {
		resp[i] = sel(s.candles[i])
	}
	return resp
}

// ClosesFloat returns close prices as float64 for indicator libraries
func (s *Series) ClosesFloat() []float64 {
	return s.streamFloat(func(c Candle) decimal.Decimal { return c.Close })
}

// HighsFloat returns high prices as float64 for indicator libraries
func (s *Series) HighsFloat() []float64 {
	return s.streamFloat(func(c Candle) decimal.Decimal { return c.High })
}

// LowsFloat returns low prices as float64 for indicator libraries
func (s *Series) LowsFloat() []float64 {
	return s.streamFloat(func(c Candle) decimal.Decimal { return c.Low })
}

func (s *Series) streamFloat(sel func(Candle) decimal.Decimal) []float64 {
	resp := make([]float64, len(s.candles))
	for i := range s.candles {
		resp[i] = sel(s.candles[i]).InexactFloat64()
	}
	return resp
}
