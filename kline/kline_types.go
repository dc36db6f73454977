package kline

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoCandles returned when a series is constructed with no candle data
	ErrNoCandles = errors.New("no candle data supplied")
	// ErrTimestampsOutOfOrder returned when candle timestamps are not strictly increasing
	ErrTimestampsOutOfOrder = errors.New("candle timestamps must be strictly increasing")
	// ErrInvalidCandle returned when OHLC values are inconsistent
	ErrInvalidCandle = errors.New("invalid candle data")
	// ErrInvalidRange returned when slicing a series outside its bounds
	ErrInvalidRange = errors.New("invalid series range")
)

// Candle is one OHLCV interval of price data
type Candle struct {
	Time   time.Time       `json:"time"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

// Series is an immutable, time-ordered sequence of candles. All engine
// computation is keyed against one Series. Construct via NewSeries which
// validates ordering; the candle slice is copied and never mutated after
type Series struct {
	candles []Candle
}
