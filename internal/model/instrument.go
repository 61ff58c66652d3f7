package model

import (
	"fmt"
	"math"
	"time"
)

// Candle is a synthesized open/high/low/close point for the chart.
type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Trend is the signed percentage move of the current price against a
// reference point (baseline or lookback price).
type Trend struct {
	Percent  float64 // rounded to two decimals
	Glyph    string  // "▲" or "▼"
	Positive bool    // true when the move is >= 0
}

// String renders the trend the way the dashboard displays it, e.g. "▲ 1.23%".
func (t Trend) String() string {
	return fmt.Sprintf("%s %.2f%%", t.Glyph, math.Abs(t.Percent))
}

// Instrument is one derived entry of the in-memory market book.
type Instrument struct {
	Name     string
	Price    float64
	Baseline float64
	Trend    Trend
	Category string
	History  []float64
	Candles  []Candle

	// drift bounds, populated with feed defaults; used only by the simulator
	Min        float64
	Max        float64
	Volatility float64
}
