package candle

import (
	"math"
	"time"

	"TickerBoard/internal/model"
)

// SpreadMode selects how the synthetic high/low wicks are derived from the
// candle body.
type SpreadMode string

const (
	// SpreadMultiplicative scales the body edges: high = max(open, close) × (1 + spread).
	SpreadMultiplicative SpreadMode = "multiplicative"
	// SpreadAdditive offsets by a fraction of the close: high = max(open, close) + close × spread.
	SpreadAdditive SpreadMode = "additive"
)

// Options controls candle synthesis.
type Options struct {
	Spread   float64       // wick size fraction, e.g. 0.01
	Interval time.Duration // spacing between consecutive candles
	Mode     SpreadMode
}

// DefaultOptions matches the dashboard's observed defaults: 1% wicks,
// one candle per hour.
func DefaultOptions() Options {
	return Options{
		Spread:   0.01,
		Interval: time.Hour,
		Mode:     SpreadMultiplicative,
	}
}

// Synthesize expands a scalar price history into an OHLC series. Each point
// opens at its predecessor's price (or itself for the first point) and closes
// at its own, with wicks widened by the configured spread. Timestamps are
// spaced backward from now so the last history entry is the most recent
// candle. The result is a pure function of (history, opts, now).
func Synthesize(history []float64, opts Options, now time.Time) []model.Candle {
	if opts.Mode == "" {
		opts.Mode = SpreadMultiplicative
	}

	n := len(history)
	candles := make([]model.Candle, n)
	for i, price := range history {
		open := price
		if i > 0 {
			open = history[i-1]
		}

		high := math.Max(open, price)
		low := math.Min(open, price)
		switch opts.Mode {
		case SpreadAdditive:
			high += price * opts.Spread
			low -= price * opts.Spread
		default:
			high *= 1 + opts.Spread
			low *= 1 - opts.Spread
		}

		candles[i] = model.Candle{
			Time:  now.Add(-time.Duration(n-i) * opts.Interval),
			Open:  open,
			High:  high,
			Low:   low,
			Close: price,
		}
	}
	return candles
}
