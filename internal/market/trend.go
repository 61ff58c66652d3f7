package market

import (
	"TickerBoard/internal/calculator"
	"TickerBoard/internal/model"
)

// TrendMode selects the reference point for the percentage move.
type TrendMode string

const (
	// TrendBaseline compares the current price to the instrument baseline
	// (its Original feed value, or the configured fallback).
	TrendBaseline TrendMode = "baseline"
	// TrendLookback compares the current price to the price N steps back in
	// the history, a short-window momentum trend.
	TrendLookback TrendMode = "lookback"
)

// BaselineFallback picks the baseline when the feed carries no usable
// Original value. The two choices produce different trends on first load,
// so the ambiguity is exposed as configuration.
type BaselineFallback string

const (
	FallbackFirst   BaselineFallback = "first"   // first history entry
	FallbackCurrent BaselineFallback = "current" // current price
)

// computeTrend derives the signed percentage move of the last history entry
// against the reference chosen by mode. A reference of exactly zero yields a
// 0% trend rather than Inf/NaN. A move of zero counts as non-negative, so it
// displays with the up glyph.
func computeTrend(history []float64, baseline float64, mode TrendMode, lookback int) model.Trend {
	price := history[len(history)-1]

	ref := baseline
	if mode == TrendLookback {
		idx := len(history) - 1 - lookback
		if idx < 0 {
			idx = 0
		}
		ref = history[idx]
	}

	diff := price - ref
	percent := 0.0
	if ref != 0 {
		percent = calculator.Round2(diff / ref * 100)
	}

	t := model.Trend{Percent: percent, Positive: diff >= 0}
	if t.Positive {
		t.Glyph = "▲"
	} else {
		t.Glyph = "▼"
	}
	return t
}
