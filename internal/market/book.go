package market

import (
	"time"

	"TickerBoard/internal/candle"
	"TickerBoard/internal/model"
)

// Drift bound defaults applied when the feed omits them.
const (
	defaultVolatility = 1
	defaultMin        = 1
	defaultMax        = 99999
)

// Options configures how instrument records are derived from a snapshot.
type Options struct {
	TrendMode TrendMode
	Lookback  int // steps back for TrendLookback
	Fallback  BaselineFallback
	Candle    candle.Options
}

// DefaultOptions returns the derivation defaults: all-time baseline trend,
// 10-step lookback window, first-entry fallback, standard candles.
func DefaultOptions() Options {
	return Options{
		TrendMode: TrendBaseline,
		Lookback:  10,
		Fallback:  FallbackFirst,
		Candle:    candle.DefaultOptions(),
	}
}

// Book is the in-memory market model: every derived instrument plus the
// current selection. It replaces the ambient globals of a typical dashboard
// script with one explicit state object. The Book itself is not safe for
// concurrent use; the scheduler serializes all access.
type Book struct {
	opts        Options
	instruments map[string]*model.Instrument
	order       []string
	selected    string
}

// NewBook creates an empty Book.
func NewBook(opts Options) *Book {
	if opts.Lookback <= 0 {
		opts.Lookback = 10
	}
	if opts.TrendMode == "" {
		opts.TrendMode = TrendBaseline
	}
	if opts.Fallback == "" {
		opts.Fallback = FallbackFirst
	}
	return &Book{
		opts:        opts,
		instruments: make(map[string]*model.Instrument),
	}
}

// Apply rebuilds the book from a snapshot. The rebuild is stateless: every
// instrument is re-derived from scratch and entries absent from the snapshot
// disappear. The selection persists when its instrument survives, otherwise
// it falls back to the first instrument in document order.
func (b *Book) Apply(snap *model.Snapshot, now time.Time) {
	b.instruments = make(map[string]*model.Instrument, len(snap.Entries))
	b.order = make([]string, 0, len(snap.Order))

	for _, name := range snap.Order {
		b.instruments[name] = b.derive(name, snap.Entries[name], now)
		b.order = append(b.order, name)
	}

	if _, ok := b.instruments[b.selected]; !ok {
		b.selected = ""
		if len(b.order) > 0 {
			b.selected = b.order[0]
		}
	}
}

func (b *Book) derive(name string, entry model.SnapshotEntry, now time.Time) *model.Instrument {
	history := append([]float64(nil), entry.History...)
	if len(history) == 0 {
		history = []float64{0}
	}
	price := history[len(history)-1]

	baseline := price
	switch {
	case entry.Original != nil && *entry.Original != 0:
		baseline = *entry.Original
	case b.opts.Fallback == FallbackFirst:
		baseline = history[0]
	}

	category := entry.Category
	if category == "" {
		category = "Main"
	}

	inst := &model.Instrument{
		Name:       name,
		Price:      price,
		Baseline:   baseline,
		Category:   category,
		History:    history,
		Trend:      computeTrend(history, baseline, b.opts.TrendMode, b.opts.Lookback),
		Candles:    candle.Synthesize(history, b.opts.Candle, now),
		Volatility: defaultVolatility,
		Min:        defaultMin,
		Max:        defaultMax,
	}
	if entry.Volatility != nil {
		inst.Volatility = *entry.Volatility
	}
	if entry.Min != nil {
		inst.Min = *entry.Min
	}
	if entry.Max != nil {
		inst.Max = *entry.Max
	}
	return inst
}

// AppendPrice pushes a new price onto an instrument's history, truncating to
// limit when positive, and re-derives its trend and candles. Used by the
// drift simulator; unknown names are ignored.
func (b *Book) AppendPrice(name string, price float64, limit int, now time.Time) {
	inst, ok := b.instruments[name]
	if !ok {
		return
	}

	inst.History = append(inst.History, price)
	if limit > 0 && len(inst.History) > limit {
		inst.History = inst.History[len(inst.History)-limit:]
	}
	inst.Price = price
	inst.Trend = computeTrend(inst.History, inst.Baseline, b.opts.TrendMode, b.opts.Lookback)
	inst.Candles = candle.Synthesize(inst.History, b.opts.Candle, now)
}

// Select changes the current instrument. Returns false for unknown names,
// leaving the selection untouched.
func (b *Book) Select(name string) bool {
	if _, ok := b.instruments[name]; !ok {
		return false
	}
	b.selected = name
	return true
}

// Selected returns the currently selected instrument, or nil when the book
// is empty.
func (b *Book) Selected() *model.Instrument {
	return b.instruments[b.selected]
}

// SelectedName returns the current selection key, "" when empty.
func (b *Book) SelectedName() string { return b.selected }

// Get returns an instrument by name.
func (b *Book) Get(name string) (*model.Instrument, bool) {
	inst, ok := b.instruments[name]
	return inst, ok
}

// Names returns instrument names in document order.
func (b *Book) Names() []string { return b.order }

// Len returns the number of instruments.
func (b *Book) Len() int { return len(b.order) }

// Snapshot exports the book's current state back into the feed document
// shape, preserving instrument order. Used by the simulator's write-back.
func (b *Book) Snapshot() *model.Snapshot {
	snap := &model.Snapshot{
		Entries: make(map[string]model.SnapshotEntry, len(b.order)),
		Order:   append([]string(nil), b.order...),
	}
	for _, name := range b.order {
		inst := b.instruments[name]
		entry := model.SnapshotEntry{
			History:  append([]float64(nil), inst.History...),
			Category: inst.Category,
		}
		vol, lo, hi := inst.Volatility, inst.Min, inst.Max
		entry.Volatility = &vol
		entry.Min = &lo
		entry.Max = &hi
		if inst.Baseline != 0 {
			baseline := inst.Baseline
			entry.Original = &baseline
		}
		snap.Entries[name] = entry
	}
	return snap
}
