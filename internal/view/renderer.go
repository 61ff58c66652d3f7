package view

import (
	"log"
	"strings"

	"TickerBoard/internal/model"
)

// Renderer is the write-only rendering collaborator. Implementations own
// their own render lifecycle; the projector never queries them for state.
// A renderer missing one of its targets skips that step silently so that
// unrelated widgets keep updating.
type Renderer interface {
	RenderHeader(h Header)
	RenderWatchlist(groups []Group)
	RenderTicker(entries []TapeEntry)
	RenderSeries(series []model.Candle)
	RenderCalc(total string)
	SetStatus(online bool)
}

// Render pushes a full frame through a renderer, one widget at a time.
func Render(r Renderer, f Frame) {
	r.RenderHeader(f.Header)
	r.RenderWatchlist(f.Watchlist)
	r.RenderTicker(f.Tape)
	r.RenderSeries(f.Series)
	r.RenderCalc(f.CalcTotal)
}

// LogRenderer writes frames to the process log, the rendering surface of the
// reference binary. Widgets listed in Disabled are treated as absent targets
// and skipped without error.
type LogRenderer struct {
	Disabled map[string]bool
}

// NewLogRenderer creates a LogRenderer with every widget present.
func NewLogRenderer() *LogRenderer {
	return &LogRenderer{Disabled: map[string]bool{}}
}

func (r *LogRenderer) RenderHeader(h Header) {
	if r.Disabled["header"] || h.Name == "" {
		return
	}
	log.Printf("[INFO] header: %s %s %s", h.Name, h.Price, h.Trend)
}

func (r *LogRenderer) RenderWatchlist(groups []Group) {
	if r.Disabled["watchlist"] {
		return
	}
	for _, g := range groups {
		names := make([]string, len(g.Rows))
		for i, row := range g.Rows {
			names[i] = row.Name
		}
		log.Printf("[INFO] watchlist %s: %s", g.Category, strings.Join(names, ", "))
	}
}

func (r *LogRenderer) RenderTicker(entries []TapeEntry) {
	if r.Disabled["ticker"] || len(entries) == 0 {
		return
	}
	// Only the first half is logged; the second is the scroll loop copy.
	half := entries[:len(entries)/2]
	parts := make([]string, len(half))
	for i, e := range half {
		parts[i] = e.Name + " " + e.Price
	}
	log.Printf("[INFO] ticker: %s", strings.Join(parts, " | "))
}

func (r *LogRenderer) RenderSeries(series []model.Candle) {
	if r.Disabled["chart"] || len(series) == 0 {
		return
	}
	last := series[len(series)-1]
	log.Printf("[INFO] chart: %d candles, last close %.2f", len(series), last.Close)
}

func (r *LogRenderer) RenderCalc(total string) {
	if r.Disabled["calc"] {
		return
	}
	log.Printf("[INFO] calc total: %s", total)
}

func (r *LogRenderer) SetStatus(online bool) {
	if r.Disabled["status"] {
		return
	}
	if online {
		log.Println("[INFO] status: ● LIVE")
	} else {
		log.Println("[WARN] status: ● OFFLINE")
	}
}

// NoopRenderer discards every frame. Used when no rendering surface is
// attached, e.g. in tests exercising the refresh pipeline.
type NoopRenderer struct{}

func NewNoopRenderer() *NoopRenderer { return &NoopRenderer{} }

func (NoopRenderer) RenderHeader(Header)         {}
func (NoopRenderer) RenderWatchlist([]Group)     {}
func (NoopRenderer) RenderTicker([]TapeEntry)    {}
func (NoopRenderer) RenderSeries([]model.Candle) {}
func (NoopRenderer) RenderCalc(string)           {}
func (NoopRenderer) SetStatus(bool)              {}
