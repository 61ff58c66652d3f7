package view

import (
	"fmt"
	"strings"

	"TickerBoard/internal/calculator"
	"TickerBoard/internal/market"
	"TickerBoard/internal/model"
)

// UnknownCategoryPolicy decides what happens to instruments whose category
// is not in the configured display order.
type UnknownCategoryPolicy string

const (
	// UnknownOmit silently drops them from the watchlist, matching the
	// legacy dashboard behavior.
	UnknownOmit UnknownCategoryPolicy = "omit"
	// UnknownAppend adds their categories after the configured ones, in
	// first-seen order.
	UnknownAppend UnknownCategoryPolicy = "append"
)

// DefaultCategories is the watchlist display order used by the dashboard.
var DefaultCategories = []string{"Trending", "Main", "Penny Index", "MEME COINS"}

// Header carries the fields of the selected-instrument panel.
type Header struct {
	Name     string
	Price    string // "%.2f"
	Trend    string // "▲ 1.23%"
	Positive bool
}

// Row is one watchlist line.
type Row struct {
	Name     string
	Price    string
	Trend    string
	Positive bool
	Selected bool
}

// Group is one category section of the watchlist. Empty groups are never
// emitted.
type Group struct {
	Category string
	Rows     []Row
}

// TapeEntry is one name/price pair on the scrolling ticker.
type TapeEntry struct {
	Name     string
	Price    string
	Positive bool
}

// Frame is one complete set of render instructions for the board.
type Frame struct {
	Header    Header
	Watchlist []Group
	Tape      []TapeEntry // content duplicated once for seamless looping
	Series    []model.Candle
	CalcTotal string
}

// Projector turns the market book into render instructions. It is pure: the
// same book, filter and quantity always produce the same Frame.
type Projector struct {
	Categories []string
	Unknown    UnknownCategoryPolicy
}

// NewProjector creates a Projector with the given category order. A nil list
// uses DefaultCategories.
func NewProjector(categories []string, unknown UnknownCategoryPolicy) *Projector {
	if categories == nil {
		categories = DefaultCategories
	}
	if unknown == "" {
		unknown = UnknownAppend
	}
	return &Projector{Categories: categories, Unknown: unknown}
}

// Project derives the full frame: header for the selected instrument, the
// grouped and filtered watchlist, the looping ticker tape, the candle series
// and the calculator total. The filter is a case-insensitive substring match
// on instrument names.
func (p *Projector) Project(book *market.Book, filter string, quantity float64) Frame {
	frame := Frame{}

	if sel := book.Selected(); sel != nil {
		frame.Header = Header{
			Name:     sel.Name,
			Price:    fmt.Sprintf("%.2f", sel.Price),
			Trend:    sel.Trend.String(),
			Positive: sel.Trend.Positive,
		}
		frame.Series = sel.Candles
		frame.CalcTotal = calculator.FormatTotal(quantity, sel.Price)
	} else {
		frame.CalcTotal = calculator.FormatTotal(quantity, 0)
	}

	frame.Watchlist = p.watchlist(book, strings.ToLower(filter))
	frame.Tape = tape(book)
	return frame
}

func (p *Projector) watchlist(book *market.Book, filter string) []Group {
	categories := p.Categories
	if p.Unknown == UnknownAppend {
		categories = append(append([]string(nil), categories...), p.extraCategories(book)...)
	}

	var groups []Group
	for _, cat := range categories {
		var rows []Row
		for _, name := range book.Names() {
			inst, _ := book.Get(name)
			if inst.Category != cat {
				continue
			}
			if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
				continue
			}
			rows = append(rows, Row{
				Name:     name,
				Price:    fmt.Sprintf("%.2f", inst.Price),
				Trend:    inst.Trend.String(),
				Positive: inst.Trend.Positive,
				Selected: name == book.SelectedName(),
			})
		}
		if len(rows) > 0 {
			groups = append(groups, Group{Category: cat, Rows: rows})
		}
	}
	return groups
}

// extraCategories returns categories present in the book but missing from
// the configured order, in first-seen order.
func (p *Projector) extraCategories(book *market.Book) []string {
	known := make(map[string]bool, len(p.Categories))
	for _, c := range p.Categories {
		known[c] = true
	}

	var extras []string
	for _, name := range book.Names() {
		inst, _ := book.Get(name)
		if !known[inst.Category] {
			known[inst.Category] = true
			extras = append(extras, inst.Category)
		}
	}
	return extras
}

func tape(book *market.Book) []TapeEntry {
	names := book.Names()
	if len(names) == 0 {
		return nil
	}

	entries := make([]TapeEntry, 0, len(names)*2)
	for _, name := range names {
		inst, _ := book.Get(name)
		entries = append(entries, TapeEntry{
			Name:     name,
			Price:    fmt.Sprintf("%.2f", inst.Price),
			Positive: inst.Trend.Positive,
		})
	}
	// The scroller loops seamlessly only when the content repeats once.
	return append(entries, entries...)
}
