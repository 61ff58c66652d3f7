package view

import (
	"encoding/json"
	"testing"
	"time"

	"TickerBoard/internal/market"
	"TickerBoard/internal/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func buildBook(t *testing.T, raw string) *market.Book {
	t.Helper()
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("parse snapshot: %v", err)
	}
	book := market.NewBook(market.DefaultOptions())
	book.Apply(&snap, testNow)
	return book
}

func TestProject_Header(t *testing.T) {
	book := buildBook(t, `{"BTC": {"History": [100, 110], "Original": 100, "Category": "Main"}}`)
	p := NewProjector(nil, UnknownOmit)

	frame := p.Project(book, "", 0)
	if frame.Header.Name != "BTC" {
		t.Errorf("expected header BTC, got %q", frame.Header.Name)
	}
	if frame.Header.Price != "110.00" {
		t.Errorf("expected price 110.00, got %q", frame.Header.Price)
	}
	if frame.Header.Trend != "▲ 10.00%" {
		t.Errorf("unexpected trend text: %q", frame.Header.Trend)
	}
	if !frame.Header.Positive {
		t.Error("expected positive header")
	}
	if len(frame.Series) != 2 {
		t.Errorf("expected 2 candles in series, got %d", len(frame.Series))
	}
}

func TestProject_WatchlistFilter(t *testing.T) {
	book := buildBook(t, `{
		"BTC":  {"History": [100], "Category": "Main"},
		"DOGE": {"History": [1], "Category": "MEME COINS"}
	}`)
	p := NewProjector(nil, UnknownOmit)

	frame := p.Project(book, "do", 0)
	if len(frame.Watchlist) != 1 {
		t.Fatalf("expected 1 group, got %d", len(frame.Watchlist))
	}
	group := frame.Watchlist[0]
	if group.Category != "MEME COINS" {
		t.Errorf("expected MEME COINS group, got %q", group.Category)
	}
	if len(group.Rows) != 1 || group.Rows[0].Name != "DOGE" {
		t.Errorf("expected only DOGE, got %+v", group.Rows)
	}
}

func TestProject_FilterIsCaseInsensitive(t *testing.T) {
	book := buildBook(t, `{"DOGE": {"History": [1], "Category": "MEME COINS"}}`)
	p := NewProjector(nil, UnknownOmit)

	for _, filter := range []string{"DOGE", "doge", "OG"} {
		frame := p.Project(book, filter, 0)
		if len(frame.Watchlist) != 1 {
			t.Errorf("filter %q: expected a match", filter)
		}
	}
	if frame := p.Project(book, "btc", 0); len(frame.Watchlist) != 0 {
		t.Error("non-matching filter should empty the watchlist")
	}
}

// Legacy behavior: an instrument whose category is not in the display order
// vanishes from the watchlist. Known gap, asserted deliberately; the append
// policy below is the fix.
func TestProject_UnknownCategoryOmitted(t *testing.T) {
	book := buildBook(t, `{
		"BTC": {"History": [100], "Category": "Main"},
		"XYZ": {"History": [5], "Category": "Obscure"}
	}`)
	p := NewProjector(nil, UnknownOmit)

	frame := p.Project(book, "", 0)
	for _, g := range frame.Watchlist {
		for _, row := range g.Rows {
			if row.Name == "XYZ" {
				t.Error("unknown-category instrument should be omitted in omit mode")
			}
		}
	}
}

func TestProject_UnknownCategoryAppended(t *testing.T) {
	book := buildBook(t, `{
		"BTC": {"History": [100], "Category": "Main"},
		"XYZ": {"History": [5], "Category": "Obscure"}
	}`)
	p := NewProjector(nil, UnknownAppend)

	frame := p.Project(book, "", 0)
	last := frame.Watchlist[len(frame.Watchlist)-1]
	if last.Category != "Obscure" {
		t.Fatalf("expected Obscure appended last, got %q", last.Category)
	}
	if len(last.Rows) != 1 || last.Rows[0].Name != "XYZ" {
		t.Errorf("expected XYZ in appended group, got %+v", last.Rows)
	}
}

func TestProject_EmptyGroupsOmitted(t *testing.T) {
	book := buildBook(t, `{"BTC": {"History": [100], "Category": "Main"}}`)
	p := NewProjector(nil, UnknownOmit)

	frame := p.Project(book, "", 0)
	if len(frame.Watchlist) != 1 {
		t.Fatalf("expected only the Main group, got %d groups", len(frame.Watchlist))
	}
	if frame.Watchlist[0].Category != "Main" {
		t.Errorf("unexpected group: %q", frame.Watchlist[0].Category)
	}
}

func TestProject_TapeDuplicatesOnce(t *testing.T) {
	book := buildBook(t, `{
		"AAA": {"History": [1]},
		"BBB": {"History": [2]}
	}`)
	p := NewProjector(nil, UnknownOmit)

	frame := p.Project(book, "", 0)
	if len(frame.Tape) != 4 {
		t.Fatalf("expected tape duplicated once (4 entries), got %d", len(frame.Tape))
	}
	if frame.Tape[0] != frame.Tape[2] || frame.Tape[1] != frame.Tape[3] {
		t.Error("second half of the tape should mirror the first")
	}
}

func TestProject_CalcTotal(t *testing.T) {
	book := buildBook(t, `{"BTC": {"History": [2.5]}}`)
	p := NewProjector(nil, UnknownOmit)

	frame := p.Project(book, "", 3)
	if frame.CalcTotal != "7.50" {
		t.Errorf("expected 7.50, got %q", frame.CalcTotal)
	}

	if frame := p.Project(book, "", 0); frame.CalcTotal != "0.00" {
		t.Errorf("expected 0.00 for zero quantity, got %q", frame.CalcTotal)
	}
}

func TestProject_EmptyBook(t *testing.T) {
	book := market.NewBook(market.DefaultOptions())
	p := NewProjector(nil, UnknownAppend)

	frame := p.Project(book, "", 5)
	if frame.Header.Name != "" {
		t.Error("expected empty header for empty book")
	}
	if frame.CalcTotal != "0.00" {
		t.Errorf("expected 0.00 with no selection, got %q", frame.CalcTotal)
	}
	if len(frame.Tape) != 0 {
		t.Errorf("expected empty tape, got %d entries", len(frame.Tape))
	}
}

func TestProject_SelectionMarksRow(t *testing.T) {
	book := buildBook(t, `{
		"AAA": {"History": [1], "Category": "Main"},
		"BBB": {"History": [2], "Category": "Main"}
	}`)
	book.Select("BBB")
	p := NewProjector(nil, UnknownOmit)

	frame := p.Project(book, "", 0)
	for _, row := range frame.Watchlist[0].Rows {
		if row.Name == "BBB" && !row.Selected {
			t.Error("selected instrument row should be marked")
		}
		if row.Name == "AAA" && row.Selected {
			t.Error("unselected instrument row should not be marked")
		}
	}
}
