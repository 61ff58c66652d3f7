package simulator

import (
	"encoding/json"
	"os"

	"TickerBoard/internal/market"
)

// WriteSnapshot saves the book's evolved state back to the snapshot file as
// indented JSON, the same document shape the fetcher reads. With a
// file-backed fetcher this round-trips the simulation the way the original
// feed generator rewrote its prices file.
func WriteSnapshot(path string, book *market.Book) error {
	data, err := json.MarshalIndent(book.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
