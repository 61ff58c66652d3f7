package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SnapshotEntry is a single instrument as it appears in the polled feed.
// Min, Max and Volatility are only meaningful when price simulation is on.
type SnapshotEntry struct {
	History    []float64 `json:"History"`
	Original   *float64  `json:"Original,omitempty"`
	Category   string    `json:"Category,omitempty"`
	Min        *float64  `json:"Min,omitempty"`
	Max        *float64  `json:"Max,omitempty"`
	Volatility *float64  `json:"Volatility,omitempty"`
}

// Snapshot is one fetched version of the full instrument dataset.
// Key order from the source document is preserved so that "first
// instrument" stays stable across rebuilds.
type Snapshot struct {
	Entries map[string]SnapshotEntry
	Order   []string
}

// UnmarshalJSON decodes the top-level object while retaining key order,
// which encoding/json's map decoding would otherwise discard.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode snapshot: expected object, got %v", tok)
	}

	s.Entries = make(map[string]SnapshotEntry)
	s.Order = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode snapshot key: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode snapshot key: %v", keyTok)
		}
		var entry SnapshotEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("decode snapshot entry %q: %w", name, err)
		}
		s.Entries[name] = entry
		s.Order = append(s.Order, name)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}

// MarshalJSON writes the entries back in their original order, producing
// the same document shape the fetcher consumes.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		entry, err := json.Marshal(s.Entries[name])
		if err != nil {
			return nil, fmt.Errorf("encode snapshot entry %q: %w", name, err)
		}
		buf.Write(entry)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
