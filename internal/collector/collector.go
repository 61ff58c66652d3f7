package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"TickerBoard/internal/model"
)

// ErrPollInProgress is returned when a poll is requested while the previous
// one has not finished. The caller simply waits for its next tick.
var ErrPollInProgress = errors.New("poll already in flight")

// Collector polls the snapshot source and short-circuits unchanged payloads.
// It retains the raw bytes of the last successfully parsed snapshot and
// compares each fetch against them byte for byte: identical payloads skip
// all downstream work.
type Collector struct {
	Fetcher Fetcher

	lastRaw  []byte
	inFlight atomic.Bool
}

// NewCollector creates a Collector around the given fetcher.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Poll fetches the snapshot once. changed reports whether the payload
// differs from the previous successful poll; when false the snapshot is nil
// and the caller skips the rebuild. A malformed payload fails the whole poll
// and leaves the retained baseline untouched, so a later valid payload is
// still seen as a change.
func (c *Collector) Poll(ctx context.Context) (snap *model.Snapshot, changed bool, err error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, false, ErrPollInProgress
	}
	defer c.inFlight.Store(false)

	raw, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	if bytes.Equal(raw, c.lastRaw) {
		return nil, false, nil
	}

	var s model.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, &FetchError{Source: c.Fetcher.Name(), Err: fmt.Errorf("decode snapshot: %w", err)}
	}

	c.lastRaw = raw
	return &s, true, nil
}

// MockFetcher returns canned payloads for development and testing. Each call
// serves the next payload, repeating the last one once exhausted.
type MockFetcher struct {
	Payloads [][]byte
	Err      error
	calls    int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Payloads) == 0 {
		return nil, &FetchError{Source: "mock", Err: errors.New("no payloads configured")}
	}
	i := m.calls
	if i >= len(m.Payloads) {
		i = len(m.Payloads) - 1
	}
	m.calls++
	return m.Payloads[i], nil
}
