package collector

import (
	"context"
	"fmt"
)

// Fetcher retrieves one raw copy of the snapshot document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// FetchError reports a failed snapshot retrieval: a transport failure, a
// non-success status, or a body that does not parse as a snapshot. Partial
// data is never surfaced past a FetchError.
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
