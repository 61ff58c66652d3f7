package collector

import (
	"context"
	"os"
)

// FileFetcher reads the snapshot from a local file. The original dashboard
// polls a static prices.json next to the page; a local path is the same
// contract without the transport.
type FileFetcher struct {
	Path string
}

// NewFileFetcher creates a file-backed fetcher.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{Path: path}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &FetchError{Source: f.Path, Err: err}
	}
	return data, nil
}
