package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPFetcher retrieves the snapshot over HTTP. Every request carries a
// timestamp query parameter so no intermediary serves a stale copy.
type HTTPFetcher struct {
	URL    string
	Client *http.Client

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewHTTPFetcher creates an HTTP fetcher with an explicit timeout and
// optional proxy support.
func NewHTTPFetcher(rawURL, proxyURL string, timeout time.Duration) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFetcher{
		URL: rawURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		now: time.Now,
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// Fetch performs one GET with a cache-busting parameter. Success requires a
// 2xx status; anything else is a FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	// Zero-value fetchers get working defaults.
	if f.now == nil {
		f.now = time.Now
	}
	if f.Client == nil {
		f.Client = http.DefaultClient
	}

	sep := "?"
	if strings.Contains(f.URL, "?") {
		sep = "&"
	}
	u := fmt.Sprintf("%s%st=%d", f.URL, sep, f.now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Source: f.URL, Err: err}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: f.URL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: f.URL, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Source: f.URL, Status: resp.StatusCode}
	}
	return body, nil
}
