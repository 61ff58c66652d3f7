package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const validPayload = `{"BTC": {"History": [100, 110], "Category": "Main"}}`

func TestPoll_UnchangedPayloadSkipsRebuild(t *testing.T) {
	col := NewCollector(&MockFetcher{Payloads: [][]byte{
		[]byte(validPayload),
		[]byte(validPayload),
	}})

	snap, changed, err := col.Poll(context.Background())
	if err != nil {
		t.Fatalf("first poll: %v", err)
	}
	if !changed || snap == nil {
		t.Fatal("first poll should report a change")
	}

	snap, changed, err = col.Poll(context.Background())
	if err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if changed {
		t.Error("byte-identical payload should not report a change")
	}
	if snap != nil {
		t.Error("unchanged poll should return a nil snapshot")
	}
}

func TestPoll_ChangedPayloadRebuilds(t *testing.T) {
	col := NewCollector(&MockFetcher{Payloads: [][]byte{
		[]byte(validPayload),
		[]byte(`{"BTC": {"History": [100, 110, 120]}}`),
	}})

	if _, changed, _ := col.Poll(context.Background()); !changed {
		t.Fatal("first poll should report a change")
	}
	snap, changed, err := col.Poll(context.Background())
	if err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if !changed {
		t.Error("differing payload should report a change")
	}
	if got := snap.Entries["BTC"].History; len(got) != 3 {
		t.Errorf("expected 3 history entries, got %v", got)
	}
}

func TestPoll_MalformedPayloadFailsWholePoll(t *testing.T) {
	col := NewCollector(&MockFetcher{Payloads: [][]byte{
		[]byte(`{"BTC": {"History": [100,`), // truncated
		[]byte(validPayload),
	}})

	_, _, err := col.Poll(context.Background())
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Errorf("expected FetchError, got %T", err)
	}

	// The baseline was not advanced, so the next valid payload is a change.
	_, changed, err := col.Poll(context.Background())
	if err != nil {
		t.Fatalf("poll after failure: %v", err)
	}
	if !changed {
		t.Error("valid payload after a failed poll should report a change")
	}
}

func TestPoll_FetchErrorKeepsBaseline(t *testing.T) {
	mock := &MockFetcher{Payloads: [][]byte{[]byte(validPayload)}}
	col := NewCollector(mock)

	if _, changed, _ := col.Poll(context.Background()); !changed {
		t.Fatal("seed poll should report a change")
	}

	mock.Err = &FetchError{Source: "mock", Err: errors.New("connection refused")}
	if _, _, err := col.Poll(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}

	// Recovered feed with identical content: still unchanged.
	mock.Err = nil
	_, changed, err := col.Poll(context.Background())
	if err != nil {
		t.Fatalf("poll after recovery: %v", err)
	}
	if changed {
		t.Error("identical payload after recovery should not report a change")
	}
}

// gatedFetcher blocks inside Fetch until released, so a test can hold a poll
// in flight while issuing more.
type gatedFetcher struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gatedFetcher) Name() string { return "gated" }

func (g *gatedFetcher) Fetch(_ context.Context) ([]byte, error) {
	g.entered <- struct{}{}
	<-g.release
	return []byte(validPayload), nil
}

func TestPoll_RejectsConcurrentPolls(t *testing.T) {
	gate := &gatedFetcher{entered: make(chan struct{}), release: make(chan struct{})}
	col := NewCollector(gate)

	done := make(chan error, 1)
	go func() {
		_, _, err := col.Poll(context.Background())
		done <- err
	}()
	<-gate.entered

	var wg sync.WaitGroup
	var rejected atomic.Int32
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := col.Poll(context.Background()); errors.Is(err, ErrPollInProgress) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()
	close(gate.release)

	if err := <-done; err != nil {
		t.Fatalf("in-flight poll: %v", err)
	}
	if got := rejected.Load(); got != 4 {
		t.Errorf("expected 4 polls rejected while one was in flight, got %d", got)
	}

	// The flag was cleared, so the next poll runs normally.
	go func() { <-gate.entered }()
	if _, _, err := col.Poll(context.Background()); err != nil {
		t.Fatalf("poll after release: %v", err)
	}
}

func TestHTTPFetcher_CacheBusterAndSuccess(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(validPayload))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "", 5*time.Second)
	f.now = func() time.Time { return time.UnixMilli(1700000000000) }

	body, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(body) != validPayload {
		t.Errorf("unexpected body: %s", body)
	}
	if gotQuery != "t=1700000000000" {
		t.Errorf("expected cache-buster query, got %q", gotQuery)
	}
}

func TestHTTPFetcher_AppendsToExistingQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(validPayload))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/?v=1", "", 5*time.Second)
	if _, err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.HasPrefix(gotQuery, "v=1&t=") {
		t.Errorf("expected cache-buster appended with &, got %q", gotQuery)
	}
}

func TestHTTPFetcher_ZeroValueUsesDefaults(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(validPayload))
	}))
	defer srv.Close()

	f := &HTTPFetcher{URL: srv.URL}
	body, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(body) != validPayload {
		t.Errorf("unexpected body: %s", body)
	}
	if !strings.HasPrefix(gotQuery, "t=") {
		t.Errorf("expected cache-buster from default clock, got %q", gotQuery)
	}
}

func TestHTTPFetcher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "", 5*time.Second)
	_, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fe.Status != http.StatusNotFound {
		t.Errorf("expected status 404 on error, got %d", fe.Status)
	}
}
