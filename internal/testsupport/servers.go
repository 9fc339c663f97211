package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// FeedServer serves a JSON payload and counts requests.
type FeedServer struct {
	*httptest.Server
	hits atomic.Int64
}

// Hits returns the number of requests served.
func (f *FeedServer) Hits() int64 {
	return f.hits.Load()
}

// NewFeedServer starts an httptest server returning the supplied records as
// a JSON array. The payload may be any value that marshals to JSON.
func NewFeedServer(t testing.TB, payload any) *FeedServer {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal feed payload: %v", err)
	}

	fs := &FeedServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fs.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(fs.Close)
	return fs
}

// AssetServer serves fixed binary bytes for any path and counts requests.
type AssetServer struct {
	*httptest.Server
	hits atomic.Int64
}

// Hits returns the number of downloads served.
func (a *AssetServer) Hits() int64 {
	return a.hits.Load()
}

// NewAssetServer starts an httptest server returning body for every GET.
// A nil body makes the server respond 404 to every request.
func NewAssetServer(t testing.TB, body []byte) *AssetServer {
	t.Helper()

	as := &AssetServer{}
	as.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		as.hits.Add(1)
		if body == nil {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(as.Close)
	return as
}
