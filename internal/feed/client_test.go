package feed_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crate/internal/feed"
)

func TestFetchParsesServedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"track_artist":"A","title":"T","fn":"f1"}]`))
	}))
	defer server.Close()

	client := feed.NewClient(5 * time.Second)
	records, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(records) != 1 || records[0].Kind != feed.KindTrack {
		t.Fatalf("unexpected records: %#v", records)
	}
}

func TestFetchNonSuccessStatusIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	client := feed.NewClient(5 * time.Second)
	_, err := client.Fetch(context.Background(), server.URL)
	if !errors.Is(err, feed.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFetchUnreachableHostIsFetchError(t *testing.T) {
	client := feed.NewClient(time.Second)
	_, err := client.Fetch(context.Background(), "http://127.0.0.1:1/feed.json")
	if !errors.Is(err, feed.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFetchNonArrayBodyIsSchemaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()

	client := feed.NewClient(5 * time.Second)
	_, err := client.Fetch(context.Background(), server.URL)
	if !errors.Is(err, feed.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestFetchRequiresURL(t *testing.T) {
	client := feed.NewClient(time.Second)
	if _, err := client.Fetch(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}
