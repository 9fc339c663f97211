package testsupport

import (
	"context"
	"testing"

	"crate/internal/catalog"
	"crate/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewAlbum inserts an album for tests using the provided store.
func NewAlbum(t testing.TB, store *catalog.Store, externalID, title string) *catalog.Album {
	t.Helper()

	album := &catalog.Album{ExternalID: externalID, Title: title}
	if err := store.InsertAlbum(context.Background(), album); err != nil {
		t.Fatalf("store.InsertAlbum: %v", err)
	}
	return album
}

// NewTrack inserts a track for tests using the provided store.
func NewTrack(t testing.TB, store *catalog.Store, externalID, artist, title, filename string) *catalog.Track {
	t.Helper()

	track := &catalog.Track{ExternalID: externalID, Artist: artist, Title: title, Filename: filename}
	if err := store.InsertTrack(context.Background(), track); err != nil {
		t.Fatalf("store.InsertTrack: %v", err)
	}
	return track
}
