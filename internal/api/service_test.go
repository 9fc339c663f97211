package api_test

import (
	"context"
	"path/filepath"
	"testing"

	"crate/internal/api"
	"crate/internal/feed"
	"crate/internal/testsupport"
)

func newService(t *testing.T, opts ...testsupport.ConfigOption) *api.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	svc, err := api.New(cfg, nil)
	if err != nil {
		t.Fatalf("api.New failed: %v", err)
	}
	t.Cleanup(svc.Close)
	svc.Start(context.Background())
	return svc
}

func TestServiceIngestStatsAndErase(t *testing.T) {
	payload := []any{
		map[string]any{"_id": "t1", "track_artist": "A", "title": "T", "fn": "f1"},
		map[string]any{
			"track_artist": feed.AdArtistSentinel,
			"title":        feed.AdTitleSentinel,
			"ad_type":      "spot",
			"fn":           "promo.mp3",
		},
	}
	feedSrv := testsupport.NewFeedServer(t, payload)
	svc := newService(t, testsupport.WithFeedURL(feedSrv.URL))

	ctx := context.Background()
	run, err := svc.Ingest(ctx, "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if run.TracksNew != 1 || run.AdsProcessed != 1 {
		t.Fatalf("unexpected run stats: %+v", run)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Counts.Tracks != 1 || stats.Counts.Ads != 1 {
		t.Fatalf("unexpected counts: %+v", stats.Counts)
	}

	erased, err := svc.Erase(ctx)
	if err != nil {
		t.Fatalf("Erase failed: %v", err)
	}
	if erased.Total() != 2 {
		t.Fatalf("unexpected erase counts: %+v", erased)
	}
	stats, err = svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Counts.Total() != 0 {
		t.Fatalf("expected empty catalog after erase, got %+v", stats.Counts)
	}
}

func TestServiceExportImportRoundTrip(t *testing.T) {
	payload := []any{
		map[string]any{"_id": "t1", "track_artist": "A", "title": "T", "fn": "f1"},
	}
	feedSrv := testsupport.NewFeedServer(t, payload)
	src := newService(t, testsupport.WithFeedURL(feedSrv.URL))

	ctx := context.Background()
	if _, err := src.Ingest(ctx, ""); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.zip")
	exported, err := src.Export(ctx, path)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if exported.Rows.Tracks != 1 {
		t.Fatalf("unexpected export stats: %+v", exported)
	}

	dst := newService(t)
	imported, err := dst.Import(ctx, path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported.RowsInserted != 1 || imported.RowsFailed != 0 {
		t.Fatalf("unexpected import stats: %+v", imported)
	}

	stats, err := dst.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Counts.Tracks != 1 {
		t.Fatalf("expected imported track, got %+v", stats.Counts)
	}
}
