package fetchqueue_test

import (
	"context"
	"testing"
	"time"

	"crate/internal/assets"
	"crate/internal/catalog"
	"crate/internal/fetchqueue"
	"crate/internal/logging"
	"crate/internal/testsupport"
)

func waitFor(t testing.TB, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func newQueue(t *testing.T, assetBody []byte) (*fetchqueue.Queue, *catalog.Store, *assets.Cache, *testsupport.AssetServer) {
	t.Helper()

	server := testsupport.NewAssetServer(t, assetBody)
	cfg := testsupport.NewConfig(t, testsupport.WithAssetBaseURL(server.URL))
	store := testsupport.MustOpenStore(t, cfg)

	cache, err := assets.NewCache(cfg.Paths.AssetCacheDir)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	queue := fetchqueue.New(cfg, cache, store, logging.NewNop())
	return queue, store, cache, server
}

func TestDrainDownloadsAndBackfillsAlbum(t *testing.T) {
	queue, store, cache, _ := newQueue(t, []byte("image-bytes"))
	album := testsupport.NewAlbum(t, store, "a1", "Alb")

	queue.Start(context.Background())
	defer queue.Stop()

	if !queue.Enqueue("cover.jpg", album.ID) {
		t.Fatal("expected enqueue to be accepted")
	}

	waitFor(t, func() bool { return cache.Has("cover.jpg") })
	waitFor(t, func() bool {
		fetched, err := store.GetAlbumByID(context.Background(), album.ID)
		return err == nil && fetched.CachedImagePath != ""
	})

	fetched, err := store.GetAlbumByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("GetAlbumByID failed: %v", err)
	}
	if fetched.CachedImagePath != cache.Path("cover.jpg") {
		t.Fatalf("unexpected cache pointer: %q", fetched.CachedImagePath)
	}
}

func TestEnqueueDedupsPendingRef(t *testing.T) {
	queue, store, _, server := newQueue(t, []byte("image-bytes"))
	album := testsupport.NewAlbum(t, store, "a1", "Alb")

	// Both calls land before the worker starts, so the second must be
	// rejected as already pending.
	if !queue.Enqueue("cover.jpg", album.ID) {
		t.Fatal("first enqueue should be accepted")
	}
	if queue.Enqueue("cover.jpg", album.ID) {
		t.Fatal("duplicate pending enqueue should be rejected")
	}

	status := queue.Status()
	if status.Pending != 1 {
		t.Fatalf("expected 1 pending, got %d", status.Pending)
	}

	queue.Start(context.Background())
	defer queue.Stop()

	waitFor(t, func() bool { return server.Hits() == 1 })
	waitFor(t, func() bool {
		s := queue.Status()
		return s.Pending == 0 && !s.Draining
	})
	if server.Hits() != 1 {
		t.Fatalf("expected exactly one download attempt, got %d", server.Hits())
	}
}

func TestEnqueueRejectsCachedAsset(t *testing.T) {
	queue, store, cache, _ := newQueue(t, []byte("image-bytes"))
	album := testsupport.NewAlbum(t, store, "a1", "Alb")

	if _, err := cache.Write("cover.jpg", []byte("already here")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if queue.Enqueue("cover.jpg", album.ID) {
		t.Fatal("expected enqueue rejection for cached asset")
	}
}

func TestEnqueueRejectsEmptyRef(t *testing.T) {
	queue, _, _, _ := newQueue(t, nil)
	if queue.Enqueue("   ", 1) {
		t.Fatal("expected enqueue rejection for empty ref")
	}
}

func TestFailedDownloadDiscardedWithoutRetry(t *testing.T) {
	queue, store, cache, server := newQueue(t, nil) // nil body → 404 responses
	album := testsupport.NewAlbum(t, store, "a1", "Alb")

	queue.Start(context.Background())
	defer queue.Stop()

	queue.Enqueue("cover.jpg", album.ID)

	waitFor(t, func() bool { return server.Hits() == 1 })
	waitFor(t, func() bool {
		s := queue.Status()
		return s.Pending == 0 && !s.Draining
	})

	if cache.Has("cover.jpg") {
		t.Fatal("failed download must not populate the cache")
	}
	fetched, err := store.GetAlbumByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("GetAlbumByID failed: %v", err)
	}
	if fetched.CachedImagePath != "" {
		t.Fatalf("failed download must not set cache pointer, got %q", fetched.CachedImagePath)
	}
	if server.Hits() != 1 {
		t.Fatalf("expected no retry, got %d attempts", server.Hits())
	}

	// The asset is still missing, so a later run may re-enqueue it.
	if !queue.Enqueue("cover.jpg", album.ID) {
		t.Fatal("expected re-enqueue of still-missing asset to be accepted")
	}
	waitFor(t, func() bool { return server.Hits() == 2 })
}

func TestStatusIdleAfterDrain(t *testing.T) {
	queue, store, _, _ := newQueue(t, []byte("image-bytes"))
	album := testsupport.NewAlbum(t, store, "a1", "Alb")

	queue.Start(context.Background())
	defer queue.Stop()

	queue.Enqueue("one.jpg", album.ID)
	queue.Enqueue("two.jpg", album.ID)

	waitFor(t, func() bool {
		s := queue.Status()
		return s.Pending == 0 && !s.Draining
	})
}
