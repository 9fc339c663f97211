package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"crate/internal/archive"
	"crate/internal/assets"
	"crate/internal/catalog"
	"crate/internal/config"
	"crate/internal/fetchqueue"
	"crate/internal/ingest"
	"crate/internal/logging"
)

// Service owns the long-lived components and exposes catalog operations.
type Service struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *catalog.Store
	cache    *assets.Cache
	queue    *fetchqueue.Queue
	pipeline *ingest.Pipeline
}

// Stats is the catalog status snapshot shown by the CLI.
type Stats struct {
	Counts        catalog.Counts    `json:"counts"`
	Queue         fetchqueue.Status `json:"queue"`
	MissingCovers int               `json:"missingCovers"`
}

// New opens the store and constructs the component graph. The fetch queue
// worker is not running until Start is called.
func New(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, err
	}
	cache, err := assets.NewCache(cfg.Paths.AssetCacheDir)
	if err != nil {
		store.Close()
		return nil, err
	}

	queue := fetchqueue.New(cfg, cache, store, logger)
	svc := &Service{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "service"),
		store:    store,
		cache:    cache,
		queue:    queue,
		pipeline: ingest.New(cfg, store, queue, nil, logger),
	}
	return svc, nil
}

// Start launches the fetch-queue worker.
func (s *Service) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Close stops the worker and releases the store. Pending cover-art
// downloads are abandoned; a later ingest re-enqueues them.
func (s *Service) Close() {
	s.queue.Stop()
	s.store.Close()
}

// QueueStatus returns a point-in-time snapshot of the fetch queue.
func (s *Service) QueueStatus() fetchqueue.Status {
	return s.queue.Status()
}

// Ingest runs one feed pass. An empty feedURL uses the configured default.
func (s *Service) Ingest(ctx context.Context, feedURL string) (ingest.RunStats, error) {
	return s.pipeline.Ingest(ctx, feedURL)
}

// Stats returns row counts, queue state, and the cover-art backlog.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return Stats{}, err
	}
	missing, err := s.store.AlbumsMissingImages(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Counts: counts, Queue: s.queue.Status(), MissingCovers: len(missing)}, nil
}

// EnqueueMissingAsset queues one cover-art download. It reports whether
// the queue accepted the request; already-cached and already-pending
// references are declined.
func (s *Service) EnqueueMissingAsset(ref string, albumID int64) bool {
	return s.queue.Enqueue(ref, albumID)
}

// RequeueMissingCovers re-enqueues every album with a cover reference but
// no cached image, repairing downloads lost to interrupted runs. It
// returns how many requests the queue accepted.
func (s *Service) RequeueMissingCovers(ctx context.Context) (int, error) {
	albums, err := s.store.AlbumsMissingImages(ctx)
	if err != nil {
		return 0, err
	}
	accepted := 0
	for _, album := range albums {
		if s.queue.Enqueue(album.CoverRef, album.ID) {
			accepted++
		}
	}
	return accepted, nil
}

// Export writes the catalog and asset cache to path as a zip archive.
func (s *Service) Export(ctx context.Context, path string) (archive.ExportStats, error) {
	file, err := os.Create(path)
	if err != nil {
		return archive.ExportStats{}, fmt.Errorf("create archive: %w", err)
	}
	stats, err := archive.Export(ctx, s.store, s.cache.Dir(), file)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close archive: %w", closeErr)
	}
	if err != nil {
		os.Remove(path)
		return archive.ExportStats{}, err
	}
	return stats, nil
}

// Import replaces the catalog with the archive at path and merges its
// assets into the cache.
func (s *Service) Import(ctx context.Context, path string) (archive.ImportStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return archive.ImportStats{}, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return archive.ImportStats{}, fmt.Errorf("stat archive: %w", err)
	}
	return archive.Import(ctx, s.store, s.cache, file, info.Size(), s.logger)
}

// Erase deletes every entity row and returns the pre-erase counts. Cached
// assets stay on disk: they are keyed by reference and remain valid for
// whatever is ingested next.
func (s *Service) Erase(ctx context.Context) (catalog.Counts, error) {
	return s.store.DeleteAll(ctx)
}
