package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"crate/internal/catalog"
	"crate/internal/config"
	"crate/internal/feed"
	"crate/internal/identity"
	"crate/internal/logging"
)

// ErrRunActive is returned when another ingestion run holds the run lock.
// Runs must be serialized: dedup correctness depends on each record
// observing the effects of all prior records.
var ErrRunActive = errors.New("ingestion run already active")

// RunStats summarizes one completed ingestion run.
type RunStats struct {
	RunID          string `json:"runId"`
	TracksNew      int    `json:"tracksNew"`
	TracksExisting int    `json:"tracksExisting"`
	AdsProcessed   int    `json:"adsProcessed"`
	RecordsSkipped int    `json:"recordsSkipped"`
}

// Pipeline runs feed ingestion against the catalog.
type Pipeline struct {
	cfg      *config.Config
	store    *catalog.Store
	resolver *identity.Resolver
	queue    identity.Enqueuer
	client   *feed.Client
	logger   *slog.Logger
}

// New constructs a pipeline. The queue may be nil to disable cover-art
// fetching entirely.
func New(cfg *config.Config, store *catalog.Store, queue identity.Enqueuer, client *feed.Client, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	if client == nil {
		client = feed.NewClient(time.Duration(cfg.Feed.RequestTimeout) * time.Second)
	}
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		resolver: identity.New(store, queue, logger),
		queue:    queue,
		client:   client,
		logger:   logging.WithComponent(logger, "pipeline"),
	}
}

// Ingest executes one feed run. An empty feedURL falls back to the
// configured default. Only feed fetch and top-level parse failures abort
// the run; individual malformed records are logged and skipped.
func (p *Pipeline) Ingest(ctx context.Context, feedURL string) (RunStats, error) {
	stats := RunStats{RunID: uuid.NewString()}

	if feedURL == "" {
		feedURL = p.cfg.Feed.URL
	}
	if feedURL == "" {
		return stats, errors.New("no feed url given and feed.url is not configured")
	}

	if err := p.cfg.EnsureDirectories(); err != nil {
		return stats, fmt.Errorf("ensure directories: %w", err)
	}

	runLock := flock.New(filepath.Join(p.cfg.Paths.DataDir, "ingest.lock"))
	locked, err := runLock.TryLock()
	if err != nil {
		return stats, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return stats, ErrRunActive
	}
	defer func() { _ = runLock.Unlock() }()

	logger := p.logger.With(logging.String(logging.FieldRunID, stats.RunID))
	logger.Info("ingestion run started", logging.String("feed_url", feedURL))

	records, err := p.client.Fetch(ctx, feedURL)
	if err != nil {
		return stats, err
	}

	for index, record := range records {
		switch record.Kind {
		case feed.KindAd:
			p.processAd(ctx, logger, index, record.Ad, &stats)
		case feed.KindTrack:
			p.processTrack(ctx, logger, index, record.Track, &stats)
		default:
			stats.RecordsSkipped++
			logger.Warn("record skipped: undecodable",
				logging.Int("index", index),
				logging.Error(record.Err),
			)
		}
	}

	logger.Info("ingestion run finished",
		logging.Int("tracks_new", stats.TracksNew),
		logging.Int("tracks_existing", stats.TracksExisting),
		logging.Int("ads_processed", stats.AdsProcessed),
		logging.Int("records_skipped", stats.RecordsSkipped),
	)
	return stats, nil
}

// processAd persists an ad slot unconditionally: the feed repeats ad
// records across runs intentionally and no dedup applies.
func (p *Pipeline) processAd(ctx context.Context, logger *slog.Logger, index int, rec *feed.AdRecord, stats *RunStats) {
	filenames := rec.Filenames()
	if len(filenames) == 0 {
		stats.RecordsSkipped++
		logger.Warn("ad record skipped: no delivery filenames",
			logging.Int("index", index),
			logging.String(logging.FieldRecordKind, string(feed.KindAd)),
		)
		return
	}

	ad := &catalog.Ad{Kind: rec.Kind, Source: rec.Source, Filenames: filenames}
	if err := p.store.InsertAd(ctx, ad); err != nil {
		stats.RecordsSkipped++
		logger.Warn("ad record skipped: insert failed",
			logging.Int("index", index),
			logging.Error(err),
		)
		return
	}
	stats.AdsProcessed++
}

func (p *Pipeline) processTrack(ctx context.Context, logger *slog.Logger, index int, rec *feed.TrackRecord, stats *RunStats) {
	if !rec.HasIdentity() {
		stats.RecordsSkipped++
		logger.Warn("track record skipped: no identity fields",
			logging.Int("index", index),
			logging.String(logging.FieldRecordKind, string(feed.KindTrack)),
		)
		return
	}

	// Sub-object failures yield null references, never a dropped track.
	album, albumCreated, err := p.resolver.ResolveAlbum(ctx, rec.Album)
	if err != nil {
		logger.Warn("album resolution failed; continuing without album",
			logging.Int("index", index),
			logging.Error(err),
		)
		album, albumCreated = nil, false
	}
	artist, _, err := p.resolver.ResolveArtist(ctx, rec.ArtistRef)
	if err != nil {
		logger.Warn("artist resolution failed; continuing without artist",
			logging.Int("index", index),
			logging.Error(err),
		)
		artist = nil
	}
	composer, _, err := p.resolver.ResolveComposer(ctx, rec.Composer)
	if err != nil {
		logger.Warn("composer resolution failed; continuing without composer",
			logging.Int("index", index),
			logging.Error(err),
		)
		composer = nil
	}

	existing, err := p.resolver.ResolveTrack(ctx, rec)
	if err != nil {
		stats.RecordsSkipped++
		logger.Warn("track record skipped: lookup failed",
			logging.Int("index", index),
			logging.Error(err),
		)
		return
	}

	if existing != nil {
		stats.TracksExisting++
	} else {
		track := &catalog.Track{
			ExternalID: rec.ExternalID,
			Artist:     rec.Artist,
			Title:      rec.Title,
			Filename:   rec.Filename,
			URLPrefix:  rec.URLPrefix,
			URLPrefix2: rec.URLPrefix2,
			Holiday:    rec.Holiday,
			Duration:   rec.Duration,
			Weight:     rec.Weight.String(),
		}
		if album != nil {
			track.AlbumID = &album.ID
		}
		if artist != nil {
			track.ArtistID = &artist.ID
		}
		if composer != nil {
			track.ComposerID = &composer.ID
		}
		if err := p.store.InsertTrack(ctx, track); err != nil {
			stats.RecordsSkipped++
			logger.Warn("track record skipped: insert failed",
				logging.Int("index", index),
				logging.Error(err),
			)
			return
		}
		stats.TracksNew++
	}

	// Fire-and-forget: a freshly created album with a cover reference gets
	// its art queued without blocking the run.
	if albumCreated && p.queue != nil && rec.Album != nil && rec.Album.CoverRef != "" {
		p.queue.Enqueue(rec.Album.CoverRef, album.ID)
	}
}
