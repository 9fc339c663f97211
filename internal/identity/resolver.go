package identity

import (
	"context"
	"log/slog"

	"crate/internal/catalog"
	"crate/internal/feed"
	"crate/internal/logging"
)

// Enqueuer is the fetch-queue surface the resolver needs for cover-art
// repair on album hits.
type Enqueuer interface {
	Enqueue(ref string, albumID int64) bool
}

// Resolver resolves feed sub-objects against the catalog, creating rows
// on a miss for the kinds that allow it.
type Resolver struct {
	store  *catalog.Store
	queue  Enqueuer
	logger *slog.Logger
}

// New constructs a resolver. The queue may be nil when cover-art repair is
// not wanted (tests, import tooling).
func New(store *catalog.Store, queue Enqueuer, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{store: store, queue: queue, logger: logging.WithComponent(logger, "identity")}
}

// ResolveAlbum returns the catalog album for a feed sub-object, creating
// it when no row bears its external id. The second return reports whether
// a row was created. A nil or titleless sub-object resolves to no album:
// the record is dropped with a log line, never an error.
//
// On a hit, an album that still lacks cached cover art while the incoming
// record supplies a reference gets its download re-enqueued, repairing
// gaps left by interrupted prior runs.
func (r *Resolver) ResolveAlbum(ctx context.Context, ref *feed.AlbumRef) (*catalog.Album, bool, error) {
	if ref == nil {
		return nil, false, nil
	}
	if ref.Title == "" {
		r.logger.Info("album record dropped: missing title",
			logging.String("album_external_id", ref.ExternalID),
		)
		return nil, false, nil
	}

	if ref.ExternalID != "" {
		existing, err := r.store.FindAlbumByExternalID(ctx, ref.ExternalID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			if r.queue != nil && existing.CachedImagePath == "" && ref.CoverRef != "" {
				r.queue.Enqueue(ref.CoverRef, existing.ID)
			}
			return existing, false, nil
		}
	}

	album := &catalog.Album{
		ExternalID:    ref.ExternalID,
		Title:         ref.Title,
		CatalogNumber: ref.Catalog,
		CommercialID:  ref.CommercialID,
		Year:          ref.Year.String(),
		Label:         ref.Label,
		CoverRef:      ref.CoverRef,
	}
	if err := r.store.InsertAlbum(ctx, album); err != nil {
		return nil, false, err
	}
	return album, true, nil
}

// ResolveArtist returns the catalog artist for a feed sub-object, creating
// it when no row bears its external id.
func (r *Resolver) ResolveArtist(ctx context.Context, ref *feed.ArtistRef) (*catalog.Artist, bool, error) {
	if ref == nil || ref.Display == "" {
		if ref != nil {
			r.logger.Info("artist record dropped: missing display name",
				logging.String("artist_external_id", ref.ExternalID),
			)
		}
		return nil, false, nil
	}

	if ref.ExternalID != "" {
		existing, err := r.store.FindArtistByExternalID(ctx, ref.ExternalID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	artist := &catalog.Artist{
		ExternalID: ref.ExternalID,
		Name:       ref.Display,
		Category:   ref.Category,
	}
	if err := r.store.InsertArtist(ctx, artist); err != nil {
		return nil, false, err
	}
	return artist, true, nil
}

// ResolveComposer returns the catalog composer for a feed sub-object,
// creating it when no row bears its external id.
func (r *Resolver) ResolveComposer(ctx context.Context, ref *feed.ComposerRef) (*catalog.Composer, bool, error) {
	if ref == nil || ref.Name() == "" {
		if ref != nil {
			r.logger.Info("composer record dropped: missing name",
				logging.String("composer_external_id", ref.ExternalID),
			)
		}
		return nil, false, nil
	}

	if ref.ExternalID != "" {
		existing, err := r.store.FindComposerByExternalID(ctx, ref.ExternalID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	composer := &catalog.Composer{
		ExternalID: ref.ExternalID,
		Name:       ref.Name(),
		Category:   ref.Category,
	}
	if err := r.store.InsertComposer(ctx, composer); err != nil {
		return nil, false, err
	}
	return composer, true, nil
}

// ResolveTrack looks up an existing track for a feed record: external id
// first, then the (artist, title, filename) content fingerprint. It never
// creates — the pipeline owns track construction. A fingerprint hit is
// authoritative even when external ids differ or are absent on one side;
// two genuinely distinct tracks sharing all three fields would merge.
// That collision risk is inherited from the upstream feed contract.
func (r *Resolver) ResolveTrack(ctx context.Context, rec *feed.TrackRecord) (*catalog.Track, error) {
	if rec == nil {
		return nil, nil
	}
	if rec.ExternalID != "" {
		existing, err := r.store.FindTrackByExternalID(ctx, rec.ExternalID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}
	return r.store.FindTrackByFingerprint(ctx, rec.Artist, rec.Title, rec.Filename)
}
