package archive

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"crate/internal/assets"
	"crate/internal/catalog"
	"crate/internal/logging"
)

// maxManifestBytes bounds the decoded manifest. Catalogs top out in the
// tens of thousands of rows; anything past this is a corrupt archive.
const maxManifestBytes = 256 << 20

// ErrNoManifest marks an archive that does not contain a manifest entry.
var ErrNoManifest = errors.New("archive has no manifest")

// ImportStats reports what one import changed.
type ImportStats struct {
	RowsInserted int `json:"rowsInserted"`
	RowsFailed   int `json:"rowsFailed"`
	AssetsMerged int `json:"assetsMerged"`
}

// Import replaces the catalog with the archive's contents. The existing
// store is erased first; rows that fail to insert are logged and counted
// but never abort the import. Asset files are merged into the cache,
// keeping whatever is already present on disk.
func Import(ctx context.Context, store *catalog.Store, cache *assets.Cache, r io.ReaderAt, size int64, logger *slog.Logger) (ImportStats, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithComponent(logger, "archive")

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return ImportStats{}, fmt.Errorf("open archive: %w", err)
	}

	manifest, err := readManifest(zr)
	if err != nil {
		return ImportStats{}, err
	}
	if manifest.Version != manifestVersion {
		return ImportStats{}, fmt.Errorf("unsupported archive version %d", manifest.Version)
	}

	if _, err := store.DeleteAll(ctx); err != nil {
		return ImportStats{}, fmt.Errorf("erase before import: %w", err)
	}

	stats := ImportStats{}
	if err := mergeAssets(zr, cache, logger, &stats); err != nil {
		return stats, err
	}
	insertRows(ctx, store, cache, manifest, logger, &stats)
	return stats, nil
}

func readManifest(zr *zip.Reader) (*Manifest, error) {
	for _, entry := range zr.File {
		if entry.Name != manifestName {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open manifest: %w", err)
		}
		defer rc.Close()

		manifest := &Manifest{}
		decoder := json.NewDecoder(io.LimitReader(rc, maxManifestBytes))
		if err := decoder.Decode(manifest); err != nil {
			return nil, fmt.Errorf("decode manifest: %w", err)
		}
		return manifest, nil
	}
	return nil, ErrNoManifest
}

func mergeAssets(zr *zip.Reader, cache *assets.Cache, logger *slog.Logger, stats *ImportStats) error {
	for _, entry := range zr.File {
		if !strings.HasPrefix(entry.Name, assetPrefix) || strings.HasSuffix(entry.Name, "/") {
			continue
		}
		ref := strings.TrimPrefix(entry.Name, assetPrefix)
		if cache.Has(ref) {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("open asset %s: %w", ref, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("read asset %s: %w", ref, err)
		}

		if _, err := cache.Write(ref, data); err != nil {
			return fmt.Errorf("merge asset %s: %w", ref, err)
		}
		stats.AssetsMerged++
		logger.Debug("asset merged", logging.String(logging.FieldAssetRef, ref))
	}
	return nil
}

// insertRows rebuilds the catalog. Referenced collections go in first so
// track links can be remapped from archive ids to freshly assigned ids.
func insertRows(ctx context.Context, store *catalog.Store, cache *assets.Cache, manifest *Manifest, logger *slog.Logger, stats *ImportStats) {
	albumIDs := make(map[int64]int64, len(manifest.Albums))
	for _, album := range manifest.Albums {
		row := *album
		row.ID = 0
		// Cache pointers from the source machine are meaningless here;
		// rebind them to the local cache when the asset made it across.
		row.CachedImagePath = ""
		if row.CoverRef != "" && cache.Has(row.CoverRef) {
			row.CachedImagePath = cache.Path(row.CoverRef)
		}
		if err := store.InsertAlbum(ctx, &row); err != nil {
			stats.RowsFailed++
			logger.Warn("album row skipped", logging.Int64("archive_id", album.ID), logging.Error(err))
			continue
		}
		albumIDs[album.ID] = row.ID
		stats.RowsInserted++
	}

	artistIDs := make(map[int64]int64, len(manifest.Artists))
	for _, artist := range manifest.Artists {
		row := *artist
		row.ID = 0
		if err := store.InsertArtist(ctx, &row); err != nil {
			stats.RowsFailed++
			logger.Warn("artist row skipped", logging.Int64("archive_id", artist.ID), logging.Error(err))
			continue
		}
		artistIDs[artist.ID] = row.ID
		stats.RowsInserted++
	}

	composerIDs := make(map[int64]int64, len(manifest.Composers))
	for _, composer := range manifest.Composers {
		row := *composer
		row.ID = 0
		if err := store.InsertComposer(ctx, &row); err != nil {
			stats.RowsFailed++
			logger.Warn("composer row skipped", logging.Int64("archive_id", composer.ID), logging.Error(err))
			continue
		}
		composerIDs[composer.ID] = row.ID
		stats.RowsInserted++
	}

	for _, track := range manifest.Tracks {
		row := *track
		row.ID = 0
		row.AlbumID = remap(track.AlbumID, albumIDs)
		row.ArtistID = remap(track.ArtistID, artistIDs)
		row.ComposerID = remap(track.ComposerID, composerIDs)
		if err := store.InsertTrack(ctx, &row); err != nil {
			stats.RowsFailed++
			logger.Warn("track row skipped", logging.Int64("archive_id", track.ID), logging.Error(err))
			continue
		}
		stats.RowsInserted++
	}

	for _, ad := range manifest.Ads {
		row := *ad
		row.ID = 0
		if err := store.InsertAd(ctx, &row); err != nil {
			stats.RowsFailed++
			logger.Warn("ad row skipped", logging.Int64("archive_id", ad.ID), logging.Error(err))
			continue
		}
		stats.RowsInserted++
	}
}

// remap translates an archive-side link to its freshly inserted row. Links
// to rows that failed to insert come back nil rather than dangling.
func remap(id *int64, ids map[int64]int64) *int64 {
	if id == nil {
		return nil
	}
	mapped, ok := ids[*id]
	if !ok {
		return nil
	}
	return &mapped
}
