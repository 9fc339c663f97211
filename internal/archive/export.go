package archive

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"crate/internal/catalog"
)

// manifestVersion guards against importing archives written by an
// incompatible build.
const manifestVersion = 1

const (
	manifestName = "manifest.json"
	assetPrefix  = "assets/"
)

// Manifest is the portable snapshot of every entity collection. Row ids
// are the source store's ids; import treats them as opaque link keys.
type Manifest struct {
	Version    int                 `json:"version"`
	ExportedAt time.Time           `json:"exportedAt"`
	Counts     catalog.Counts      `json:"counts"`
	Tracks     []*catalog.Track    `json:"tracks"`
	Albums     []*catalog.Album    `json:"albums"`
	Artists    []*catalog.Artist   `json:"artists"`
	Composers  []*catalog.Composer `json:"composers"`
	Ads        []*catalog.Ad       `json:"ads"`
}

// ExportStats reports what one export wrote.
type ExportStats struct {
	Rows   catalog.Counts `json:"rows"`
	Assets int            `json:"assets"`
}

// Export writes the full catalog and asset cache to w as a zip archive.
// An empty catalog still produces a valid archive.
func Export(ctx context.Context, store *catalog.Store, cacheDir string, w io.Writer) (ExportStats, error) {
	manifest := Manifest{Version: manifestVersion, ExportedAt: time.Now().UTC()}

	var err error
	if manifest.Tracks, err = store.AllTracks(ctx); err != nil {
		return ExportStats{}, err
	}
	if manifest.Albums, err = store.AllAlbums(ctx); err != nil {
		return ExportStats{}, err
	}
	if manifest.Artists, err = store.AllArtists(ctx); err != nil {
		return ExportStats{}, err
	}
	if manifest.Composers, err = store.AllComposers(ctx); err != nil {
		return ExportStats{}, err
	}
	if manifest.Ads, err = store.AllAds(ctx); err != nil {
		return ExportStats{}, err
	}
	manifest.Counts = catalog.Counts{
		Tracks:    len(manifest.Tracks),
		Albums:    len(manifest.Albums),
		Artists:   len(manifest.Artists),
		Composers: len(manifest.Composers),
		Ads:       len(manifest.Ads),
	}

	zw := zip.NewWriter(w)

	entry, err := zw.Create(manifestName)
	if err != nil {
		return ExportStats{}, fmt.Errorf("create manifest entry: %w", err)
	}
	encoder := json.NewEncoder(entry)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(manifest); err != nil {
		return ExportStats{}, fmt.Errorf("encode manifest: %w", err)
	}

	stats := ExportStats{Rows: manifest.Counts}
	if err := exportAssets(zw, cacheDir, &stats); err != nil {
		return ExportStats{}, err
	}

	if err := zw.Close(); err != nil {
		return ExportStats{}, fmt.Errorf("finalize archive: %w", err)
	}
	return stats, nil
}

func exportAssets(zw *zip.Writer, cacheDir string, stats *ExportStats) error {
	if cacheDir == "" {
		return nil
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(cacheDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(cacheDir, path)
		if err != nil {
			return fmt.Errorf("relativize asset path: %w", err)
		}

		entry, err := zw.Create(assetPrefix + filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("create asset entry: %w", err)
		}
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open asset: %w", err)
		}
		defer file.Close()

		if _, err := io.Copy(entry, file); err != nil {
			return fmt.Errorf("copy asset %s: %w", rel, err)
		}
		stats.Assets++
		return nil
	})
}
