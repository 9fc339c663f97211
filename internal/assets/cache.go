// Package assets maps remote cover-art references onto a local cache
// directory. The fetch queue is the only writer; everything else reads.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cache stores downloaded cover art under a single directory, keyed by a
// sanitized form of the feed-supplied asset reference.
type Cache struct {
	dir string
}

// NewCache constructs a cache rooted at dir. The directory is created on
// first write, not here.
func NewCache(dir string) (*Cache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("asset cache directory required")
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the local cache path for an asset reference.
func (c *Cache) Path(ref string) string {
	return filepath.Join(c.dir, SanitizeRef(ref))
}

// Has reports whether the asset is already present on disk.
func (c *Cache) Has(ref string) bool {
	info, err := os.Stat(c.Path(ref))
	return err == nil && !info.IsDir()
}

// Write stores asset bytes and returns the cache path.
func (c *Cache) Write(ref string, data []byte) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create asset cache dir: %w", err)
	}
	path := c.Path(ref)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset %q: %w", ref, err)
	}
	return path, nil
}

// SanitizeRef reduces a feed-supplied reference to a safe flat filename.
// Path separators and query strings are stripped so a hostile reference
// cannot escape the cache directory.
func SanitizeRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if idx := strings.IndexAny(ref, "?#"); idx >= 0 {
		ref = ref[:idx]
	}
	ref = strings.ReplaceAll(ref, "\\", "/")
	base := filepath.Base(ref)
	if base == "." || base == string(filepath.Separator) || base == "/" || base == "" {
		return "_"
	}
	return base
}
