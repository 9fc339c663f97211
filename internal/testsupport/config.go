// Package testsupport provides shared helpers for package tests: temp-dir
// configs, catalog stores, and httptest feed/asset servers.
package testsupport

import (
	"path/filepath"
	"testing"

	"crate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.AssetCacheDir = filepath.Join(base, "assets")
	cfg.Assets.BaseURL = "http://assets.invalid"
	cfg.Assets.PacingMillis = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAssetBaseURL overrides the asset host base URL on the test config.
func WithAssetBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Assets.BaseURL = url
	}
}

// WithFeedURL sets the default feed URL on the test config.
func WithFeedURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Feed.URL = url
	}
}
