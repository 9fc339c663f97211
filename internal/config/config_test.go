package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crate/internal/config"
)

func TestDefaultValidatesAfterBaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.BaseURL = "https://assets.example.com/covers"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestValidateRequiresAssetBaseURL(t *testing.T) {
	cfg := config.Default()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error when assets.base_url missing")
	}
	if !strings.Contains(err.Error(), "assets.base_url") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crate.toml")
	contents := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
asset_cache_dir = "` + filepath.Join(dir, "assets") + `"

[feed]
url = "https://feed.example.com/library.json"

[assets]
base_url = "https://assets.example.com/covers/"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging values, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
	if strings.HasSuffix(cfg.Assets.BaseURL, "/") {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Assets.BaseURL)
	}
}

func TestLoadRejectsBadFeedURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crate.toml")
	contents := `
[feed]
url = "ftp://feed.example.com/library.json"

[assets]
base_url = "https://assets.example.com/covers"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported feed scheme")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.AssetCacheDir = filepath.Join(dir, "assets")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, p := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.AssetCacheDir} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory at %q, err=%v", p, err)
		}
	}
}
