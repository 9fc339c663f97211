package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crate/internal/feed"
	"crate/internal/testsupport"
)

type cliTestEnv struct {
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, feedURL, assetURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
asset_cache_dir = %q

[feed]
url = %q

[assets]
base_url = %q
pacing_millis = 0
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "assets"),
		feedURL,
		assetURL,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got %q", needle, haystack)
	}
}

func TestCLIIngestStatsErase(t *testing.T) {
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
	assetSrv := testsupport.NewAssetServer(t, []byte("jpeg-bytes"))
	env := setupCLITestEnv(t, feedSrv.URL, assetSrv.URL)

	out, _, err := runCLI(t, env.configPath, "ingest")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	requireContains(t, out, "complete")

	out, _, err = runCLI(t, env.configPath, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Tracks")
	requireContains(t, out, "Ads")

	_, _, err = runCLI(t, env.configPath, "erase")
	if err == nil {
		t.Fatal("erase without --yes must fail")
	}

	out, _, err = runCLI(t, env.configPath, "erase", "--yes")
	if err != nil {
		t.Fatalf("erase --yes: %v", err)
	}
	requireContains(t, out, "Erased 2 rows")
}

func TestCLIExportImport(t *testing.T) {
	payload := []any{
		map[string]any{"_id": "t1", "track_artist": "A", "title": "T", "fn": "f1"},
	}
	feedSrv := testsupport.NewFeedServer(t, payload)
	assetSrv := testsupport.NewAssetServer(t, nil)

	src := setupCLITestEnv(t, feedSrv.URL, assetSrv.URL)
	if _, _, err := runCLI(t, src.configPath, "ingest"); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	archivePath := filepath.Join(t.TempDir(), "catalog.zip")
	out, _, err := runCLI(t, src.configPath, "export", archivePath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 1 rows")

	dst := setupCLITestEnv(t, feedSrv.URL, assetSrv.URL)
	out, _, err = runCLI(t, dst.configPath, "import", archivePath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported 1 rows")

	out, _, err = runCLI(t, dst.configPath, "stats", "--json")
	if err != nil {
		t.Fatalf("stats --json: %v", err)
	}
	requireContains(t, out, `"tracks": 1`)
}

func TestConfigInitAndShow(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")

	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, "", "config", "init", "--path", target)
	if err == nil {
		t.Fatal("expected error when config already exists")
	}
}
