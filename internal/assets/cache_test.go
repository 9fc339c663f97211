package assets_test

import (
	"os"
	"path/filepath"
	"testing"

	"crate/internal/assets"
)

func TestWriteThenHas(t *testing.T) {
	cache, err := assets.NewCache(filepath.Join(t.TempDir(), "covers"))
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	if cache.Has("cover.jpg") {
		t.Fatal("expected miss before write")
	}

	path, err := cache.Write("cover.jpg", []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !cache.Has("cover.jpg") {
		t.Fatal("expected hit after write")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cached asset: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("unexpected cached bytes: %v", data)
	}
}

func TestSanitizeRef(t *testing.T) {
	cases := []struct {
		name string
		ref  string
		want string
	}{
		{"plain", "cover.jpg", "cover.jpg"},
		{"nested path", "art/2019/cover.jpg", "cover.jpg"},
		{"query stripped", "cover.jpg?size=large", "cover.jpg"},
		{"traversal", "../../etc/passwd", "passwd"},
		{"backslashes", `art\cover.jpg`, "cover.jpg"},
		{"empty", "", "_"},
		{"dot", ".", "_"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := assets.SanitizeRef(tc.ref); got != tc.want {
				t.Fatalf("SanitizeRef(%q) = %q, want %q", tc.ref, got, tc.want)
			}
		})
	}
}

func TestPathStaysInsideCacheDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "covers")
	cache, err := assets.NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	path := cache.Path("../../escape.jpg")
	if filepath.Dir(path) != dir {
		t.Fatalf("expected path inside cache dir, got %q", path)
	}
}

func TestNewCacheRequiresDir(t *testing.T) {
	if _, err := assets.NewCache("  "); err == nil {
		t.Fatal("expected error for empty cache dir")
	}
}
