package catalog_test

import (
	"context"
	"testing"

	"crate/internal/catalog"
	"crate/internal/testsupport"
)

func TestOpenCreatesSchemaAndInsertsAssignIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	track := &catalog.Track{ExternalID: "t1", Artist: "A", Title: "T", Filename: "f1"}
	if err := store.InsertTrack(ctx, track); err != nil {
		t.Fatalf("InsertTrack failed: %v", err)
	}
	if track.ID == 0 {
		t.Fatal("expected track ID to be assigned")
	}
	if track.CreatedAt.IsZero() {
		t.Fatal("expected track CreatedAt to be assigned")
	}

	fetched, err := store.FindTrackByExternalID(ctx, "t1")
	if err != nil {
		t.Fatalf("FindTrackByExternalID failed: %v", err)
	}
	if fetched == nil || fetched.ID != track.ID || fetched.Title != "T" {
		t.Fatalf("unexpected fetched track: %#v", fetched)
	}
}

func TestFindMissesReturnNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	track, err := store.FindTrackByExternalID(ctx, "missing")
	if err != nil || track != nil {
		t.Fatalf("expected nil/nil, got %#v, %v", track, err)
	}
	album, err := store.FindAlbumByExternalID(ctx, "missing")
	if err != nil || album != nil {
		t.Fatalf("expected nil/nil, got %#v, %v", album, err)
	}
	track, err = store.FindTrackByFingerprint(ctx, "a", "b", "c")
	if err != nil || track != nil {
		t.Fatalf("expected nil/nil, got %#v, %v", track, err)
	}
}

func TestExternalIDUniquenessEnforced(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewAlbum(t, store, "a1", "First")
	err := store.InsertAlbum(ctx, &catalog.Album{ExternalID: "a1", Title: "Second"})
	if err == nil {
		t.Fatal("expected uniqueness violation")
	}
	if !catalog.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation classification, got %v", err)
	}
}

func TestTracksWithoutExternalIDDoNotCollide(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.NewTrack(t, store, "", "A", "T1", "f1")
	testsupport.NewTrack(t, store, "", "A", "T2", "f2")

	counts, err := store.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Tracks != 2 {
		t.Fatalf("expected 2 tracks, got %d", counts.Tracks)
	}
}

func TestFindTrackByFingerprintExactMatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	inserted := testsupport.NewTrack(t, store, "", "Artist", "Title", "song.mp3")

	found, err := store.FindTrackByFingerprint(ctx, "Artist", "Title", "song.mp3")
	if err != nil {
		t.Fatalf("FindTrackByFingerprint failed: %v", err)
	}
	if found == nil || found.ID != inserted.ID {
		t.Fatalf("expected fingerprint hit, got %#v", found)
	}

	// Case-sensitive: a different case must miss.
	found, err = store.FindTrackByFingerprint(ctx, "artist", "Title", "song.mp3")
	if err != nil {
		t.Fatalf("FindTrackByFingerprint failed: %v", err)
	}
	if found != nil {
		t.Fatalf("expected case-sensitive miss, got %#v", found)
	}
}

func TestUpdateAlbumImageSetsOnceAndNeverOverwrites(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	album := testsupport.NewAlbum(t, store, "a1", "Alb")

	if err := store.UpdateAlbumImage(ctx, album.ID, "/cache/one.jpg"); err != nil {
		t.Fatalf("UpdateAlbumImage failed: %v", err)
	}
	if err := store.UpdateAlbumImage(ctx, album.ID, "/cache/two.jpg"); err != nil {
		t.Fatalf("UpdateAlbumImage failed: %v", err)
	}

	fetched, err := store.GetAlbumByID(ctx, album.ID)
	if err != nil {
		t.Fatalf("GetAlbumByID failed: %v", err)
	}
	if fetched.CachedImagePath != "/cache/one.jpg" {
		t.Fatalf("expected first write to win, got %q", fetched.CachedImagePath)
	}
}

func TestInsertAdRequiresFilenames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if err := store.InsertAd(ctx, &catalog.Ad{Kind: "paid"}); err == nil {
		t.Fatal("expected error for ad without filenames")
	}

	ad := &catalog.Ad{Kind: "paid", Source: "adswizz", Filenames: []string{"spot1.mp3", "spot2.mp3"}}
	if err := store.InsertAd(ctx, ad); err != nil {
		t.Fatalf("InsertAd failed: %v", err)
	}

	ads, err := store.AllAds(ctx)
	if err != nil {
		t.Fatalf("AllAds failed: %v", err)
	}
	if len(ads) != 1 || len(ads[0].Filenames) != 2 {
		t.Fatalf("unexpected ads: %#v", ads)
	}
}

func TestDeleteAllReturnsPreEraseCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewTrack(t, store, "t1", "A", "T", "f")
	testsupport.NewAlbum(t, store, "a1", "Alb")
	if err := store.InsertAd(ctx, &catalog.Ad{Kind: "unpaid", Filenames: []string{"x.mp3"}}); err != nil {
		t.Fatalf("InsertAd failed: %v", err)
	}

	counts, err := store.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if counts.Tracks != 1 || counts.Albums != 1 || counts.Ads != 1 {
		t.Fatalf("unexpected pre-erase counts: %#v", counts)
	}

	after, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if after.Total() != 0 {
		t.Fatalf("expected empty store, got %#v", after)
	}
}

func TestAlbumsMissingImages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	withCover := &catalog.Album{ExternalID: "a1", Title: "Has cover ref", CoverRef: "cover1.jpg"}
	if err := store.InsertAlbum(ctx, withCover); err != nil {
		t.Fatalf("InsertAlbum failed: %v", err)
	}
	cached := &catalog.Album{ExternalID: "a2", Title: "Cached", CoverRef: "cover2.jpg", CachedImagePath: "/cache/cover2.jpg"}
	if err := store.InsertAlbum(ctx, cached); err != nil {
		t.Fatalf("InsertAlbum failed: %v", err)
	}
	testsupport.NewAlbum(t, store, "a3", "No cover at all")

	missing, err := store.AlbumsMissingImages(ctx)
	if err != nil {
		t.Fatalf("AlbumsMissingImages failed: %v", err)
	}
	if len(missing) != 1 || missing[0].ID != withCover.ID {
		t.Fatalf("unexpected missing set: %#v", missing)
	}
}
