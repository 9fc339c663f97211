package catalog

import (
	"context"
	"errors"
	"fmt"
)

// UpdateAlbumImage records the cached cover-art path for an album. The path
// is only set when currently unset; a populated cache pointer is never
// overwritten or cleared.
func (s *Store) UpdateAlbumImage(ctx context.Context, albumID int64, path string) error {
	if path == "" {
		return errors.New("cached image path must not be empty")
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE albums SET cached_image_path = ? WHERE id = ? AND cached_image_path IS NULL`,
		path,
		albumID,
	)
	if err != nil {
		return fmt.Errorf("update album image: %w", err)
	}
	return nil
}

// Counts returns per-collection row counts.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	counts := Counts{}
	for _, probe := range []struct {
		table string
		dest  *int
	}{
		{"tracks", &counts.Tracks},
		{"albums", &counts.Albums},
		{"artists", &counts.Artists},
		{"composers", &counts.Composers},
		{"ads", &counts.Ads},
	} {
		row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+probe.table)
		if err := row.Scan(probe.dest); err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", probe.table, err)
		}
	}
	return counts, nil
}

// DeleteAll removes every row from all five collections and returns the
// pre-erase counts.
func (s *Store) DeleteAll(ctx context.Context) (Counts, error) {
	counts, err := s.Counts(ctx)
	if err != nil {
		return Counts{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("begin erase tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Tracks first so foreign key references never dangle mid-erase.
	for _, table := range []string{"tracks", "albums", "artists", "composers", "ads"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return Counts{}, fmt.Errorf("erase %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("commit erase: %w", err)
	}
	return counts, nil
}

// AllTracks returns every track ordered by id.
func (s *Store) AllTracks(ctx context.Context) ([]*Track, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+trackColumns+` FROM tracks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// AllAlbums returns every album ordered by id.
func (s *Store) AllAlbums(ctx context.Context) ([]*Album, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+albumColumns+` FROM albums ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	var albums []*Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

// AllArtists returns every artist ordered by id.
func (s *Store) AllArtists(ctx context.Context) ([]*Artist, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+artistColumns+` FROM artists ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var artists []*Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}

// AllComposers returns every composer ordered by id.
func (s *Store) AllComposers(ctx context.Context) ([]*Composer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+composerColumns+` FROM composers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list composers: %w", err)
	}
	defer rows.Close()

	var composers []*Composer
	for rows.Next() {
		composer, err := scanComposer(rows)
		if err != nil {
			return nil, err
		}
		composers = append(composers, composer)
	}
	return composers, rows.Err()
}

// AllAds returns every ad ordered by id.
func (s *Store) AllAds(ctx context.Context) ([]*Ad, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+adColumns+` FROM ads ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	defer rows.Close()

	var ads []*Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, ad)
	}
	return ads, rows.Err()
}

// AlbumsMissingImages returns albums that reference cover art but have no
// cached image yet, oldest first. Used by repair paths to re-enqueue
// downloads dropped by interrupted runs.
func (s *Store) AlbumsMissingImages(ctx context.Context) ([]*Album, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+albumColumns+` FROM albums
         WHERE cover_ref IS NOT NULL AND cached_image_path IS NULL
         ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list albums missing images: %w", err)
	}
	defer rows.Close()

	var albums []*Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}
