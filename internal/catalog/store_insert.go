package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// InsertTrack persists a new track row and assigns its id and creation time.
func (s *Store) InsertTrack(ctx context.Context, track *Track) error {
	if track == nil {
		return errors.New("track is nil")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO tracks (
            external_id, artist, title, filename, url_prefix, url_prefix2,
            holiday, duration, weight, album_id, artist_id, composer_id, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableString(track.ExternalID),
		track.Artist,
		track.Title,
		track.Filename,
		nullableString(track.URLPrefix),
		nullableString(track.URLPrefix2),
		boolToInt(track.Holiday),
		track.Duration,
		nullableString(track.Weight),
		nullableInt64(track.AlbumID),
		nullableInt64(track.ArtistID),
		nullableInt64(track.ComposerID),
		timestamp(now),
	)
	if err != nil {
		return fmt.Errorf("insert track: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	track.ID = id
	track.CreatedAt = now
	return nil
}

// InsertAlbum persists a new album row and assigns its id and creation time.
func (s *Store) InsertAlbum(ctx context.Context, album *Album) error {
	if album == nil {
		return errors.New("album is nil")
	}
	if album.Title == "" {
		return errors.New("album title is required")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO albums (
            external_id, title, catalog_number, commercial_id, year, label,
            cover_ref, cached_image_path, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableString(album.ExternalID),
		album.Title,
		nullableString(album.CatalogNumber),
		nullableString(album.CommercialID),
		nullableString(album.Year),
		nullableString(album.Label),
		nullableString(album.CoverRef),
		nullableString(album.CachedImagePath),
		timestamp(now),
	)
	if err != nil {
		return fmt.Errorf("insert album: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	album.ID = id
	album.CreatedAt = now
	return nil
}

// InsertArtist persists a new artist row and assigns its id and creation time.
func (s *Store) InsertArtist(ctx context.Context, artist *Artist) error {
	if artist == nil {
		return errors.New("artist is nil")
	}
	if artist.Name == "" {
		return errors.New("artist name is required")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO artists (external_id, name, category, created_at) VALUES (?, ?, ?, ?)`,
		nullableString(artist.ExternalID),
		artist.Name,
		nullableString(artist.Category),
		timestamp(now),
	)
	if err != nil {
		return fmt.Errorf("insert artist: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	artist.ID = id
	artist.CreatedAt = now
	return nil
}

// InsertComposer persists a new composer row and assigns its id and creation time.
func (s *Store) InsertComposer(ctx context.Context, composer *Composer) error {
	if composer == nil {
		return errors.New("composer is nil")
	}
	if composer.Name == "" {
		return errors.New("composer name is required")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO composers (external_id, name, category, created_at) VALUES (?, ?, ?, ?)`,
		nullableString(composer.ExternalID),
		composer.Name,
		nullableString(composer.Category),
		timestamp(now),
	)
	if err != nil {
		return fmt.Errorf("insert composer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	composer.ID = id
	composer.CreatedAt = now
	return nil
}

// InsertAd persists a new ad row. Ads carry no identity, so every feed
// slot inserts fresh.
func (s *Store) InsertAd(ctx context.Context, ad *Ad) error {
	if ad == nil {
		return errors.New("ad is nil")
	}
	if len(ad.Filenames) == 0 {
		return errors.New("ad requires at least one filename")
	}
	filenamesJSON, err := json.Marshal(ad.Filenames)
	if err != nil {
		return fmt.Errorf("marshal ad filenames: %w", err)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO ads (kind, source, filenames, created_at) VALUES (?, ?, ?, ?)`,
		ad.Kind,
		nullableString(ad.Source),
		string(filenamesJSON),
		timestamp(now),
	)
	if err != nil {
		return fmt.Errorf("insert ad: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	ad.ID = id
	ad.CreatedAt = now
	return nil
}
