package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const trackColumns = "id, external_id, artist, title, filename, url_prefix, url_prefix2, holiday, duration, weight, album_id, artist_id, composer_id, created_at"
const albumColumns = "id, external_id, title, catalog_number, commercial_id, year, label, cover_ref, cached_image_path, created_at"
const artistColumns = "id, external_id, name, category, created_at"
const composerColumns = "id, external_id, name, category, created_at"
const adColumns = "id, kind, source, filenames, created_at"

type rowScanner interface{ Scan(dest ...any) error }

// FindTrackByExternalID returns the track bearing the external id, or nil on a miss.
func (s *Store) FindTrackByExternalID(ctx context.Context, externalID string) (*Track, error) {
	if externalID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+trackColumns+` FROM tracks WHERE external_id = ?`, externalID)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find track by external id: %w", err)
	}
	return track, nil
}

// FindTrackByFingerprint returns the oldest track matching the content
// fingerprint (artist, title, filename), or nil on a miss. Matching is
// case-sensitive and exact.
func (s *Store) FindTrackByFingerprint(ctx context.Context, artist, title, filename string) (*Track, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE artist = ? AND title = ? AND filename = ? ORDER BY id LIMIT 1`,
		artist, title, filename,
	)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find track by fingerprint: %w", err)
	}
	return track, nil
}

// FindAlbumByExternalID returns the album bearing the external id, or nil on a miss.
func (s *Store) FindAlbumByExternalID(ctx context.Context, externalID string) (*Album, error) {
	if externalID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE external_id = ?`, externalID)
	album, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find album by external id: %w", err)
	}
	return album, nil
}

// GetAlbumByID fetches an album row by surrogate id.
func (s *Store) GetAlbumByID(ctx context.Context, id int64) (*Album, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE id = ?`, id)
	album, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	return album, nil
}

// FindArtistByExternalID returns the artist bearing the external id, or nil on a miss.
func (s *Store) FindArtistByExternalID(ctx context.Context, externalID string) (*Artist, error) {
	if externalID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists WHERE external_id = ?`, externalID)
	artist, err := scanArtist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find artist by external id: %w", err)
	}
	return artist, nil
}

// FindComposerByExternalID returns the composer bearing the external id, or nil on a miss.
func (s *Store) FindComposerByExternalID(ctx context.Context, externalID string) (*Composer, error) {
	if externalID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+composerColumns+` FROM composers WHERE external_id = ?`, externalID)
	composer, err := scanComposer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find composer by external id: %w", err)
	}
	return composer, nil
}

func scanTrack(scanner rowScanner) (*Track, error) {
	var (
		externalID sql.NullString
		urlPrefix  sql.NullString
		urlPrefix2 sql.NullString
		holiday    int
		weight     sql.NullString
		albumID    sql.NullInt64
		artistID   sql.NullInt64
		composerID sql.NullInt64
		createdRaw string
	)
	track := &Track{}
	if err := scanner.Scan(
		&track.ID,
		&externalID,
		&track.Artist,
		&track.Title,
		&track.Filename,
		&urlPrefix,
		&urlPrefix2,
		&holiday,
		&track.Duration,
		&weight,
		&albumID,
		&artistID,
		&composerID,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	track.ExternalID = externalID.String
	track.URLPrefix = urlPrefix.String
	track.URLPrefix2 = urlPrefix2.String
	track.Holiday = holiday != 0
	track.Weight = weight.String
	if albumID.Valid {
		track.AlbumID = &albumID.Int64
	}
	if artistID.Valid {
		track.ArtistID = &artistID.Int64
	}
	if composerID.Valid {
		track.ComposerID = &composerID.Int64
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		track.CreatedAt = created
	}
	return track, nil
}

func scanAlbum(scanner rowScanner) (*Album, error) {
	var (
		externalID    sql.NullString
		catalogNumber sql.NullString
		commercialID  sql.NullString
		year          sql.NullString
		label         sql.NullString
		coverRef      sql.NullString
		cachedImage   sql.NullString
		createdRaw    string
	)
	album := &Album{}
	if err := scanner.Scan(
		&album.ID,
		&externalID,
		&album.Title,
		&catalogNumber,
		&commercialID,
		&year,
		&label,
		&coverRef,
		&cachedImage,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	album.ExternalID = externalID.String
	album.CatalogNumber = catalogNumber.String
	album.CommercialID = commercialID.String
	album.Year = year.String
	album.Label = label.String
	album.CoverRef = coverRef.String
	album.CachedImagePath = cachedImage.String
	if created, err := parseTimeString(createdRaw); err == nil {
		album.CreatedAt = created
	}
	return album, nil
}

func scanArtist(scanner rowScanner) (*Artist, error) {
	var (
		externalID sql.NullString
		category   sql.NullString
		createdRaw string
	)
	artist := &Artist{}
	if err := scanner.Scan(&artist.ID, &externalID, &artist.Name, &category, &createdRaw); err != nil {
		return nil, err
	}
	artist.ExternalID = externalID.String
	artist.Category = category.String
	if created, err := parseTimeString(createdRaw); err == nil {
		artist.CreatedAt = created
	}
	return artist, nil
}

func scanComposer(scanner rowScanner) (*Composer, error) {
	var (
		externalID sql.NullString
		category   sql.NullString
		createdRaw string
	)
	composer := &Composer{}
	if err := scanner.Scan(&composer.ID, &externalID, &composer.Name, &category, &createdRaw); err != nil {
		return nil, err
	}
	composer.ExternalID = externalID.String
	composer.Category = category.String
	if created, err := parseTimeString(createdRaw); err == nil {
		composer.CreatedAt = created
	}
	return composer, nil
}

func scanAd(scanner rowScanner) (*Ad, error) {
	var (
		source       sql.NullString
		filenamesRaw string
		createdRaw   string
	)
	ad := &Ad{}
	if err := scanner.Scan(&ad.ID, &ad.Kind, &source, &filenamesRaw, &createdRaw); err != nil {
		return nil, err
	}
	ad.Source = source.String
	if err := json.Unmarshal([]byte(filenamesRaw), &ad.Filenames); err != nil {
		return nil, fmt.Errorf("decode ad filenames: %w", err)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		ad.CreatedAt = created
	}
	return ad, nil
}
