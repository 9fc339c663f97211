package catalog

import "time"

// Track is a playable library entry. Its album, artist, and composer
// references may be nil when the corresponding feed sub-object was missing
// or malformed; absence never blocks track creation.
type Track struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"externalId,omitempty"`
	Artist     string    `json:"artist"`
	Title      string    `json:"title"`
	Filename   string    `json:"filename"`
	URLPrefix  string    `json:"urlPrefix,omitempty"`
	URLPrefix2 string    `json:"urlPrefix2,omitempty"`
	Holiday    bool      `json:"holiday"`
	Duration   float64   `json:"duration"`
	Weight     string    `json:"weight,omitempty"`
	AlbumID    *int64    `json:"albumId,omitempty"`
	ArtistID   *int64    `json:"artistId,omitempty"`
	ComposerID *int64    `json:"composerId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Album groups tracks under a release. CachedImagePath stays empty until
// the fetch queue downloads the referenced cover art; once set it is never
// cleared by the pipeline.
type Album struct {
	ID              int64     `json:"id"`
	ExternalID      string    `json:"externalId,omitempty"`
	Title           string    `json:"title"`
	CatalogNumber   string    `json:"catalogNumber,omitempty"`
	CommercialID    string    `json:"commercialId,omitempty"`
	Year            string    `json:"year,omitempty"`
	Label           string    `json:"label,omitempty"`
	CoverRef        string    `json:"coverRef,omitempty"`
	CachedImagePath string    `json:"cachedImagePath,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Artist is a displayed performer.
type Artist struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"externalId,omitempty"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Composer credits the writer of a track.
type Composer struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"externalId,omitempty"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Ad is an advertisement slot. Ads carry no identity: every ad record in a
// feed inserts a fresh row, because the feed repeats slots intentionally.
type Ad struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Source    string    `json:"source,omitempty"`
	Filenames []string  `json:"filenames"`
	CreatedAt time.Time `json:"createdAt"`
}

// Counts holds per-collection row counts.
type Counts struct {
	Tracks    int `json:"tracks"`
	Albums    int `json:"albums"`
	Artists   int `json:"artists"`
	Composers int `json:"composers"`
	Ads       int `json:"ads"`
}

// Total sums all collection counts.
func (c Counts) Total() int {
	return c.Tracks + c.Albums + c.Artists + c.Composers + c.Ads
}
