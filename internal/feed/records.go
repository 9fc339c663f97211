package feed

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sentinel field values that mark a feed record as an advertisement slot.
const (
	AdArtistSentinel = "runspot"
	AdTitleSentinel  = "sweeper"
)

// Kind classifies a parsed feed record.
type Kind string

const (
	KindTrack   Kind = "track"
	KindAd      Kind = "ad"
	KindInvalid Kind = "invalid"
)

// Record is the tagged union produced by parsing. Exactly one of Track and
// Ad is populated for valid records; invalid records keep the decode error
// for logging.
type Record struct {
	Kind  Kind
	Track *TrackRecord
	Ad    *AdRecord
	Err   error
}

// TrackRecord is a track-shaped feed entry with its nested sub-objects.
type TrackRecord struct {
	ExternalID string       `json:"_id"`
	Artist     string       `json:"track_artist"`
	Title      string       `json:"title"`
	Filename   string       `json:"fn"`
	URLPrefix  string       `json:"url_prefix"`
	URLPrefix2 string       `json:"url_prefix2"`
	Holiday    bool         `json:"holiday"`
	Duration   float64      `json:"duration"`
	Weight     json.Number  `json:"weight"`
	Album      *AlbumRef    `json:"album"`
	ArtistRef  *ArtistRef   `json:"artist"`
	Composer   *ComposerRef `json:"composer"`
}

// HasIdentity reports whether the record carries enough data to be resolved:
// an external id, or at least one non-empty fingerprint component.
func (t *TrackRecord) HasIdentity() bool {
	if t == nil {
		return false
	}
	return t.ExternalID != "" || t.Artist != "" || t.Title != "" || t.Filename != ""
}

// AlbumRef is the nested album sub-object of a track record.
type AlbumRef struct {
	ExternalID   string      `json:"_id"`
	Title        string      `json:"title"`
	Catalog      string      `json:"catalog"`
	CommercialID string      `json:"commercial_id"`
	Year         json.Number `json:"year"`
	Label        string      `json:"label"`
	CoverRef     string      `json:"coverart"`
}

// ArtistRef is the nested artist sub-object of a track record.
type ArtistRef struct {
	ExternalID string `json:"_id"`
	Display    string `json:"artistdisplay"`
	Category   string `json:"category"`
}

// ComposerRef is the nested composer sub-object of a track record. Some
// feeds carry the name under "composerdisplay", older ones under "value".
type ComposerRef struct {
	ExternalID string `json:"_id"`
	Display    string `json:"composerdisplay"`
	Value      string `json:"value"`
	Category   string `json:"category"`
}

// Name returns the composer display name, falling back to the legacy value field.
func (c *ComposerRef) Name() string {
	if c == nil {
		return ""
	}
	if c.Display != "" {
		return c.Display
	}
	return c.Value
}

// AdRecord is an ad-shaped feed entry.
type AdRecord struct {
	Kind     string   `json:"ad_type"`
	Source   string   `json:"ad_source"`
	Filename string   `json:"fn"`
	FNs      []string `json:"fns"`
}

// Filenames returns the delivery filenames, merging the scalar and array
// feed variants.
func (a *AdRecord) Filenames() []string {
	if a == nil {
		return nil
	}
	if len(a.FNs) > 0 {
		return a.FNs
	}
	if strings.TrimSpace(a.Filename) != "" {
		return []string{a.Filename}
	}
	return nil
}

// Parse decodes a feed body into classified records. A body that is not a
// JSON array fails with ErrSchema; individual records that fail to decode
// are returned as KindInvalid entries rather than aborting the parse.
func Parse(body []byte) ([]Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: payload is not a JSON array: %v", ErrSchema, err)
	}

	records := make([]Record, 0, len(raw))
	for i, entry := range raw {
		records = append(records, classify(i, entry))
	}
	return records, nil
}

func classify(index int, entry json.RawMessage) Record {
	var probe struct {
		Artist string `json:"track_artist"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(entry, &probe); err != nil {
		return Record{Kind: KindInvalid, Err: fmt.Errorf("record %d: decode: %w", index, err)}
	}

	if probe.Artist == AdArtistSentinel && probe.Title == AdTitleSentinel {
		ad := &AdRecord{}
		if err := json.Unmarshal(entry, ad); err != nil {
			return Record{Kind: KindInvalid, Err: fmt.Errorf("record %d: decode ad: %w", index, err)}
		}
		return Record{Kind: KindAd, Ad: ad}
	}

	track := &TrackRecord{}
	if err := json.Unmarshal(entry, track); err != nil {
		return Record{Kind: KindInvalid, Err: fmt.Errorf("record %d: decode track: %w", index, err)}
	}
	return Record{Kind: KindTrack, Track: track}
}
