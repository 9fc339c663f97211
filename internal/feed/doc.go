// Package feed fetches the upstream JSON library feed and parses it into
// classified records. Classification happens once at parse time: a record
// whose artist and title carry the ad sentinel values becomes an ad,
// everything else is treated as a track with optional nested album,
// artist, and composer sub-objects.
package feed
