// Package catalog persists the five entity collections (tracks, albums,
// artists, composers, ads) in SQLite and exposes the lookup, insert, and
// maintenance operations the ingestion pipeline and fetch queue build on.
//
// The store owns no resolution logic: identity decisions live in
// internal/identity. Uniqueness of external ids is additionally enforced
// at the storage layer through partial unique indexes.
package catalog
