// Package identity decides whether a raw feed record matches an existing
// catalog row. External ids are authoritative; tracks additionally fall
// back to a content fingerprint of (artist, title, filename). Matching is
// case-sensitive and exact — no fuzzy matching.
package identity
