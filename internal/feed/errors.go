package feed

import "errors"

// ErrFetch marks run-aborting transport failures: the feed endpoint was
// unreachable or returned a non-success status.
var ErrFetch = errors.New("feed fetch failed")

// ErrSchema marks run-aborting payload failures: the feed body was not a
// JSON array. Per-record decode problems are not schema errors; they
// surface as invalid records and are skipped by the pipeline.
var ErrSchema = errors.New("feed schema invalid")
