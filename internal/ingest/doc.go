// Package ingest orchestrates one feed run: fetch and parse the remote
// JSON array, classify each record, resolve or create linked entities,
// persist track and ad rows, and hand missing cover art to the fetch
// queue. Records are processed strictly in feed order so later records
// observe every row created earlier in the same run. Overlapping runs are
// rejected through a file lock on the data directory.
package ingest
