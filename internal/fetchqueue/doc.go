// Package fetchqueue downloads cover art referenced by feed records and
// back-fills album cache pointers, decoupled from the ingestion request
// path.
//
// The queue is a single owned worker: one goroutine drains an unbounded
// pending list oldest-first, with a fixed per-download timeout and a
// pacing delay between downloads to bound load on the asset host. A
// download failure is logged and discarded — never retried — because a
// later ingestion run re-enqueues any asset that is still referenced and
// still missing. Enqueue and Status are safe to call from any goroutine.
package fetchqueue
