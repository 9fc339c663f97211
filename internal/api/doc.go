// Package api is the operation surface behind the CLI: one Service that
// wires the store, asset cache, fetch queue, and ingestion pipeline
// together and exposes the catalog operations as plain methods.
package api
