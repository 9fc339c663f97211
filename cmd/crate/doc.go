// Command crate is the catalog CLI: ingest feed runs, inspect catalog
// stats, repair missing cover art, and move the catalog between machines
// with export and import.
package main
