// Package logging assembles the structured slog loggers used across crate.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and standardizes the field names components attach to log
// lines (run ids, record kinds, asset references). Prefer these
// constructors over hand-rolled slog setup so every component emits data
// with the same shape.
package logging
