// Package config loads and validates crate's TOML configuration.
//
// Configuration resolution order: an explicit --config path, then
// ~/.config/crate/config.toml, then ./crate.toml. Missing files fall back
// to defaults so the CLI stays usable out of the box. All path fields are
// tilde-expanded and validated before a Config is handed to the rest of
// the system.
package config
