// Package config loads, normalizes, and validates the TOML configuration used
// by every gazlink command.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/gazlink/config.toml, then ./gazlink.toml, falling back to built-in
// defaults when no file exists. Path values expand a leading ~ and are made
// absolute during normalization, so downstream code never deals with relative
// or tilde paths.
package config
