// Package config loads and validates the declarative pipeline configuration.
//
// Configuration is a TOML document describing the logger entry point, the
// console and JSON-Lines file sinks, the optional SQLite archive, and the
// optional metrics endpoint. Load resolves the file, decodes it over
// defaults, normalizes paths, and validates everything up front so the
// process never runs with a half-configured pipeline.
package config
