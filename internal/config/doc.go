// Package config loads, normalizes, and validates poselabel configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes the
// project directory, log settings, and the skeleton definition used when
// importing annotation exports.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
