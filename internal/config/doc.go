// Package config loads, normalizes, and validates extrafiles configuration.
//
// It supplies the plugin defaults (booklet, log, cue and cover rules that all
// relocate to $albumpath/extra/), expands user paths, reads TOML files, and
// honours environment fallbacks such as EXTRAFILES_CONFIG and BEETS_LIBRARY,
// optionally sourced from a .env file. The [patterns] table keeps the order
// it was written in, since the first matching category wins.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical names, and clear validation errors.
package config
