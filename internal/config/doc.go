// Package config loads, validates, and defaults the TOML configuration that
// drives every rote command.
//
// Configuration resolution order: explicit --config path, then
// ~/.config/rote/config.toml, then ./rote.toml, then built-in defaults.
// Loaded values are normalized (paths expanded, strings trimmed, fallbacks
// applied) before validation so the rest of the program can rely on a
// well-formed Config.
package config
