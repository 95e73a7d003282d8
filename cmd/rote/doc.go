// Package main hosts the rote CLI entrypoint and command graph.
//
// The Cobra-based command tree drives single-deck generation, batch runs over
// a chunk library, manifest history inspection, output joining, dependency
// preflight, and configuration scaffolding. It centralizes configuration
// resolution, output-directory locking, and logger setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
