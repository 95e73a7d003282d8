// Package services defines shared utilities consumed by the generation
// pipeline and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run correlation IDs, stage names, and deck
//     metadata for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent classifications (configuration vs synthesis vs
//     external tool).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
