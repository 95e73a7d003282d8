// Package logging wires slog with rote's console and JSON handlers.
//
// New builds the process logger from configuration: a human-readable console
// handler on stderr (or a JSON handler when stderr is not a terminal), plus an
// optional JSON file sink under the configured log directory. Component
// loggers attach the canonical field keys defined in this package so that
// every record carries the same identifiers across handlers.
package logging
