// Package generator orchestrates the per-deck pipeline: phrase synthesis,
// timeline assembly, MP3 encode, overlay derivation, and MP4 render, with
// best-effort manifest recording and notifications along the way.
package generator
