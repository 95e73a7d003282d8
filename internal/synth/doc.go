// Package synth produces phrase audio. The Engine interface abstracts the
// speech backend; EdgeClient implements it over the edge-tts command line
// tool with an ffprobe/ffmpeg decode step. Gather fans synthesis out over a
// bounded number of concurrent requests while keeping results in phrase
// order.
package synth
