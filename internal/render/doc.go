// Package render turns a timed audio mix and its overlay descriptors into the
// final artifacts: an MP3 of the narration and an MP4 with the text burned in.
// All encoding is delegated to ffmpeg; overlays travel as a drawtext
// filtergraph written to a script file.
package render
