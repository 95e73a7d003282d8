// Package batch turns a chunk library into a sequence of generator runs:
// parsing the JavaScript-flavored source, selecting chunks, inferring the
// resume point from existing output, and driving the generator per deck.
package batch
