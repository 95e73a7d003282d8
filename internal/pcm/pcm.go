// Package pcm models raw interleaved little-endian signed PCM audio and the
// conversions needed to splice clips from heterogeneous sources into one
// sample-accurate stream.
package pcm

import (
	"fmt"
	"time"
)

// Format describes the shape of raw PCM data. Two formats are interchangeable
// exactly when all three fields match.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Valid reports whether the format can describe real audio.
func (f Format) Valid() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate %d must be positive", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("channel count %d must be positive", f.Channels)
	}
	if f.BitDepth != 8 && f.BitDepth != 16 {
		return fmt.Errorf("bit depth %d unsupported (want 8 or 16)", f.BitDepth)
	}
	return nil
}

// BytesPerFrame returns the byte width of one frame (one sample per channel).
func (f Format) BytesPerFrame() int {
	return f.BitDepth / 8 * f.Channels
}

// FrameCount returns how many whole frames dataLen bytes hold.
func (f Format) FrameCount(dataLen int) int {
	bpf := f.BytesPerFrame()
	if bpf == 0 {
		return 0
	}
	return dataLen / bpf
}

// Duration returns the play time of dataLen bytes in this format.
func (f Format) Duration(dataLen int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	frames := f.FrameCount(dataLen)
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.SampleRate, f.Channels, f.BitDepth)
}

// Clip is a run of raw PCM frames in a single format.
type Clip struct {
	Format Format
	Data   []byte
}

// Validate checks format sanity and frame alignment.
func (c Clip) Validate() error {
	if err := c.Format.Valid(); err != nil {
		return err
	}
	if len(c.Data)%c.Format.BytesPerFrame() != 0 {
		return fmt.Errorf("data length %d is not aligned to %d-byte frames", len(c.Data), c.Format.BytesPerFrame())
	}
	return nil
}

// Duration returns the play time of the clip.
func (c Clip) Duration() time.Duration {
	return c.Format.Duration(len(c.Data))
}

// Frames returns the number of whole frames in the clip.
func (c Clip) Frames() int {
	return c.Format.FrameCount(len(c.Data))
}

// Silence returns zeroed PCM covering d in the given format. The length is
// frame-aligned; sub-frame remainders are truncated.
func Silence(f Format, d time.Duration) []byte {
	if d <= 0 || f.SampleRate <= 0 {
		return nil
	}
	frames := int(d * time.Duration(f.SampleRate) / time.Second)
	return make([]byte, frames*f.BytesPerFrame())
}

// Normalize converts a clip to the target format: bit depth widened or
// narrowed, channels remapped, then linearly resampled. Returns the input
// unchanged when the formats already match.
func Normalize(c Clip, target Format) (Clip, error) {
	if err := c.Validate(); err != nil {
		return Clip{}, fmt.Errorf("source clip: %w", err)
	}
	if err := target.Valid(); err != nil {
		return Clip{}, fmt.Errorf("target format: %w", err)
	}
	if c.Format == target {
		return c, nil
	}

	samples := decodeSamples(c.Data, c.Format)
	samples, err := remapChannels(samples, c.Format.Channels, target.Channels)
	if err != nil {
		return Clip{}, err
	}
	if c.Format.SampleRate != target.SampleRate {
		samples = resampleLinear(samples, target.Channels, c.Format.SampleRate, target.SampleRate)
	}
	return Clip{Format: target, Data: encodeSamples(samples, target.BitDepth)}, nil
}

// decodeSamples widens raw bytes to interleaved 16-bit samples.
func decodeSamples(data []byte, f Format) []int16 {
	switch f.BitDepth {
	case 8:
		samples := make([]int16, len(data))
		for i, b := range data {
			samples[i] = int16(int8(b)) << 8
		}
		return samples
	default:
		samples := make([]int16, len(data)/2)
		for i := range samples {
			samples[i] = int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
		}
		return samples
	}
}

// encodeSamples packs interleaved 16-bit samples at the requested depth.
func encodeSamples(samples []int16, bitDepth int) []byte {
	if bitDepth == 8 {
		data := make([]byte, len(samples))
		for i, s := range samples {
			data[i] = byte(int8(s >> 8))
		}
		return data
	}
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		data[2*i] = byte(s)
		data[2*i+1] = byte(s >> 8)
	}
	return data
}

func remapChannels(samples []int16, from, to int) ([]int16, error) {
	switch {
	case from == to:
		return samples, nil
	case from == 1:
		frames := len(samples)
		out := make([]int16, frames*to)
		for i, s := range samples {
			for ch := 0; ch < to; ch++ {
				out[i*to+ch] = s
			}
		}
		return out, nil
	case to == 1:
		frames := len(samples) / from
		out := make([]int16, frames)
		for i := 0; i < frames; i++ {
			var sum int64
			for ch := 0; ch < from; ch++ {
				sum += int64(samples[i*from+ch])
			}
			out[i] = int16(sum / int64(from))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("channel conversion %d to %d unsupported", from, to)
	}
}

// resampleLinear interpolates interleaved frames between sample rates.
func resampleLinear(samples []int16, channels, inRate, outRate int) []int16 {
	inFrames := len(samples) / channels
	if inFrames == 0 {
		return nil
	}
	outFrames := int(int64(inFrames) * int64(outRate) / int64(inRate))
	out := make([]int16, outFrames*channels)
	step := float64(inRate) / float64(outRate)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		idx := int(pos)
		frac := pos - float64(idx)
		for ch := 0; ch < channels; ch++ {
			if idx >= inFrames-1 {
				out[i*channels+ch] = samples[(inFrames-1)*channels+ch]
				continue
			}
			a := float64(samples[idx*channels+ch])
			b := float64(samples[(idx+1)*channels+ch])
			out[i*channels+ch] = int16(a + (b-a)*frac)
		}
	}
	return out
}
