package pcm

import (
	"testing"
	"time"
)

func TestFormatValid(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{"mono 16-bit", Format{SampleRate: 24000, Channels: 1, BitDepth: 16}, false},
		{"stereo 8-bit", Format{SampleRate: 44100, Channels: 2, BitDepth: 8}, false},
		{"zero rate", Format{SampleRate: 0, Channels: 1, BitDepth: 16}, true},
		{"zero channels", Format{SampleRate: 24000, Channels: 0, BitDepth: 16}, true},
		{"odd bit depth", Format{SampleRate: 24000, Channels: 1, BitDepth: 24}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Valid()
			if (err != nil) != tt.wantErr {
				t.Errorf("Valid() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	f := Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
	// 24000 frames of 2 bytes is exactly one second.
	if got := f.Duration(48000); got != time.Second {
		t.Fatalf("Duration(48000) = %v, want 1s", got)
	}
	if got := f.Duration(24000); got != 500*time.Millisecond {
		t.Fatalf("Duration(24000) = %v, want 500ms", got)
	}
}

func TestSilenceFrameAligned(t *testing.T) {
	f := Format{SampleRate: 24000, Channels: 1, BitDepth: 16}

	data := Silence(f, 4*time.Second)
	if len(data) != 4*24000*2 {
		t.Fatalf("len = %d, want %d", len(data), 4*24000*2)
	}
	for _, b := range data {
		if b != 0 {
			t.Fatal("silence must be zeroed")
		}
	}

	stereo := Format{SampleRate: 48000, Channels: 2, BitDepth: 16}
	data = Silence(stereo, 250*time.Millisecond)
	if len(data)%stereo.BytesPerFrame() != 0 {
		t.Fatalf("silence length %d not frame aligned", len(data))
	}
	if frames := stereo.FrameCount(len(data)); frames != 12000 {
		t.Fatalf("frames = %d, want 12000", frames)
	}

	if Silence(f, 0) != nil {
		t.Fatal("zero duration should yield nil")
	}
}

func TestClipValidateAlignment(t *testing.T) {
	f := Format{SampleRate: 24000, Channels: 2, BitDepth: 16}
	if err := (Clip{Format: f, Data: make([]byte, 8)}).Validate(); err != nil {
		t.Fatalf("aligned clip: %v", err)
	}
	if err := (Clip{Format: f, Data: make([]byte, 7)}).Validate(); err == nil {
		t.Fatal("expected alignment error")
	}
}

func TestNormalizeIdentity(t *testing.T) {
	f := Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
	clip := Clip{Format: f, Data: []byte{1, 2, 3, 4}}

	got, err := Normalize(clip, f)
	if err != nil {
		t.Fatal(err)
	}
	if &got.Data[0] != &clip.Data[0] {
		t.Fatal("matching formats should return the clip unchanged")
	}
}

func TestNormalizeMonoToStereo(t *testing.T) {
	src := Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
	dst := Format{SampleRate: 24000, Channels: 2, BitDepth: 16}
	// Two frames: 0x0102 and 0x0304 little endian.
	clip := Clip{Format: src, Data: []byte{0x02, 0x01, 0x04, 0x03}}

	got, err := Normalize(clip, dst)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x02, 0x01, 0x02, 0x01, 0x04, 0x03, 0x04, 0x03}
	if len(got.Data) != len(want) {
		t.Fatalf("len = %d, want %d", len(got.Data), len(want))
	}
	for i := range want {
		if got.Data[i] != want[i] {
			t.Fatalf("data = %v, want %v", got.Data, want)
		}
	}
}

func TestNormalizeStereoToMonoAverages(t *testing.T) {
	src := Format{SampleRate: 24000, Channels: 2, BitDepth: 16}
	dst := Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
	// One frame: left 100, right 300. Average 200.
	clip := Clip{Format: src, Data: []byte{100, 0, 44, 1}}

	got, err := Normalize(clip, dst)
	if err != nil {
		t.Fatal(err)
	}
	if got.Frames() != 1 {
		t.Fatalf("frames = %d, want 1", got.Frames())
	}
	sample := int16(uint16(got.Data[0]) | uint16(got.Data[1])<<8)
	if sample != 200 {
		t.Fatalf("sample = %d, want 200", sample)
	}
}

func TestNormalizeWidensBitDepth(t *testing.T) {
	src := Format{SampleRate: 24000, Channels: 1, BitDepth: 8}
	dst := Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
	clip := Clip{Format: src, Data: []byte{0x40}} // +64 as int8

	got, err := Normalize(clip, dst)
	if err != nil {
		t.Fatal(err)
	}
	sample := int16(uint16(got.Data[0]) | uint16(got.Data[1])<<8)
	if sample != 64<<8 {
		t.Fatalf("sample = %d, want %d", sample, 64<<8)
	}
}

func TestNormalizeResamplesLength(t *testing.T) {
	src := Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
	dst := Format{SampleRate: 48000, Channels: 1, BitDepth: 16}
	clip := Clip{Format: src, Data: Silence(src, time.Second)}

	got, err := Normalize(clip, dst)
	if err != nil {
		t.Fatal(err)
	}
	if got.Frames() != 48000 {
		t.Fatalf("frames = %d, want 48000", got.Frames())
	}
	if got.Duration() != time.Second {
		t.Fatalf("duration = %v, want 1s", got.Duration())
	}
}

func TestNormalizeDownsamplePreservesDuration(t *testing.T) {
	src := Format{SampleRate: 48000, Channels: 2, BitDepth: 16}
	dst := Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
	clip := Clip{Format: src, Data: Silence(src, 2*time.Second)}

	got, err := Normalize(clip, dst)
	if err != nil {
		t.Fatal(err)
	}
	if got.Duration() != 2*time.Second {
		t.Fatalf("duration = %v, want 2s", got.Duration())
	}
	if got.Format != dst {
		t.Fatalf("format = %v, want %v", got.Format, dst)
	}
}

func TestNormalizeRejectsUnsupportedChannelPair(t *testing.T) {
	src := Format{SampleRate: 24000, Channels: 4, BitDepth: 16}
	dst := Format{SampleRate: 24000, Channels: 2, BitDepth: 16}
	clip := Clip{Format: src, Data: make([]byte, src.BytesPerFrame())}

	if _, err := Normalize(clip, dst); err == nil {
		t.Fatal("expected unsupported channel conversion error")
	}
}

func TestNormalizeRejectsMisaligned(t *testing.T) {
	src := Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
	clip := Clip{Format: src, Data: make([]byte, 3)}

	if _, err := Normalize(clip, src); err == nil {
		t.Fatal("expected alignment error")
	}
}
