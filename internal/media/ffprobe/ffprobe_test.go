package ffprobe

import (
	"math"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio", SampleRate: "24000", Channels: 1},
			{CodecType: "audio", SampleRate: "48000", Channels: 2},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}

	stream, ok := result.FirstAudioStream()
	if !ok {
		t.Fatal("expected an audio stream")
	}
	if stream.SampleRateHz() != 24000 {
		t.Fatalf("sample rate = %d, want 24000", stream.SampleRateHz())
	}
	if stream.Channels != 1 {
		t.Fatalf("channels = %d, want 1", stream.Channels)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", SampleRate: "bad"}},
		Format: Format{
			Duration: "bad",
			Size:     "-1",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	stream, _ := result.FirstAudioStream()
	if stream.SampleRateHz() != 0 {
		t.Fatalf("expected sample rate 0, got %d", stream.SampleRateHz())
	}
}

func TestFirstAudioStreamMissing(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video"}}}
	if _, ok := result.FirstAudioStream(); ok {
		t.Fatal("expected no audio stream")
	}
}
