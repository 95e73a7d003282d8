package synth_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rote/internal/services"
	"rote/internal/synth"
	"rote/internal/testsupport"
)

const probeJSON = `{"streams":[{"index":0,"codec_name":"mp3","codec_type":"audio","sample_rate":"24000","channels":1}],"format":{"format_name":"mp3","duration":"0.5"}}`

// stubSpeechTools installs edge-tts/ffprobe/ffmpeg stubs that mimic a
// successful synthesis: edge-tts writes a fake MP3, ffprobe reports 24kHz
// mono, ffmpeg emits pcmBytes of raw audio. Argv lines are appended to the
// returned file.
func stubSpeechTools(t *testing.T, pcmBytes int) (argsFile string) {
	t.Helper()

	argsFile = filepath.Join(t.TempDir(), "args.txt")

	edgeScript := fmt.Sprintf(`#!/bin/sh
echo "edge-tts $@" >> %q
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--write-media" ]; then out="$2"; fi
  shift
done
printf 'fake-mp3-bytes' > "$out"
`, argsFile)

	probeScript := fmt.Sprintf(`#!/bin/sh
echo "ffprobe $@" >> %q
cat <<'JSON'
%s
JSON
`, argsFile, probeJSON)

	ffmpegScript := fmt.Sprintf(`#!/bin/sh
echo "ffmpeg $@" >> %q
head -c %d /dev/zero
`, argsFile, pcmBytes)

	testsupport.NewConfig(t,
		testsupport.WithBinaryScript("edge-tts", edgeScript),
		testsupport.WithBinaryScript("ffprobe", probeScript),
		testsupport.WithBinaryScript("ffmpeg", ffmpegScript),
	)
	return argsFile
}

func TestEdgeClientSynthesizesAndDecodes(t *testing.T) {
	argsFile := stubSpeechTools(t, 4800)

	client, err := synth.NewEdgeClient("edge-tts", "en-US-GuyNeural",
		synth.WithProsody("-10%", "+0%"),
		synth.WithTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("NewEdgeClient: %v", err)
	}

	clip, err := client.Synthesize(context.Background(), `She said \"hi\"`)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if clip.Format.SampleRate != 24000 || clip.Format.Channels != 1 || clip.Format.BitDepth != 16 {
		t.Fatalf("clip format = %v, want 24000Hz/1ch/16bit", clip.Format)
	}
	if len(clip.Data) != 4800 {
		t.Fatalf("clip bytes = %d, want 4800", len(clip.Data))
	}
	if clip.Duration() != 100*time.Millisecond {
		t.Fatalf("clip duration = %v, want 100ms", clip.Duration())
	}

	argv, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read argv log: %v", err)
	}
	calls := strings.Split(strings.TrimSpace(string(argv)), "\n")
	if len(calls) != 3 {
		t.Fatalf("expected 3 tool invocations, got %d: %q", len(calls), calls)
	}

	edgeCall := calls[0]
	for _, fragment := range []string{
		"--voice en-US-GuyNeural",
		"--rate -10%",
		"--volume +0%",
		`--text She said "hi"`,
		"--write-media",
	} {
		if !strings.Contains(edgeCall, fragment) {
			t.Errorf("edge-tts argv missing %q: %s", fragment, edgeCall)
		}
	}
	if !strings.HasPrefix(calls[1], "ffprobe ") {
		t.Errorf("second call should be ffprobe, got %s", calls[1])
	}
	ffmpegCall := calls[2]
	for _, fragment := range []string{"-f s16le", "-ar 24000", "-ac 1", "pipe:1"} {
		if !strings.Contains(ffmpegCall, fragment) {
			t.Errorf("ffmpeg argv missing %q: %s", fragment, ffmpegCall)
		}
	}
}

func TestEdgeClientRejectsEmptyPhrase(t *testing.T) {
	client, err := synth.NewEdgeClient("edge-tts", "en-US-GuyNeural")
	if err != nil {
		t.Fatalf("NewEdgeClient: %v", err)
	}

	_, err = client.Synthesize(context.Background(), `  \ `)
	if err == nil {
		t.Fatal("expected error for empty phrase")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation marker", err)
	}
}

func TestEdgeClientRequiresVoice(t *testing.T) {
	_, err := synth.NewEdgeClient("edge-tts", "  ")
	if err == nil {
		t.Fatal("expected error for missing voice")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration marker", err)
	}
}

func TestEdgeClientToolFailure(t *testing.T) {
	testsupport.NewConfig(t,
		testsupport.WithBinaryScript("edge-tts", "#!/bin/sh\necho 'no such voice' >&2\nexit 1\n"),
	)

	client, err := synth.NewEdgeClient("edge-tts", "bogus-voice")
	if err != nil {
		t.Fatalf("NewEdgeClient: %v", err)
	}

	_, err = client.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error from failing tool")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool marker", err)
	}
	if !strings.Contains(err.Error(), "no such voice") {
		t.Fatalf("error should carry tool stderr, got %v", err)
	}
}

func TestEdgeClientNoAudioProduced(t *testing.T) {
	testsupport.NewConfig(t,
		testsupport.WithBinaryScript("edge-tts", "#!/bin/sh\nexit 0\n"),
	)

	client, err := synth.NewEdgeClient("edge-tts", "en-US-GuyNeural")
	if err != nil {
		t.Fatalf("NewEdgeClient: %v", err)
	}

	_, err = client.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error when no media file is written")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool marker", err)
	}
}

func TestEdgeClientTimeout(t *testing.T) {
	testsupport.NewConfig(t,
		testsupport.WithBinaryScript("edge-tts", "#!/bin/sh\nexec sleep 5\n"),
	)

	client, err := synth.NewEdgeClient("edge-tts", "en-US-GuyNeural",
		synth.WithTimeout(50*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewEdgeClient: %v", err)
	}

	start := time.Now()
	_, err = client.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout marker", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout took %v, request was not cancelled", elapsed)
	}
}
