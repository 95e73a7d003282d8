package synth_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"rote/internal/logging"
	"rote/internal/pcm"
	"rote/internal/synth"
)

var stubFormat = pcm.Format{SampleRate: 24000, Channels: 1, BitDepth: 16}

// slowEngine finishes later phrases first so completion order is the reverse
// of submission order.
type slowEngine struct {
	total      int
	inFlight   atomic.Int32
	maxSeen    atomic.Int32
	failPhrase string
}

func (e *slowEngine) Synthesize(ctx context.Context, text string) (*pcm.Clip, error) {
	current := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		max := e.maxSeen.Load()
		if current <= max || e.maxSeen.CompareAndSwap(max, current) {
			break
		}
	}

	var position int
	fmt.Sscanf(text, "phrase-%d", &position)
	delay := time.Duration(e.total-position) * 5 * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if e.failPhrase != "" && text == e.failPhrase {
		return nil, errors.New("synthetic failure")
	}

	data := []byte(text)
	if len(data)%2 != 0 {
		data = append(data, 0)
	}
	return &pcm.Clip{Format: stubFormat, Data: data}, nil
}

func phraseList(n int) []string {
	phrases := make([]string, n)
	for i := range phrases {
		phrases[i] = fmt.Sprintf("phrase-%d", i)
	}
	return phrases
}

func TestGatherPreservesOrderUnderReversedCompletion(t *testing.T) {
	phrases := phraseList(6)
	engine := &slowEngine{total: len(phrases)}

	takes := synth.Gather(context.Background(), engine, phrases, 6, logging.NewNop())

	if len(takes) != len(phrases) {
		t.Fatalf("got %d takes, want %d", len(takes), len(phrases))
	}
	for i, take := range takes {
		if take.Index != i+1 {
			t.Errorf("take %d has Index %d, want %d", i, take.Index, i+1)
		}
		if take.Text != phrases[i] {
			t.Errorf("take %d has Text %q, want %q", i, take.Text, phrases[i])
		}
		if take.Failed() {
			t.Errorf("take %d unexpectedly failed: %v", i, take.Err)
		}
		if !strings.HasPrefix(string(take.Clip.Data), phrases[i]) {
			t.Errorf("take %d carries clip for %q", i, take.Clip.Data)
		}
	}
}

func TestGatherBoundsConcurrency(t *testing.T) {
	phrases := phraseList(8)
	engine := &slowEngine{total: len(phrases)}

	synth.Gather(context.Background(), engine, phrases, 2, logging.NewNop())

	if max := engine.maxSeen.Load(); max > 2 {
		t.Fatalf("observed %d concurrent syntheses, limit was 2", max)
	}
}

func TestGatherRecordsFailuresWithoutFailing(t *testing.T) {
	phrases := phraseList(4)
	engine := &slowEngine{total: len(phrases), failPhrase: "phrase-2"}

	takes := synth.Gather(context.Background(), engine, phrases, 4, logging.NewNop())

	for i, take := range takes {
		failed := take.Failed()
		if i == 2 && !failed {
			t.Errorf("take %d should have failed", i)
		}
		if i != 2 && failed {
			t.Errorf("take %d unexpectedly failed: %v", i, take.Err)
		}
	}
}

func TestGatherClampsLimit(t *testing.T) {
	phrases := phraseList(3)
	engine := &slowEngine{total: len(phrases)}

	takes := synth.Gather(context.Background(), engine, phrases, 0, logging.NewNop())

	if len(takes) != 3 {
		t.Fatalf("got %d takes, want 3", len(takes))
	}
	if max := engine.maxSeen.Load(); max > 1 {
		t.Fatalf("limit 0 should serialize, saw %d in flight", max)
	}
}

func TestGatherHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	phrases := phraseList(5)
	engine := &slowEngine{total: len(phrases)}

	takes := synth.Gather(ctx, engine, phrases, 1, logging.NewNop())

	if len(takes) != len(phrases) {
		t.Fatalf("got %d takes, want %d", len(takes), len(phrases))
	}
	for i, take := range takes {
		if take.Err == nil {
			t.Errorf("take %d should carry the cancellation error", i)
		}
	}
}

func TestTakeFailed(t *testing.T) {
	clip := &pcm.Clip{Format: stubFormat, Data: []byte{0, 0}}
	tests := []struct {
		name string
		take synth.Take
		want bool
	}{
		{"success", synth.Take{Clip: clip}, false},
		{"error", synth.Take{Clip: clip, Err: errors.New("x")}, true},
		{"nil clip", synth.Take{}, true},
		{"empty clip", synth.Take{Clip: &pcm.Clip{Format: stubFormat}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.take.Failed(); got != tt.want {
				t.Errorf("Failed() = %v, want %v", got, tt.want)
			}
		})
	}
}
