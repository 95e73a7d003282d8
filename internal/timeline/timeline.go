// Package timeline assembles synthesized phrase clips into one continuous
// PCM stream and records where every repetition landed.
package timeline

import (
	"bytes"
	"fmt"
	"time"

	"rote/internal/pcm"
	"rote/internal/services"
)

// Phrase is one synthesis result in original list order. A nil or empty Clip
// marks a phrase whose synthesis failed; it contributes nothing to the mix.
type Phrase struct {
	Index int // 1-based display index
	Text  string
	Clip  *pcm.Clip
}

// Event records one spoken repetition: phrase identity plus the half-open
// interval [StartMS, EndMS) it occupies in the final stream.
type Event struct {
	PhraseIndex int
	PhraseText  string
	Repetition  int // 1-based
	StartMS     int64
	EndMS       int64
}

// Ledger is the timing record of an assembled mix.
type Ledger struct {
	Events        []Event
	TotalMS       int64
	Format        pcm.Format
	FailedPhrases []int
}

// Layout carries the pacing parameters for assembly.
type Layout struct {
	Repetitions       int
	RepetitionPauseMS int64
	PhraseGapMS       int64
	TitleIntroMS      int64
}

func (l Layout) validate() error {
	if l.Repetitions < 1 {
		return fmt.Errorf("repetitions %d must be at least 1", l.Repetitions)
	}
	if l.RepetitionPauseMS < 0 || l.PhraseGapMS < 0 || l.TitleIntroMS < 0 {
		return fmt.Errorf("pause durations must not be negative")
	}
	return nil
}

// Mix is the assembled stream plus its ledger.
type Mix struct {
	Data   []byte
	Format pcm.Format
	Ledger Ledger
}

// Duration returns the play time of the assembled stream.
func (m *Mix) Duration() time.Duration {
	return m.Format.Duration(len(m.Data))
}

// Build lays the phrases out on a single timeline: a title-intro silence,
// then each successful phrase spoken Repetitions times with a pause after
// every repetition and a gap after the last one. Failed phrases are skipped
// whole; the stream is exactly as if they were never in the list. The first
// successful clip fixes the output format and every later clip is converted
// to it before splicing.
func Build(phrases []Phrase, layout Layout) (*Mix, error) {
	if err := layout.validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "timeline", "build", "invalid layout", err)
	}
	if len(phrases) == 0 {
		return nil, services.Wrap(services.ErrSynthesis, "timeline", "build", "no phrases to assemble", nil)
	}

	ref, ok := referenceFormat(phrases)
	if !ok {
		return nil, services.Wrap(services.ErrSynthesis, "timeline", "build",
			fmt.Sprintf("all %d phrases failed synthesis", len(phrases)), nil)
	}

	titleIntro := pcm.Silence(ref, time.Duration(layout.TitleIntroMS)*time.Millisecond)
	repetitionPause := pcm.Silence(ref, time.Duration(layout.RepetitionPauseMS)*time.Millisecond)
	phraseGap := pcm.Silence(ref, time.Duration(layout.PhraseGapMS)*time.Millisecond)

	var buf bytes.Buffer
	buf.Write(titleIntro)

	ledger := Ledger{Format: ref}
	msAt := func() int64 { return ref.Duration(buf.Len()).Milliseconds() }

	for _, phrase := range phrases {
		if phrase.Clip == nil || len(phrase.Clip.Data) == 0 {
			ledger.FailedPhrases = append(ledger.FailedPhrases, phrase.Index)
			continue
		}
		clip, err := pcm.Normalize(*phrase.Clip, ref)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "timeline", "build",
				fmt.Sprintf("phrase %d cannot be converted to %s", phrase.Index, ref), err)
		}
		for rep := 1; rep <= layout.Repetitions; rep++ {
			start := msAt()
			buf.Write(clip.Data)
			ledger.Events = append(ledger.Events, Event{
				PhraseIndex: phrase.Index,
				PhraseText:  phrase.Text,
				Repetition:  rep,
				StartMS:     start,
				EndMS:       msAt(),
			})
			buf.Write(repetitionPause)
		}
		buf.Write(phraseGap)
	}

	ledger.TotalMS = msAt()
	return &Mix{Data: buf.Bytes(), Format: ref, Ledger: ledger}, nil
}

// referenceFormat returns the format of the first successful clip.
func referenceFormat(phrases []Phrase) (pcm.Format, bool) {
	for _, phrase := range phrases {
		if phrase.Clip != nil && len(phrase.Clip.Data) > 0 {
			return phrase.Clip.Format, true
		}
	}
	return pcm.Format{}, false
}
