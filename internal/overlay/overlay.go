// Package overlay derives the text overlays burned into the rendered video
// from a timeline ledger: title card, per-phrase subtitle, repetition
// counter, and progress indicator.
package overlay

import (
	"fmt"
	"sort"

	"rote/internal/timeline"
)

// Kind selects the visual treatment of a descriptor. Position, font, size,
// and color are resolved by the renderer from video configuration.
type Kind string

const (
	KindTitle    Kind = "title"
	KindPhrase   Kind = "phrase"
	KindCounter  Kind = "counter"
	KindProgress Kind = "progress"
)

// Descriptor is one overlay: what to draw and when it is visible, as the
// half-open interval [StartMS, EndMS).
type Descriptor struct {
	Kind    Kind
	Text    string
	StartMS int64
	EndMS   int64
}

// Window is the span a phrase owns on screen: from its first repetition
// starting to the last repetition's pause ending.
type Window struct {
	PhraseIndex int
	Text        string
	StartMS     int64
	EndMS       int64
}

// Options carries the display parameters for derivation.
type Options struct {
	TitleText         string
	TotalPhrases      int
	Repetitions       int
	TitleIntroMS      int64
	RepetitionPauseMS int64
}

// titleCardTrimMS ends the title card shortly before the first phrase so the
// screen is clear when speech starts.
const titleCardTrimMS = 500

// Windows groups the ledger's events by phrase and returns one window per
// phrase, sorted by phrase index. Each window stretches from the phrase's
// earliest event start to its latest event end plus the full repetition
// pause.
func Windows(ledger timeline.Ledger, repetitionPauseMS int64) []Window {
	byPhrase := make(map[int]*Window)
	for _, event := range ledger.Events {
		w, ok := byPhrase[event.PhraseIndex]
		if !ok {
			byPhrase[event.PhraseIndex] = &Window{
				PhraseIndex: event.PhraseIndex,
				Text:        event.PhraseText,
				StartMS:     event.StartMS,
				EndMS:       event.EndMS + repetitionPauseMS,
			}
			continue
		}
		if event.StartMS < w.StartMS {
			w.StartMS = event.StartMS
		}
		if end := event.EndMS + repetitionPauseMS; end > w.EndMS {
			w.EndMS = end
		}
	}

	windows := make([]Window, 0, len(byPhrase))
	for _, w := range byPhrase {
		windows = append(windows, *w)
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].PhraseIndex < windows[j].PhraseIndex })
	return windows
}

// Derive turns a ledger into the full overlay set. The result is a pure
// function of the inputs: deriving twice from the same ledger yields the
// same descriptors.
func Derive(ledger timeline.Ledger, opts Options) []Descriptor {
	var descriptors []Descriptor

	if opts.TitleIntroMS > titleCardTrimMS {
		descriptors = append(descriptors, Descriptor{
			Kind:    KindTitle,
			Text:    opts.TitleText,
			StartMS: 0,
			EndMS:   opts.TitleIntroMS - titleCardTrimMS,
		})
	}

	eventsByPhrase := make(map[int][]timeline.Event)
	for _, event := range ledger.Events {
		eventsByPhrase[event.PhraseIndex] = append(eventsByPhrase[event.PhraseIndex], event)
	}

	for _, window := range Windows(ledger, opts.RepetitionPauseMS) {
		descriptors = append(descriptors, Descriptor{
			Kind:    KindPhrase,
			Text:    window.Text,
			StartMS: window.StartMS,
			EndMS:   window.EndMS,
		})
		for _, event := range eventsByPhrase[window.PhraseIndex] {
			descriptors = append(descriptors, Descriptor{
				Kind:    KindCounter,
				Text:    fmt.Sprintf("[ %d / %d ]", event.Repetition, opts.Repetitions),
				StartMS: event.StartMS,
				EndMS:   event.EndMS + opts.RepetitionPauseMS,
			})
		}
		descriptors = append(descriptors, Descriptor{
			Kind:    KindProgress,
			Text:    fmt.Sprintf("Phrase %d / %d", window.PhraseIndex, opts.TotalPhrases),
			StartMS: window.StartMS,
			EndMS:   window.EndMS,
		})
	}

	return descriptors
}
