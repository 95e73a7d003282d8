package manifest

import "time"

// RunKind distinguishes single-deck runs from batch runs.
type RunKind string

const (
	RunKindGenerate RunKind = "generate"
	RunKindBatch    RunKind = "batch"
)

// RunStatus represents the lifecycle of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ItemStatus represents the lifecycle of one deck within a run.
type ItemStatus string

const (
	ItemPending      ItemStatus = "pending"
	ItemSynthesizing ItemStatus = "synthesizing"
	ItemRendering    ItemStatus = "rendering"
	ItemCompleted    ItemStatus = "completed"
	ItemFailed       ItemStatus = "failed"
)

// Run records one invocation of the generator or the batch runner. The ID is
// a UUID that doubles as the logging correlation ID.
type Run struct {
	ID         string
	Kind       RunKind
	ChunksFile string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     RunStatus
	ErrorMsg   string
}

// Item records the outcome of one deck.
type Item struct {
	ID            int64
	RunID         string
	DeckIndex     int
	Title         string
	OutputBase    string
	PhraseCount   int
	FailedPhrases int
	DurationMS    int64
	AudioPath     string
	VideoPath     string
	Status        ItemStatus
	ErrorMsg      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
