package models

import (
	"encoding/json"
	"time"
)

type PipelineStatus string

const (
	StatusPending    PipelineStatus = "pending"
	StatusInProgress PipelineStatus = "in_progress"
	StatusComplete   PipelineStatus = "complete"
)

// Phase labels are caller-defined; these are the ones the service itself sets.
const (
	PhaseAnalysis    = "analysis"
	PhaseQuestioning = "questioning"
	PhaseScoring     = "scoring"
)

type NoteKind string

const (
	NoteKindQuestion   NoteKind = "question"
	NoteKindEvaluation NoteKind = "evaluation"
	NoteKindTone       NoteKind = "tone"
)

// Pipeline is the persisted state of one interview session. It is owned by
// the state machine and mutated only through its operations.
type Pipeline struct {
	ID           string         `json:"id"`
	CreatedAt    int64          `json:"createdAt"` // unix milliseconds
	JobTitle     string         `json:"jobTitle"`
	Company      string         `json:"company"`
	JD           string         `json:"jd"`
	Status       PipelineStatus `json:"status"`
	CurrentPhase string         `json:"currentPhase"`
	Notes        []Note         `json:"notes"`
}

// Note is an opaque annotation appended over the pipeline's life. The state
// machine only appends; the payload shape is the concern of whoever wrote it.
type Note struct {
	Kind       NoteKind        `json:"kind"`
	RecordedAt time.Time       `json:"recorded_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewNote marshals payload into an opaque note envelope.
func NewNote(kind NoteKind, payload interface{}) (Note, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Note{}, err
	}
	return Note{
		Kind:       kind,
		RecordedAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}
