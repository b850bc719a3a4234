package study

import (
	"crypto/rand"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// resultWire mirrors the backend's upload response before normalization.
// The backend is loose about shapes: summary may be a bare string or a
// {"summary": ...} object, and each task may be a bare string or a
// {"description": ...} object. Everything downstream sees only the
// canonical Result.
type resultWire struct {
	Tasks      []json.RawMessage `json:"tasks"`
	Summary    json.RawMessage   `json:"summary"`
	Schedule   []ScheduleItem    `json:"schedule"`
	Flashcards []Flashcard       `json:"flashcards"`
}

// DecodeResult decodes a raw upload response body into a canonical Result.
// Schedule items are stamped with fresh ULIDs so pending-state tracking has
// a collision-free identity even when date+task repeats.
func DecodeResult(data []byte) (*Result, error) {
	var wire resultWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}

	res := &Result{
		Summary:    normalizeSummary(wire.Summary),
		Schedule:   wire.Schedule,
		Flashcards: wire.Flashcards,
	}

	for _, raw := range wire.Tasks {
		if task, ok := normalizeTask(raw); ok {
			res.Tasks = append(res.Tasks, task)
		}
	}

	for i := range res.Schedule {
		res.Schedule[i].ID = NewID()
	}

	return res, nil
}

// normalizeSummary accepts a bare string or a {"summary": ...} wrapper.
func normalizeSummary(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var wrapped struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Summary
	}

	return ""
}

// normalizeTask accepts a bare string or a {"description": ...} object.
// Tasks that decode to an empty description are dropped.
func normalizeTask(raw json.RawMessage) (Task, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return Task{}, false
		}
		return Task{Description: s}, true
	}

	var obj struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Description != "" {
		return Task{Description: obj.Description}, true
	}

	return Task{}, false
}

// NewID generates a ULID for schedule-item identity.
func NewID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
