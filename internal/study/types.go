// Package study holds the client-side data model for one processed document
// and the store that keeps the most recent processing result.
package study

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation. Messages carry no identifier;
// their identity is their position in the transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Task is a single extracted task, normalized to a description.
type Task struct {
	Description string `json:"description"`
}

// ScheduleItem is one study session of the generated plan. ID is assigned
// client-side at normalization time and is the identity used for pending
// calendar-add tracking; Date+Task is kept only as the wire shape and is not
// guaranteed unique.
type ScheduleItem struct {
	ID              string `json:"id,omitempty"`
	Date            string `json:"date"`
	Task            string `json:"task"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Key returns the legacy date+task composite key. It is display/dedup
// material only; two items may share it.
func (s ScheduleItem) Key() string {
	return s.Date + s.Task
}

// Flashcard is a question/answer pair with optional tags.
type Flashcard struct {
	Front string   `json:"front"`
	Back  string   `json:"back"`
	Tags  []string `json:"tags,omitempty"`
}

// Result is the derived-data bundle produced by processing one uploaded
// document. Exactly one Result exists client-side at a time; a new upload
// replaces it wholesale.
type Result struct {
	Tasks      []Task         `json:"tasks"`
	Summary    string         `json:"summary"`
	Schedule   []ScheduleItem `json:"schedule"`
	Flashcards []Flashcard    `json:"flashcards"`
}

// HistoryEntry is one past processing run as reported by the backend.
type HistoryEntry struct {
	Timestamp       string `json:"timestamp"`
	Filename        string `json:"filename"`
	Summary         string `json:"summary"`
	TasksCount      int    `json:"tasks_count"`
	FlashcardsCount int    `json:"flashcards_count"`
	ScheduleCount   int    `json:"schedule_count"`
}
