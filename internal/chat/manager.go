// Package chat owns the conversation transcript and the one-request-at-a-time
// submission loop around the backend's chat endpoint.
package chat

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/hpungsan/taskflow/internal/study"
)

// FallbackReply is appended as the assistant turn when a submission fails
// for any reason. Chat failures are swallowed into this single user-visible
// message; the client still classifies them for logging.
const FallbackReply = "Sorry, I encountered an error. Please try again."

// SuggestedPrompts are pre-canned inputs offered on an empty transcript.
// Selecting one short-circuits directly into Submit.
var SuggestedPrompts = []string{
	"Summarize the key concepts",
	"Create a study schedule for next week",
	"What are the main deadlines?",
	"Generate 5 flashcards from this",
}

// Backend is the slice of the API client the manager needs.
type Backend interface {
	SendChatMessage(ctx context.Context, message string, history []study.Message) (string, error)
	FetchChatHistory(ctx context.Context) ([]study.Message, error)
}

// Manager drives the conversation: ordered append-only transcript, optimistic
// user turns, at most one in-flight request. Safe for use from the TUI's
// command goroutines.
type Manager struct {
	backend Backend
	logf    func(format string, args ...any)

	mu         sync.Mutex
	transcript []study.Message
	sending    bool
	started    bool
}

// NewManager creates a Manager over the given backend.
func NewManager(backend Backend) *Manager {
	return &Manager{
		backend: backend,
		logf:    log.Printf,
	}
}

// Start seeds the transcript from the server-side history. It runs at most
// once and is best-effort: a failure is logged and the transcript simply
// starts empty.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	msgs, err := m.backend.FetchChatHistory(ctx)
	if err != nil {
		m.logf("chat: failed to fetch history: %v", err)
		return
	}
	if len(msgs) == 0 {
		return
	}

	m.mu.Lock()
	if len(m.transcript) == 0 {
		m.transcript = msgs
	}
	m.mu.Unlock()
}

// Transcript returns a copy of the current transcript in display order.
func (m *Manager) Transcript() []study.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]study.Message, len(m.transcript))
	copy(out, m.transcript)
	return out
}

// Sending reports whether a submission is in flight.
func (m *Manager) Sending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sending
}

// Submit sends one user turn. It is a no-op returning false when text is
// empty/whitespace or a submission is already in flight. Otherwise it
// appends the user message before the request resolves, sends the transcript
// as it was before that append, and appends exactly one assistant message:
// the server's reply, or FallbackReply on any failure.
func (m *Manager) Submit(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	m.mu.Lock()
	if m.sending {
		m.mu.Unlock()
		return false
	}
	prior := make([]study.Message, len(m.transcript))
	copy(prior, m.transcript)
	m.transcript = append(m.transcript, study.Message{Role: study.RoleUser, Content: text})
	m.sending = true
	m.mu.Unlock()

	reply, err := m.backend.SendChatMessage(ctx, text, prior)
	if err != nil {
		m.logf("chat: send failed: %v", err)
		reply = FallbackReply
	}

	m.mu.Lock()
	m.transcript = append(m.transcript, study.Message{Role: study.RoleAssistant, Content: reply})
	m.sending = false
	m.mu.Unlock()
	return true
}
