package study

import (
	"encoding/json"
	"sync"
)

// Slot is the persistence port for the single most-recent Result. The
// durable implementation lives in internal/db (a named SQLite slot); tests
// use MemorySlot.
type Slot interface {
	// Load returns the stored bytes, or (nil, nil) when the slot is empty.
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

// Store owns the single most-recent processing result. It is passive: it
// holds exactly what the last successful upload produced and never refreshes
// on its own. Replace overwrites the whole result; there is no partial
// update.
type Store struct {
	mu   sync.RWMutex
	slot Slot
}

// NewStore creates a Store over the given persistence slot.
func NewStore(slot Slot) *Store {
	return &Store{slot: slot}
}

// Get returns the current result, or nil when no upload has succeeded yet.
func (s *Store) Get() (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.slot.Load()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Replace stores res as the one current result, discarding any prior one.
func (s *Store) Replace(res *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return s.slot.Save(data)
}

// Clear empties the slot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot.Clear()
}

// MemorySlot is an in-memory Slot for tests and the MCP server's fallback.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

func (m *MemorySlot) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemorySlot) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

func (m *MemorySlot) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
