// Package settings captures the AI provider API key and hands it to the
// backend. The key is a write-only secret: on success the captured value is
// wiped and nothing is retained client-side.
package settings

import (
	"context"

	"github.com/hpungsan/taskflow/internal/errors"
)

// MinKeyLength is the exclusive lower bound on key length; anything shorter
// never reaches the backend.
const MinKeyLength = 10

// InvalidKeyMessage is shown on validation failure.
const InvalidKeyMessage = "Please enter a valid API Key"

// SavedMessage confirms a successful save.
const SavedMessage = "API Key saved successfully!"

// Backend is the slice of the API client the capture needs.
type Backend interface {
	SaveAPIKey(ctx context.Context, key string) error
}

// Capture is short-lived form state for one key entry.
type Capture struct {
	backend Backend
	key     string
}

// NewCapture creates an empty Capture. Every capture starts from an empty
// value; nothing is carried over from previous saves.
func NewCapture(backend Backend) *Capture {
	return &Capture{backend: backend}
}

// SetKey records the entered key.
func (c *Capture) SetKey(key string) {
	c.key = key
}

// Save validates the captured key and submits it. On success the value is
// wiped; on failure it is kept so the user can retry.
func (c *Capture) Save(ctx context.Context) error {
	if len(c.key) <= MinKeyLength {
		return errors.NewValidation(InvalidKeyMessage)
	}

	if err := c.backend.SaveAPIKey(ctx, c.key); err != nil {
		return err
	}

	c.key = ""
	return nil
}
