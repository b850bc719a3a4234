// Package calendar drives the external-calendar handshake and per-item
// "add to calendar" requests.
package calendar

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hpungsan/taskflow/internal/browser"
	"github.com/hpungsan/taskflow/internal/errors"
	"github.com/hpungsan/taskflow/internal/study"
)

// DefaultConnectDelay is how long after opening the auth URL the flow
// assumes the external handshake completed. There is no callback or poll
// confirming real completion; connected is a belief, not a verified fact,
// and the timer runs even if the user abandons the auth window.
const DefaultConnectDelay = 5 * time.Second

// MissingSecretHint is shown when the auth handshake cannot start; the
// usual cause is a missing client_secret.json on the backend.
const MissingSecretHint = "Failed to initiate login. Is client_secret.json present on the server?"

// AddedMessage confirms a successful calendar add.
const AddedMessage = "Event added to Google Calendar!"

// RelinkMessage prompts the user after a 401 reverted the connected belief.
const RelinkMessage = "Please connect Google Calendar first."

// Backend is the slice of the API client the flow needs.
type Backend interface {
	InitiateCalendarAuth(ctx context.Context) (string, error)
	AddCalendarEvent(ctx context.Context, item study.ScheduleItem) error
}

// Flow tracks the unconfirmed connected flag and the single in-flight
// calendar add. Only this flow mutates connected.
type Flow struct {
	backend Backend

	// OpenURL opens the auth URL in the user's browser. Overridable in tests.
	OpenURL func(url string) error

	// ConnectDelay is the optimistic flip delay. Overridable in tests.
	ConnectDelay time.Duration

	mu        sync.Mutex
	connected bool
	pendingID string
}

// NewFlow creates a Flow over the given backend.
func NewFlow(backend Backend) *Flow {
	return &Flow{
		backend:      backend,
		OpenURL:      browser.OpenURL,
		ConnectDelay: DefaultConnectDelay,
	}
}

// Connected reports the client-local belief about the calendar link.
func (f *Flow) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// PendingID returns the ID of the schedule item currently being submitted,
// or "" when none is.
func (f *Flow) PendingID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingID
}

// Connect starts the auth handshake: it fetches the auth URL, opens it in a
// separate browser surface, and marks connected after ConnectDelay
// regardless of whether the external flow actually completed. The returned
// channel closes when the flip happens. On failure nothing changes.
func (f *Flow) Connect(ctx context.Context) (string, <-chan struct{}, error) {
	url, err := f.backend.InitiateCalendarAuth(ctx)
	if err != nil {
		return "", nil, err
	}

	if err := f.OpenURL(url); err != nil {
		// The user can still paste the URL by hand.
		log.Printf("calendar: failed to open browser: %v", err)
	}

	done := make(chan struct{})
	go func() {
		time.Sleep(f.ConnectDelay)
		f.mu.Lock()
		f.connected = true
		f.mu.Unlock()
		close(done)
	}()
	return url, done, nil
}

// AddItem submits one schedule item to the calendar. At most one add is in
// flight at a time; the pending marker is always cleared on the way out.
// A 401 reverts connected to false; any other failure leaves it alone.
func (f *Flow) AddItem(ctx context.Context, item study.ScheduleItem) error {
	f.mu.Lock()
	if f.pendingID != "" {
		f.mu.Unlock()
		return errors.NewValidation("another calendar add is already in flight")
	}
	f.pendingID = item.ID
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.pendingID = ""
		f.mu.Unlock()
	}()

	if err := f.backend.AddCalendarEvent(ctx, item); err != nil {
		if errors.IsUnauthorized(err) {
			f.mu.Lock()
			f.connected = false
			f.mu.Unlock()
		}
		return err
	}
	return nil
}
