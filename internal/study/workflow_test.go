package study_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/taskflow/internal/api"
	"github.com/hpungsan/taskflow/internal/calendar"
	"github.com/hpungsan/taskflow/internal/chat"
	"github.com/hpungsan/taskflow/internal/db"
	"github.com/hpungsan/taskflow/internal/errors"
	"github.com/hpungsan/taskflow/internal/study"
)

// TestFullWorkflow exercises the complete client lifecycle against a stub
// backend: upload → store → calendar connect → add (401, relink, retry) →
// chat → history → reopen.
func TestFullWorkflow(t *testing.T) {
	var mu sync.Mutex
	authorized := false

	mux := http.NewServeMux()
	mux.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"tasks": ["Read chapter 4", {"description": "Finish problem set"}],
			"summary": {"summary": "Chapter 4 covers graph traversal."},
			"schedule": [
				{"date": "2026-09-01", "task": "Read chapter 4", "duration_minutes": 60},
				{"date": "2026-09-01", "task": "Read chapter 4", "duration_minutes": 60}
			],
			"flashcards": [{"front": "BFS order?", "back": "Level by level"}]
		}`))
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url": "https://accounts.example.com/auth"}`))
	})
	mux.HandleFunc("/api/calendar/add", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ok := authorized
		mu.Unlock()
		if !ok {
			http.Error(w, `{"detail": "calendar not linked"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/api/chat/history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": "BFS visits level by level."}`))
	})
	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"timestamp": "2026-08-30T10:00:00Z", "filename": "notes.txt", "tasks_count": 2}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	require.NoError(t, err)
	defer database.Close()

	store := study.NewStore(db.NewSlotStore(database, "dashboard_data"))
	client := api.New(srv.URL)
	ctx := context.Background()

	// 1. Nothing stored yet
	res, err := store.Get()
	require.NoError(t, err)
	require.Nil(t, res)

	// 2. Upload and persist
	res, err = client.UploadDocument(ctx, "notes.txt", strings.NewReader("lecture notes"))
	require.NoError(t, err)
	require.NoError(t, store.Replace(res))

	res, err = store.Get()
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Tasks, 2)
	require.Equal(t, "Chapter 4 covers graph traversal.", res.Summary)
	require.Len(t, res.Schedule, 2)
	require.Len(t, res.Flashcards, 1)

	// Colliding date+task entries still get distinct identities
	require.NotEmpty(t, res.Schedule[0].ID)
	require.NotEmpty(t, res.Schedule[1].ID)
	require.NotEqual(t, res.Schedule[0].ID, res.Schedule[1].ID)
	require.Equal(t, res.Schedule[0].Key(), res.Schedule[1].Key())

	// 3. Connect calendar (optimistic flip)
	flow := calendar.NewFlow(client)
	flow.ConnectDelay = 10 * time.Millisecond
	flow.OpenURL = func(string) error { return nil }

	url, done, err := flow.Connect(ctx)
	require.NoError(t, err)
	require.Equal(t, "https://accounts.example.com/auth", url)
	require.False(t, flow.Connected())
	<-done
	require.True(t, flow.Connected())

	// 4. Add fails with 401 and reverts the connected belief
	err = flow.AddItem(ctx, res.Schedule[0])
	require.Error(t, err)
	require.True(t, errors.IsUnauthorized(err))
	require.False(t, flow.Connected())
	require.Equal(t, "calendar not linked", errors.DetailOf(err))

	// 5. After the backend is linked, the retry succeeds
	mu.Lock()
	authorized = true
	mu.Unlock()
	require.NoError(t, flow.AddItem(ctx, res.Schedule[0]))
	require.Empty(t, flow.PendingID())

	// 6. Chat round trip
	manager := chat.NewManager(client)
	manager.Start(ctx)
	require.True(t, manager.Submit(ctx, "what is BFS?"))
	transcript := manager.Transcript()
	require.Len(t, transcript, 2)
	require.Equal(t, study.RoleUser, transcript[0].Role)
	require.Equal(t, "BFS visits level by level.", transcript[1].Content)

	// 7. History
	entries, err := client.FetchHistoryList(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "notes.txt", entries[0].Filename)

	// 8. The stored result survives a reopen
	require.NoError(t, database.Close())
	database, err = db.Init(tmpDir)
	require.NoError(t, err)
	store = study.NewStore(db.NewSlotStore(database, "dashboard_data"))

	res, err = store.Get()
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Schedule, 2)
}
