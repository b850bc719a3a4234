// Package api wraps every call to the document-processing backend into a
// typed operation with uniform failure classification (network, http,
// decode). Heterogeneous payload shapes are normalized here so nothing
// downstream branches on shape.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/hpungsan/taskflow/internal/errors"
	"github.com/hpungsan/taskflow/internal/study"
)

// DefaultBaseURL is the backend origin the client talks to unless
// configured otherwise.
const DefaultBaseURL = "http://localhost:8000"

// Client is the JSON-over-HTTP client for the backend.
//
// The underlying http.Client carries no timeout: the backend contract has
// no cancellation or deadline semantics, and a request that never resolves
// leaves the triggering control stuck. Callers guard against duplicates,
// not against hangs.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a Client for the given backend origin. An empty baseURL means
// DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{},
	}
}

// UploadDocument submits a document for processing and returns the
// normalized result. No retry; a non-2xx response is surfaced as an http
// failure without assuming a parsed detail.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (*study.Result, error) {
	const op = "upload"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.NewNetwork(op, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, errors.NewNetwork(op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, errors.NewNetwork(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, errors.NewNetwork(op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.NewNetwork(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetwork(op, err)
	}
	if resp.StatusCode >= 300 {
		return nil, errors.NewHTTP(op, resp.StatusCode, "")
	}

	res, err := study.DecodeResult(body)
	if err != nil {
		return nil, errors.NewDecode(op, err)
	}
	return res, nil
}

// chatRequest is the POST /api/chat body. History is the full prior
// transcript; the backend keeps no session state between calls.
type chatRequest struct {
	Message string          `json:"message"`
	History []study.Message `json:"history"`
}

// SendChatMessage sends one chat turn and returns the assistant's reply.
func (c *Client) SendChatMessage(ctx context.Context, message string, history []study.Message) (string, error) {
	const op = "chat"

	if history == nil {
		history = []study.Message{}
	}
	body, err := c.postJSON(ctx, op, "/api/chat", chatRequest{Message: message, History: history})
	if err != nil {
		return "", err
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", errors.NewDecode(op, err)
	}
	return out.Response, nil
}

// FetchChatHistory returns the server-side transcript. A payload that is
// valid JSON but not a sequence is treated as empty rather than an error.
func (c *Client) FetchChatHistory(ctx context.Context) ([]study.Message, error) {
	const op = "chat history"

	body, err := c.getJSON(ctx, op, "/api/chat/history")
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, errors.NewDecode(op, fmt.Errorf("invalid JSON"))
	}

	var msgs []study.Message
	if err := json.Unmarshal(body, &msgs); err != nil {
		// Non-sequence payload, e.g. an object: ignore it.
		return nil, nil
	}
	return msgs, nil
}

// FetchHistoryList returns past processing runs.
func (c *Client) FetchHistoryList(ctx context.Context) ([]study.HistoryEntry, error) {
	const op = "history"

	body, err := c.getJSON(ctx, op, "/api/history")
	if err != nil {
		return nil, err
	}

	var entries []study.HistoryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, errors.NewDecode(op, err)
	}
	return entries, nil
}

// InitiateCalendarAuth starts the external calendar auth handshake and
// returns the URL the user must visit.
func (c *Client) InitiateCalendarAuth(ctx context.Context) (string, error) {
	const op = "calendar auth"

	body, err := c.getJSON(ctx, op, "/api/auth/login")
	if err != nil {
		return "", err
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", errors.NewDecode(op, err)
	}
	if out.URL == "" {
		return "", errors.NewDecode(op, fmt.Errorf("empty auth url"))
	}
	return out.URL, nil
}

// calendarEventWire is the POST /api/calendar/add body. The client-side ID
// is identity for pending-state tracking only and never goes on the wire.
type calendarEventWire struct {
	Date            string `json:"date"`
	Task            string `json:"task"`
	DurationMinutes int    `json:"duration_minutes"`
}

// AddCalendarEvent pushes one schedule item to the user's calendar.
// A 401 means the backend holds no valid calendar credentials; the caller
// reverts its connected belief on errors.IsUnauthorized.
func (c *Client) AddCalendarEvent(ctx context.Context, item study.ScheduleItem) error {
	const op = "calendar add"

	_, err := c.postJSON(ctx, op, "/api/calendar/add", calendarEventWire{
		Date:            item.Date,
		Task:            item.Task,
		DurationMinutes: item.DurationMinutes,
	})
	return err
}

// SaveAPIKey hands the AI provider key to the backend. The backend is a
// write-only blind store; the key is never read back. Length validation
// happens before this is invoked.
func (c *Client) SaveAPIKey(ctx context.Context, key string) error {
	const op = "settings"

	_, err := c.postJSON(ctx, op, "/api/settings", map[string]string{"api_key": key})
	return err
}

// getJSON performs a GET and returns the raw body of a 2xx response.
func (c *Client) getJSON(ctx context.Context, op, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.NewNetwork(op, err)
	}
	return c.do(op, req)
}

// postJSON performs a POST with a JSON body and returns the raw body of a
// 2xx response.
func (c *Client) postJSON(ctx context.Context, op, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewDecode(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewNetwork(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.NewNetwork(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetwork(op, err)
	}
	if resp.StatusCode >= 300 {
		return nil, errors.NewHTTP(op, resp.StatusCode, errorDetail(body))
	}
	return body, nil
}

// errorDetail extracts the backend's {"detail": ...} error text, if present.
func errorDetail(body []byte) string {
	var out struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return ""
	}
	return out.Detail
}
