package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/taskflow/internal/errors"
	"github.com/hpungsan/taskflow/internal/study"
)

// Backend covers the remote operations the MCP tools delegate to.
type Backend interface {
	SendChatMessage(ctx context.Context, message string, history []study.Message) (string, error)
	FetchHistoryList(ctx context.Context) ([]study.HistoryEntry, error)
}

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store   *study.Store
	backend Backend
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *study.Store, backend Backend) *Handlers {
	return &Handlers{store: store, backend: backend}
}

// Request types for each tool

// ChatSendRequest represents the arguments for chat_send.
type ChatSendRequest struct {
	Message string `json:"message"`
}

// Handler implementations

// HandleLatest handles the study_latest tool call.
func (h *Handlers) HandleLatest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.store.Get()
	if err != nil {
		return errorResult(err), nil
	}
	if result == nil {
		return errorResult(errors.NewValidation("no study result stored yet, upload a document first")), nil
	}
	return successResult(result)
}

// HandleTasks handles the study_tasks tool call.
func (h *Handlers) HandleTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.store.Get()
	if err != nil {
		return errorResult(err), nil
	}
	if result == nil {
		return errorResult(errors.NewValidation("no study result stored yet, upload a document first")), nil
	}
	return successResult(map[string]any{"tasks": result.Tasks})
}

// HandleSchedule handles the study_schedule tool call.
func (h *Handlers) HandleSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.store.Get()
	if err != nil {
		return errorResult(err), nil
	}
	if result == nil {
		return errorResult(errors.NewValidation("no study result stored yet, upload a document first")), nil
	}
	return successResult(map[string]any{"schedule": result.Schedule})
}

// HandleFlashcards handles the study_flashcards tool call.
func (h *Handlers) HandleFlashcards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.store.Get()
	if err != nil {
		return errorResult(err), nil
	}
	if result == nil {
		return errorResult(errors.NewValidation("no study result stored yet, upload a document first")), nil
	}
	return successResult(map[string]any{"flashcards": result.Flashcards})
}

// HandleChatSend handles the chat_send tool call.
func (h *Handlers) HandleChatSend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ChatSendRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation(err.Error())), nil
	}
	if input.Message == "" {
		return errorResult(errors.NewValidation("message must not be empty")), nil
	}

	reply, err := h.backend.SendChatMessage(ctx, input.Message, nil)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"reply": reply})
}

// HandleHistoryList handles the history_list tool call.
func (h *Handlers) HandleHistoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.backend.FetchHistoryList(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"history": entries})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		errorObj := map[string]any{
			"kind":    string(appErr.Kind),
			"message": appErr.Message,
		}
		if appErr.Status != 0 {
			errorObj["status"] = appErr.Status
		}
		if appErr.Detail != "" {
			errorObj["detail"] = appErr.Detail
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"kind":    "INTERNAL",
				"message": "an internal error occurred",
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
