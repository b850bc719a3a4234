// Package mcp exposes the study data and chat operation as MCP tools over
// stdio, so other agents can read the current study plan or ask questions
// about the uploaded material.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/taskflow/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"study_latest": {
		def: mcp.NewTool("study_latest",
			mcp.WithDescription("Fetch the full result of the most recent document upload: tasks, summary, schedule, and flashcards."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLatest },
	},
	"study_tasks": {
		def: mcp.NewTool("study_tasks",
			mcp.WithDescription("List the tasks extracted from the most recent document upload."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTasks },
	},
	"study_schedule": {
		def: mcp.NewTool("study_schedule",
			mcp.WithDescription("List the study schedule generated from the most recent document upload."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSchedule },
	},
	"study_flashcards": {
		def: mcp.NewTool("study_flashcards",
			mcp.WithDescription("List the flashcards generated from the most recent document upload."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFlashcards },
	},
	"chat_send": {
		def: mcp.NewTool("chat_send",
			mcp.WithDescription("Ask the assistant a question about the uploaded documents."),
			mcp.WithString("message",
				mcp.Description("The question to ask."),
				mcp.Required(),
			),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleChatSend },
	},
	"history_list": {
		def: mcp.NewTool("history_list",
			mcp.WithDescription("List past document-processing runs."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryList },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with taskflow tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(h *Handlers, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"taskflow",
		version,
		server.WithToolCapabilities(true),
	)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(h *Handlers, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(h, cfg, version))
}
