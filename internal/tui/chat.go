// Package tui is the interactive chat surface over the conversation manager.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hpungsan/taskflow/internal/chat"
	"github.com/hpungsan/taskflow/internal/study"
)

const refreshInterval = 100 * time.Millisecond

// message types

type seededMsg struct{}

type submitDoneMsg struct{}

type refreshMsg struct{}

// model

type model struct {
	manager *chat.Manager
	input   textinput.Model
	vp      viewport.Model

	width    int
	height   int
	ready    bool
	quitting bool
	rendered int // transcript length last rendered, to skip no-op rerenders
}

func initialModel(manager *chat.Manager) model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 512

	return model{
		manager: manager,
		input:   ti,
		vp:      viewport.New(0, 0),
	}
}

// Run starts the chat TUI and blocks until it exits.
func Run(manager *chat.Manager) error {
	p := tea.NewProgram(initialModel(manager), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		m.manager.Start(context.Background())
		return seededMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width - 2
		m.vp.Height = msg.Height - 5
		m.ready = true
		m.rendered = -1
		m.refreshTranscript()
		return m, nil

	case seededMsg:
		m.refreshTranscript()
		return m, nil

	case submitDoneMsg:
		m.refreshTranscript()
		return m, nil

	case refreshMsg:
		m.refreshTranscript()
		if m.manager.Sending() {
			return m, tickRefresh()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.ScrollUp):
			m.vp.LineUp(3)
			return m, nil

		case key.Matches(msg, keys.ScrollDown):
			m.vp.LineDown(3)
			return m, nil

		case key.Matches(msg, keys.Send):
			return m.submit(m.input.Value())
		}

		// Digits pick a suggested prompt while the transcript is empty and
		// the input line is not in use.
		if len(m.manager.Transcript()) == 0 && m.input.Value() == "" {
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(chat.SuggestedPrompts) {
				return m.submit(chat.SuggestedPrompts[n-1])
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands text to the manager in a command goroutine. The manager
// itself rejects empty input and overlapping submissions.
func (m model) submit(text string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(text) == "" || m.manager.Sending() {
		return m, nil
	}
	m.input.SetValue("")

	send := func() tea.Msg {
		m.manager.Submit(context.Background(), text)
		return submitDoneMsg{}
	}
	// Ticks repaint the optimistic user turn and animate the indicator
	// while the request is in flight.
	return m, tea.Batch(send, tickRefresh())
}

func tickRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// refreshTranscript rerenders the viewport and keeps it pinned to the
// newest message.
func (m *model) refreshTranscript() {
	transcript := m.manager.Transcript()
	if len(transcript) == m.rendered && !m.manager.Sending() {
		return
	}
	m.rendered = len(transcript)

	if len(transcript) == 0 {
		m.vp.SetContent(m.emptyState())
		return
	}

	var b strings.Builder
	for _, msg := range transcript {
		if msg.Role == study.RoleUser {
			b.WriteString(styleUserLabel.Render("you"))
			b.WriteString("  ")
			b.WriteString(styleUserText.Render(msg.Content))
		} else {
			b.WriteString(styleAssistantLabel.Render("assistant"))
			b.WriteString("\n")
			b.WriteString(renderMarkdown(msg.Content, m.vp.Width-2))
		}
		b.WriteString("\n\n")
	}
	if m.manager.Sending() {
		b.WriteString(styleSending.Render("assistant is thinking..."))
		b.WriteString("\n")
	}

	m.vp.SetContent(b.String())
	m.vp.GotoBottom()
}

func (m *model) emptyState() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styleAssistantLabel.Render("How can I help you study?"))
	b.WriteString("\n")
	b.WriteString(styleHint.Render("Ask questions about your uploaded documents."))
	b.WriteString("\n\n")
	for i, prompt := range chat.SuggestedPrompts {
		b.WriteString(stylePrompt.Render(fmt.Sprintf("%d. %s", i+1, prompt)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	status := styleStatus.Render("enter send · 1-4 prompts · esc quit")
	if m.manager.Sending() {
		status = styleStatus.Render("sending...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		stylePanelBorder.Width(m.width-2).Render(m.vp.View()),
		m.input.View(),
		status,
	)
}
