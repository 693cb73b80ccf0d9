// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI: the sidebar of
// saved conversations, the transcript, and the message input.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	chatmgr "github.com/chatai-dev/chatai-tui/internal/chat"
	"github.com/chatai-dev/chatai-tui/internal/identity"
	"github.com/chatai-dev/chatai-tui/internal/ollama"
	"github.com/chatai-dev/chatai-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// LoggedOutMsg is emitted when the user signs out. The parent view
// switches back to the sign-in form on receipt.
type LoggedOutMsg struct{}

// sendDoneMsg reports that a send/generate exchange has finished.
type sendDoneMsg struct{}

// backendStatusMsg carries the result of an Ollama health check.
type backendStatusMsg struct {
	up bool
}

// backendCheckInterval is how often the status bar probe runs.
const backendCheckInterval = 30 * time.Second

const sidebarWidth = 28

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the conversation view.
type Model struct {
	manager *chatmgr.Manager
	session *identity.Manager
	client  *ollama.Client

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	sending   bool
	backendUp bool
	checked   bool

	width  int
	height int
	ready  bool
}

// New creates the conversation view. The manager must already have its
// identity set.
func New(manager *chatmgr.Manager, session *identity.Manager, client *ollama.Client) Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4096
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	return Model{
		manager: manager,
		session: session,
		client:  client,
		input:   input,
		spin:    spin,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkBackend())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshTranscript(true)
		return m, nil

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		// Pick up the user message that Send appended before blocking.
		m.refreshTranscript(true)
		return m, cmd

	case sendDoneMsg:
		m.sending = false
		m.refreshTranscript(true)
		return m, nil

	case backendStatusMsg:
		m.backendUp = msg.up
		m.checked = true
		return m, tea.Tick(backendCheckInterval, func(time.Time) tea.Msg {
			return m.probeBackend()
		})

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.sending {
				m.manager.CancelGeneration()
			}
			return m, nil

		case "enter":
			if m.sending {
				return m, nil
			}
			content := m.input.Value()
			m.input.Reset()
			m.sending = true
			return m, tea.Batch(m.spin.Tick, m.send(content))

		case "ctrl+n":
			m.manager.NewConversation()
			m.refreshTranscript(true)
			return m, nil

		case "ctrl+x":
			if id := m.manager.CurrentID(); id != "" && !m.sending {
				_ = m.manager.Delete(id)
				m.refreshTranscript(true)
			}
			return m, nil

		case "alt+up", "ctrl+p":
			m.selectOffset(-1)
			return m, nil

		case "alt+down":
			m.selectOffset(1)
			return m, nil

		case "ctrl+l":
			_ = m.session.Logout()
			return m, func() tea.Msg { return LoggedOutMsg{} }

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// selectOffset moves the conversation selection up or down the sidebar.
func (m *Model) selectOffset(dir int) {
	if m.sending {
		return
	}
	convs := m.manager.Summaries()
	curID := m.manager.CurrentID()
	if len(convs) == 0 || curID == "" {
		return
	}
	idx := 0
	for i, c := range convs {
		if c.ID == curID {
			idx = i
			break
		}
	}
	idx += dir
	if idx < 0 || idx >= len(convs) {
		return
	}
	_ = m.manager.Select(convs[idx].ID)
	m.refreshTranscript(true)
}

// send runs the exchange off the UI goroutine. The manager already
// guards against overlap, so a stray second call is harmless.
func (m Model) send(content string) tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		_ = manager.Send(context.Background(), content)
		return sendDoneMsg{}
	}
}

func (m Model) checkBackend() tea.Cmd {
	return func() tea.Msg {
		return m.probeBackend()
	}
}

func (m Model) probeBackend() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return backendStatusMsg{up: m.client.CheckRunning(ctx) == nil}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	transcriptWidth := width - sidebarWidth - 4
	if transcriptWidth < 20 {
		transcriptWidth = 20
	}
	transcriptHeight := height - 6
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(transcriptWidth, transcriptHeight)
		m.ready = true
	} else {
		m.viewport.Width = transcriptWidth
		m.viewport.Height = transcriptHeight
	}
	m.input.Width = transcriptWidth - 4
}
