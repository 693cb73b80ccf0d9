// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui wires the sign-in and conversation views into one Bubble Tea
// program and carries toast notifications across both.
package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	chatmgr "github.com/chatai-dev/chatai-tui/internal/chat"
	"github.com/chatai-dev/chatai-tui/internal/identity"
	"github.com/chatai-dev/chatai-tui/internal/ollama"
	"github.com/chatai-dev/chatai-tui/internal/ui/auth"
	"github.com/chatai-dev/chatai-tui/internal/ui/chat"
	"github.com/chatai-dev/chatai-tui/internal/ui/styles"
)

// =============================================================================
// TOASTS
// =============================================================================

// ToastMsg is a transient notification shown at the bottom of the screen.
type ToastMsg struct {
	Title       string
	Description string
}

// toastExpireMsg hides the toast identified by seq.
type toastExpireMsg struct {
	seq int
}

// toastDuration is how long a toast stays on screen.
const toastDuration = 4 * time.Second

// Toaster bridges identity.Notifier into a running Bubble Tea program.
// Notifications raised before Attach are dropped; the sign-in view has
// its own inline feedback for that window.
type Toaster struct {
	mu sync.Mutex
	p  *tea.Program
}

// NewToaster creates an unattached Toaster.
func NewToaster() *Toaster {
	return &Toaster{}
}

// Attach binds the toaster to a running program.
func (t *Toaster) Attach(p *tea.Program) {
	t.mu.Lock()
	t.p = p
	t.mu.Unlock()
}

// Notify implements the Notifier interfaces of the state managers.
func (t *Toaster) Notify(title, description string) {
	t.mu.Lock()
	p := t.p
	t.mu.Unlock()
	if p != nil {
		p.Send(ToastMsg{Title: title, Description: description})
	}
}

// =============================================================================
// APP MODEL
// =============================================================================

// view identifies the active screen.
type view int

const (
	viewAuth view = iota
	viewChat
)

// App is the root Bubble Tea model.
type App struct {
	session *identity.Manager
	manager *chatmgr.Manager
	client  *ollama.Client

	active view
	auth   auth.Model
	chat   chat.Model

	toast    *ToastMsg
	toastSeq int

	width  int
	height int
}

// NewApp creates the root model. A restored identity skips the sign-in
// view entirely.
func NewApp(session *identity.Manager, manager *chatmgr.Manager, client *ollama.Client) App {
	app := App{
		session: session,
		manager: manager,
		client:  client,
		auth:    auth.New(session),
		chat:    chat.New(manager, session, client),
		active:  viewAuth,
	}
	if id := session.Current(); id != nil {
		manager.SetIdentity(id.ID)
		app.active = viewChat
	}
	return app
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.active == viewChat {
		return a.chat.Init()
	}
	return a.auth.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var authCmd, chatCmd tea.Cmd
		a.auth, authCmd = a.auth.Update(msg)
		a.chat, chatCmd = a.chat.Update(msg)
		return a, tea.Batch(authCmd, chatCmd)

	case ToastMsg:
		a.toast = &msg
		a.toastSeq++
		seq := a.toastSeq
		return a, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpireMsg{seq: seq}
		})

	case toastExpireMsg:
		if msg.seq == a.toastSeq {
			a.toast = nil
		}
		return a, nil

	case auth.AuthenticatedMsg:
		if id := a.session.Current(); id != nil {
			a.manager.SetIdentity(id.ID)
		}
		a.active = viewChat
		a.chat = chat.New(a.manager, a.session, a.client)
		var cmd tea.Cmd
		if a.width > 0 {
			a.chat, cmd = a.chat.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		}
		return a, tea.Batch(a.chat.Init(), cmd)

	case chat.LoggedOutMsg:
		a.manager.SetIdentity("")
		a.active = viewAuth
		a.auth = auth.New(a.session)
		var cmd tea.Cmd
		if a.width > 0 {
			a.auth, cmd = a.auth.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		}
		return a, tea.Batch(a.auth.Init(), cmd)
	}

	var cmd tea.Cmd
	if a.active == viewChat {
		a.chat, cmd = a.chat.Update(msg)
	} else {
		a.auth, cmd = a.auth.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	var body string
	if a.active == viewChat {
		body = a.chat.View()
	} else {
		body = a.auth.View()
	}

	if a.toast == nil {
		return body
	}

	toast := styles.Toast.Render(
		lipgloss.NewStyle().Bold(true).Render(a.toast.Title) + "\n" + a.toast.Description)
	return lipgloss.JoinVertical(lipgloss.Left, body, toast)
}
