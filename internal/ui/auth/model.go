// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the sign-in view for the TUI: login, registration,
// and guest access.
package auth

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chatai-dev/chatai-tui/internal/identity"
	"github.com/chatai-dev/chatai-tui/internal/ui/styles"
)

// =============================================================================
// MODES AND MESSAGES
// =============================================================================

// Mode selects between the login and register forms.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// AuthenticatedMsg is emitted once an identity has been established. The
// parent view switches to the chat on receipt.
type AuthenticatedMsg struct{}

// submitDoneMsg reports the outcome of a login or register attempt.
type submitDoneMsg struct {
	ok bool
}

// Field indices into Model.inputs.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the sign-in view.
type Model struct {
	session *identity.Manager

	mode       Mode
	inputs     []textinput.Model
	focus      int
	submitting bool
	spin       spinner.Model

	width  int
	height int
}

// New creates the sign-in view bound to the given session manager.
func New(session *identity.Manager) Model {
	inputs := make([]textinput.Model, fieldCount)

	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 64
	inputs[fieldName] = name

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 128
	inputs[fieldEmail] = email

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128
	inputs[fieldPassword] = password

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	m := Model{
		session: session,
		mode:    ModeLogin,
		inputs:  inputs,
		focus:   fieldEmail,
		spin:    spin,
	}
	m.inputs[fieldEmail].Focus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// firstField is the first visible field for the current mode.
func (m Model) firstField() int {
	if m.mode == ModeRegister {
		return fieldName
	}
	return fieldEmail
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case submitDoneMsg:
		m.submitting = false
		if msg.ok {
			return m, func() tea.Msg { return AuthenticatedMsg{} }
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			// The mock verifier is quick; swallow input until it returns.
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+t", "left", "right":
			if m.mode == ModeLogin {
				m.mode = ModeRegister
			} else {
				m.mode = ModeLogin
			}
			m.setFocus(m.firstField())
			return m, nil

		case "tab", "down":
			m.cycleFocus(1)
			return m, nil

		case "shift+tab", "up":
			m.cycleFocus(-1)
			return m, nil

		case "ctrl+g":
			m.submitting = true
			return m, tea.Batch(m.spin.Tick, m.continueAsGuest())

		case "enter":
			if m.focus < fieldPassword {
				m.cycleFocus(1)
				return m, nil
			}
			m.submitting = true
			return m, tea.Batch(m.spin.Tick, m.submit())
		}
	}

	// Route everything else to the focused input.
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// cycleFocus moves focus through the visible fields.
func (m *Model) cycleFocus(dir int) {
	first := m.firstField()
	span := fieldCount - first
	next := first + ((m.focus-first+dir)+span)%span
	m.setFocus(next)
}

func (m *Model) setFocus(i int) {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	m.inputs[i].Focus()
}

// submit runs the login or register flow off the UI goroutine.
func (m Model) submit() tea.Cmd {
	mode := m.mode
	name := m.inputs[fieldName].Value()
	email := m.inputs[fieldEmail].Value()
	password := m.inputs[fieldPassword].Value()
	session := m.session

	return func() tea.Msg {
		if mode == ModeRegister {
			_ = session.Register(context.Background(), name, email, password)
		} else {
			_ = session.Login(context.Background(), email, password)
		}
		// Empty inputs and rejected credentials both leave the session
		// anonymous; the form simply stays up.
		return submitDoneMsg{ok: session.Current() != nil}
	}
}

func (m Model) continueAsGuest() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		_ = session.ContinueAsGuest()
		return submitDoneMsg{ok: session.Current() != nil}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("ChatAI"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Your local AI assistant"))
	b.WriteString("\n\n")

	loginTab := "  Login  "
	registerTab := "  Register  "
	if m.mode == ModeLogin {
		loginTab = styles.SidebarSelected.Render(loginTab)
		registerTab = styles.SidebarItem.Render(registerTab)
	} else {
		loginTab = styles.SidebarItem.Render(loginTab)
		registerTab = styles.SidebarSelected.Render(registerTab)
	}
	b.WriteString(loginTab + registerTab)
	b.WriteString("\n\n")

	if m.mode == ModeRegister {
		b.WriteString(m.inputs[fieldName].View())
		b.WriteString("\n")
	}
	b.WriteString(m.inputs[fieldEmail].View())
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n\n")

	if m.submitting {
		b.WriteString(m.spin.View())
		b.WriteString(styles.Subtitle.Render(" Signing in..."))
	} else {
		b.WriteString(styles.Hint.Render("enter: submit - ctrl+t: switch form - ctrl+g: continue as guest - ctrl+c: quit"))
	}

	form := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(1, 3).
		Render(b.String())

	if m.width == 0 || m.height == 0 {
		return form
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}
