// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chatai-dev/chatai-tui/internal/model"
	"github.com/chatai-dev/chatai-tui/internal/ui/styles"
	"github.com/chatai-dev/chatai-tui/internal/util"
)

// refreshTranscript rebuilds the viewport content from the current
// conversation. When follow is true the viewport snaps to the bottom.
func (m *Model) refreshTranscript(follow bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.transcript())
	if follow {
		m.viewport.GotoBottom()
	}
}

// transcript renders the messages of the current conversation.
func (m *Model) transcript() string {
	msgs := m.manager.Messages()
	if msgs == nil {
		return styles.Hint.Render("No conversation selected.")
	}

	wrap := lipgloss.NewStyle().Width(m.viewport.Width)
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		label := styles.AssistantLabel.Render(msg.Role.DisplayName())
		if msg.Role == model.RoleUser {
			label = styles.UserLabel.Render(msg.Role.DisplayName())
		}
		b.WriteString(label)
		b.WriteString(styles.Hint.Render("  " + msg.Timestamp.Format("15:04")))
		b.WriteString("\n")
		b.WriteString(wrap.Render(msg.Content))
		b.WriteString("\n")
	}
	return b.String()
}

// sidebar renders the conversation list.
func (m *Model) sidebar(height int) string {
	convs := m.manager.Summaries()
	curID := m.manager.CurrentID()

	var b strings.Builder
	b.WriteString(styles.Title.Render(" Conversations"))
	b.WriteString("\n\n")
	for _, c := range convs {
		title := util.TruncateRunes(c.Title, sidebarWidth-4)
		if c.ID == curID {
			b.WriteString(styles.SidebarSelected.Render("> " + title))
		} else {
			b.WriteString(styles.SidebarItem.Render(title))
		}
		b.WriteString("\n")
	}

	return styles.SidebarBorder.
		Width(sidebarWidth).
		Height(height).
		Render(b.String())
}

// statusBar renders identity, backend state, and the key hints.
func (m *Model) statusBar() string {
	var parts []string

	if id := m.session.Current(); id != nil {
		who := id.Name
		if id.IsGuest {
			who = styles.RenderWarning(who)
		}
		parts = append(parts, who)
	}

	if m.checked {
		parts = append(parts, styles.RenderStatus(m.backendUp, "ollama"))
	}

	parts = append(parts, styles.Hint.Render(
		"ctrl+n: new - ctrl+x: delete - alt+up/down: switch - esc: stop - ctrl+l: logout - ctrl+c: quit"))

	return styles.StatusBar.Width(m.width).Render(" " + strings.Join(parts, "  |  "))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	inputView := styles.InputFocused.Width(m.viewport.Width).Render(m.input.View())
	if m.sending {
		inputView = styles.InputBorder.Width(m.viewport.Width).
			Render(m.spin.View() + styles.Subtitle.Render(" Thinking... (esc to stop)"))
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		inputView,
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.sidebar(m.height-3),
		" ",
		main,
	)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar())
}
