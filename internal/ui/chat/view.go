// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
	"github.com/jeranaias/solace-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m *Model) View() string {
	if m.state == statePicking {
		return m.viewPicker()
	}

	sections := []string{m.viewport.View()}

	if m.Streaming() {
		if status := m.viewStreamStatus(); status != "" {
			sections = append(sections, status)
		}
	}

	if m.err != nil {
		sections = append(sections, m.viewError())
	}

	sections = append(sections, m.viewComposer())

	out := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.modal != nil && m.modal.Visible {
		return m.modal.Overlay(m.width, m.height)
	}
	return out
}

// viewStreamStatus shows the thinking spinner and any tool activity
// under the transcript while a reply is in flight.
func (m *Model) viewStreamStatus() string {
	var parts []string

	if m.state == stateThinking && m.spinner.IsActive() {
		parts = append(parts, m.spinner.View())
	}

	if _, _, total := m.tracker.Counts(); total > 0 {
		parts = append(parts, m.toolStatus.View())
	}

	if len(parts) == 0 {
		return ""
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(strings.Join(parts, "\n"))
}

// viewError renders the dismissable error banner.
func (m *Model) viewError() string {
	title := "Something went wrong"
	if m.errContext != "" {
		title = "Problem " + m.errContext
	}
	body := m.theme.ErrorTitle.Render(styles.StatusIndicators.Error+" "+title) + "\n" +
		m.theme.ErrorMessage.Render(m.err.Error()) + "\n" +
		m.theme.ErrorSuggestion.Render("esc to dismiss")
	return m.theme.ErrorBox.Width(m.width - 2).Render(body)
}

// viewComposer renders the input area with a character counter.
func (m *Model) viewComposer() string {
	count := len([]rune(m.input.Value()))
	counter := fmt.Sprintf("%d/%d", count, maxInputChars)

	counterStyle := m.theme.CharCount
	switch {
	case count >= maxInputChars:
		counterStyle = m.theme.CharCountDanger
	case count >= maxInputChars*9/10:
		counterStyle = m.theme.CharCountWarning
	}

	hint := "enter send | ctrl+j newline | ctrl+n new | ctrl+s sessions"
	if m.Streaming() {
		hint = "esc stop"
	}
	footer := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.InputPlaceholder.Render(hint),
		lipgloss.NewStyle().Width(maxInt(1, m.width-4-lipgloss.Width(hint)-lipgloss.Width(counter))).Render(""),
		counterStyle.Render(counter),
	)

	return m.theme.InputContainer.Width(m.width - 2).Render(
		m.input.View() + "\n" + footer)
}

// viewPicker renders the cached session list.
func (m *Model) viewPicker() string {
	var b strings.Builder
	b.WriteString(m.theme.SessionTitle.Render("Past conversations"))
	b.WriteString("\n\n")

	if len(m.sessions) == 0 {
		b.WriteString(m.theme.SessionMeta.Render("Nothing cached yet."))
	}

	for i, item := range m.sessions {
		line := fmt.Sprintf("%s  %s", item.Title,
			m.theme.SessionMeta.Render(fmt.Sprintf("%d msgs, %s", item.MessageCount, relativeTime(item.UpdatedAt))))
		if item.Preview != "" {
			line += "\n  " + m.theme.SessionMeta.Render(util.TruncateRunes(item.Preview, 60))
		}
		style := m.theme.SessionItem
		if i == m.sessionCursor {
			style = m.theme.SessionItemSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.SessionMeta.Render("enter open | d delete | esc back"))

	return m.theme.SessionList.Width(m.width - 2).Render(b.String())
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshViewport rebuilds the transcript. Finished messages render as
// full markdown bubbles; the in-flight reply renders through the block
// classifier so complete blocks get formatting while the partial tail
// stays plain.
func (m *Model) refreshViewport() {
	msgs := m.conversation.Messages
	var live *model.Message
	if n := len(msgs); n > 0 && msgs[n-1].IsStreaming {
		live = msgs[n-1]
		msgs = msgs[:n-1]
	}

	var b strings.Builder
	m.messageList.SetMessages(msgs)
	b.WriteString(m.messageList.View())

	if live != nil {
		b.WriteString("\n")
		b.WriteString(m.renderLiveReply())
	}

	m.viewport.SetContent(b.String())
}

// renderLiveReply renders the streaming assistant bubble.
func (m *Model) renderLiveReply() string {
	cursor := styles.CursorFrame(time.Now())

	var body string
	if m.renderer != nil {
		body = m.renderer.RenderBuffer(m.streamText, false, cursor)
	} else {
		body = m.streamText.Text() + cursor
	}
	if strings.TrimSpace(body) == "" {
		body = cursor
	}

	width := m.bubbleWidth()
	return m.theme.CompanionBubble.Width(width).Render(body)
}

// bubbleWidth matches the width MessageBubble uses so live and
// finished bubbles line up.
func (m *Model) bubbleWidth() int {
	w := m.width * 3 / 4
	if w < 20 {
		w = 20
	}
	return w
}

// relativeTime formats an age for the session picker.
func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
