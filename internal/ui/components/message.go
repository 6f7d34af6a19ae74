// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single chat message as a styled bubble.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	IsLatest      bool
	ShowTimestamp bool
	ShowStats     bool
	ShowMoodTag   bool
	Streaming     bool
	theme         *styles.Theme
}

// NewMessageBubble creates a new MessageBubble.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		return &MessageBubble{
			Message: &model.Message{Role: model.RoleSystem},
			Width:   80,
			theme:   theme,
		}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		ShowStats:     true,
		ShowMoodTag:   true,
		Streaming:     msg.IsStreaming,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// SetIsLatest marks this as the latest message.
func (b *MessageBubble) SetIsLatest(latest bool) {
	b.IsLatest = latest
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	case model.RoleAssistant:
		return b.renderCompanionBubble()
	case model.RoleSystem:
		return b.renderSystemBubble()
	case model.RoleTool:
		return b.renderToolBubble()
	default:
		return b.renderGenericBubble()
	}
}

// ==========================================================================
// USER BUBBLE - Teal tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.GetDisplayContent()
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-8)

	bubble := b.theme.UserBubble.
		MarginLeft(0).
		Width(contentWidth).
		Render(wrappedContent)

	roleIndicator := b.theme.SessionMeta.Render("you")

	header := roleIndicator
	if b.ShowTimestamp {
		if ts := b.renderTimestamp(); ts != "" {
			header += " " + ts
		}
	}

	// Right-align the bubble with a left margin
	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// COMPANION BUBBLE - Lavender tones, left-aligned
// ==========================================================================

func (b *MessageBubble) renderCompanionBubble() string {
	content := b.Message.GetDisplayContent()

	if b.Streaming {
		content += b.renderStreamingCursor()
	}
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-8)

	bubble := b.theme.CompanionBubble.
		MarginRight(0).
		Width(contentWidth).
		Render(wrappedContent)

	roleIndicator := b.theme.SessionMeta.Render(
		strings.ToLower(b.Message.Role.DisplayName()))

	headerParts := []string{roleIndicator}
	if b.ShowMoodTag && b.Message.MoodTag != "" && !b.Streaming {
		tag := lipgloss.NewStyle().
			Foreground(styles.MoodColor(b.Message.MoodTag)).
			Italic(true).
			Render("~ " + b.Message.MoodTag)
		headerParts = append(headerParts, tag)
	}
	if b.ShowTimestamp {
		if ts := b.renderTimestamp(); ts != "" {
			headerParts = append(headerParts, ts)
		}
	}
	header := strings.Join(headerParts, " ")

	statsLine := ""
	if b.ShowStats && !b.Streaming && b.Message.TotalDuration > 0 {
		statsLine = b.renderStats()
	}

	result := lipgloss.JoinVertical(lipgloss.Left, header, bubble)
	if statsLine != "" {
		result = lipgloss.JoinVertical(lipgloss.Left, result, statsLine)
	}
	return result
}

// ==========================================================================
// SYSTEM BUBBLE - Sand tones, centered
// ==========================================================================

func (b *MessageBubble) renderSystemBubble() string {
	content := b.Message.GetDisplayContent()
	if content == "" {
		content = "System notice"
	}

	maxContentWidth := b.Width - 20
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrappedContent := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-16)

	bubble := b.theme.SystemBubble.
		Width(contentWidth).
		Render(wrappedContent)

	centerStyle := lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Center)

	header := b.theme.SessionMeta.Render("system")
	if b.ShowTimestamp {
		if ts := b.renderTimestamp(); ts != "" {
			header += " " + ts
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		centerStyle.Render(header),
		centerStyle.Render(bubble),
	)
}

// ==========================================================================
// TOOL BUBBLE - Sage for success, Coral for failure
// ==========================================================================

func (b *MessageBubble) renderToolBubble() string {
	content := b.Message.ToolResult
	if content == "" {
		content = b.Message.GetDisplayContent()
	}

	// Truncate very long tool output
	maxLines := 20
	lines := strings.Split(content, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		content = strings.Join(lines, "\n") + "\n... (output truncated)"
	} else {
		content = strings.Join(lines, "\n")
	}

	maxContentWidth := b.Width - 10
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	// ACCESSIBILITY: shape indicators alongside color for colorblind users
	var bubbleStyle, iconStyle lipgloss.Style
	var icon string
	if b.Message.IsSuccess {
		bubbleStyle = b.theme.ToolSuccess
		iconStyle = b.theme.SuccessStyle
		icon = styles.StatusIndicators.Success
	} else {
		bubbleStyle = b.theme.ToolError
		iconStyle = b.theme.ErrorStyle
		icon = styles.StatusIndicators.Error
	}

	bubble := bubbleStyle.Render(wrappedContent)

	toolName := b.Message.ToolName
	if toolName == "" {
		toolName = "Activity"
	}
	nameStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true)

	header := iconStyle.Render(icon) + " " + nameStyle.Render(toolName)
	if b.ShowTimestamp {
		if ts := b.renderTimestamp(); ts != "" {
			header += " " + ts
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// GENERIC BUBBLE - Fallback for unknown roles
// ==========================================================================

func (b *MessageBubble) renderGenericBubble() string {
	content := b.Message.GetDisplayContent()
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 10
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	return lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 2).
		Render(wrappedContent)
}

// ==========================================================================
// HELPER METHODS
// ==========================================================================

// renderTimestamp renders a dimmed timestamp, "3:04 PM" for today and
// "Jan 5, 3:04 PM" otherwise.
func (b *MessageBubble) renderTimestamp() string {
	ts := b.Message.Timestamp
	if ts.IsZero() {
		return ""
	}

	now := time.Now()
	var formatted string
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		formatted = ts.Format("3:04 PM")
	} else {
		formatted = ts.Format("Jan 2, 3:04 PM")
	}

	return b.theme.SessionMeta.Render(formatted)
}

// renderStats renders the reply statistics line.
func (b *MessageBubble) renderStats() string {
	stats := b.Message.FormatStats()
	if stats == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		PaddingLeft(2).
		Render(stats)
}

// renderStreamingCursor renders the blinking cursor on streaming replies.
func (b *MessageBubble) renderStreamingCursor() string {
	return lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Blink(true).
		Render("_")
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a conversation's messages in order.
type MessageList struct {
	Messages       []*model.Message
	Width          int
	ShowTimestamps bool
	ShowStats      bool
	ShowMoodTags   bool
	theme          *styles.Theme
}

// NewMessageList creates a new MessageList.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Messages:       []*model.Message{},
		Width:          80,
		ShowTimestamps: true,
		ShowStats:      true,
		ShowMoodTags:   true,
		theme:          theme,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// View renders all messages.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)
		return emptyStyle.Render("This space is yours. Say whatever's on your mind.")
	}

	var bubbles []string
	for i, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubble.ShowStats = ml.ShowStats
		bubble.ShowMoodTag = ml.ShowMoodTags
		bubble.SetIsLatest(i == len(ml.Messages)-1)
		bubbles = append(bubbles, bubble.View())
	}

	return strings.Join(bubbles, "\n")
}
