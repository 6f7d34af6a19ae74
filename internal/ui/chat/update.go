// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/solace-tui/internal/markdown"
	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all chat screen messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case StreamStartMsg:
		return m.updateStreamStart(msg)

	case StreamChunkMsg:
		return m.updateStreamChunk(msg)

	case StreamTickMsg:
		return m.updateStreamTick()

	case StreamCompleteMsg:
		return m.updateStreamComplete(msg)

	case StreamErrorMsg:
		return m.updateStreamError(msg)

	case ConversationLoadedMsg:
		if msg.Conversation != nil {
			m.conversation = msg.Conversation
			m.state = stateIdle
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		return m, nil

	case ConversationSavedMsg:
		return m, nil

	case ConversationListMsg:
		m.sessions = msg.Items
		m.sessionCursor = 0
		m.state = statePicking
		return m, nil

	case ConversationDeletedMsg:
		if msg.ID == m.conversation.ID {
			m.conversation = model.NewConversation()
			m.refreshViewport()
		}
		return m, m.listSessionsCmd()

	case components.ModalResult:
		return m.updateModalResult(msg)

	case ErrorMsg:
		m.err = msg.Err
		m.errContext = msg.Context
		return m, nil

	case ClearErrorMsg:
		m.err = nil
		m.errContext = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) updateKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	if m.modal != nil && m.modal.Visible {
		_, cmd := m.modal.Update(msg)
		return m, cmd
	}

	if m.state == statePicking {
		return m.updatePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.Streaming() {
			return m.abortStream()
		}
		if m.err != nil {
			m.err = nil
			m.errContext = ""
			return m, nil
		}

	case key.Matches(msg, m.keys.Send):
		return m.submitInput()

	case key.Matches(msg, m.keys.Newline):
		m.input.InsertString("\n")
		return m, nil

	case key.Matches(msg, m.keys.NewSession):
		if m.Streaming() {
			return m, nil
		}
		saveCmd := m.saveCmd()
		m.conversation = model.NewConversation()
		m.tracker.Reset()
		m.refreshViewport()
		return m, saveCmd

	case key.Matches(msg, m.keys.Sessions):
		if m.Streaming() {
			return m, nil
		}
		return m, m.listSessionsCmd()

	case key.Matches(msg, m.keys.DeleteChat):
		if m.Streaming() || m.conversation.IsEmpty() {
			return m, nil
		}
		m.modal = components.NewConfirm(
			"delete-chat",
			"Delete this conversation?",
			"The cached transcript will be removed. This cannot be undone.",
			m.theme,
		)
		m.modal.Show()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.JumpBottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updatePickerKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.sessionCursor > 0 {
			m.sessionCursor--
		}
	case "down", "j":
		if m.sessionCursor < len(m.sessions)-1 {
			m.sessionCursor++
		}
	case "enter":
		m.state = stateIdle
		if len(m.sessions) > 0 {
			return m, m.loadConversationCmd(m.sessions[m.sessionCursor].ID)
		}
	case "d":
		if len(m.sessions) > 0 {
			return m, m.deleteConversationCmd(m.sessions[m.sessionCursor].ID)
		}
	case "esc", "q":
		m.state = stateIdle
	}
	return m, nil
}

func (m *Model) updateModalResult(msg components.ModalResult) (*Model, tea.Cmd) {
	m.modal = nil
	if msg.ID == "delete-chat" && msg.Confirmed {
		id := m.conversation.ID
		m.conversation = model.NewConversation()
		m.tracker.Reset()
		m.refreshViewport()
		if m.store != nil {
			return m, m.deleteConversationCmd(id)
		}
	}
	return m, nil
}

// =============================================================================
// SUBMIT AND STREAM LIFECYCLE
// =============================================================================

func (m *Model) submitInput() (*Model, tea.Cmd) {
	if m.Streaming() {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		m.input.Reset()
		return m.runSlashCommand(text)
	}
	if !m.client.IsConfigured() {
		m.err = errNotConfigured
		m.errContext = "sending message"
		return m, nil
	}

	m.input.Reset()
	m.err = nil
	m.errContext = ""

	m.conversation.AddUserMessage(text)
	m.refreshViewport()
	m.viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.streamCancel = cancel
	m.state = stateThinking
	m.stats = model.NewStatistics()
	m.streamTokens = 0
	m.pendingMood = ""
	m.tracker.Reset()
	m.streamText = markdown.NewStreamBuffer()
	m.batch.Reset()

	return m, tea.Batch(m.spinner.Start(), m.startStreamCmd(ctx))
}

func (m *Model) updateStreamStart(msg StreamStartMsg) (*Model, tea.Cmd) {
	m.chunks = msg.Chunks
	m.state = stateStreaming

	reply := m.conversation.AddAssistantMessage()
	reply.IsStreaming = true

	return m, tea.Batch(listenCmd(m.chunks), streamTickCmd())
}

func (m *Model) updateStreamChunk(msg StreamChunkMsg) (*Model, tea.Cmd) {
	chunk := msg.Chunk

	if chunk.HasError() {
		return m.updateStreamError(NewStreamErrorMsg(chunk.Error))
	}

	if chunk.Tool != nil {
		m.tracker.Apply(*chunk.Tool)
	}
	if chunk.MoodTag != "" {
		m.pendingMood = chunk.MoodTag
	}
	if chunk.HasContent() {
		m.stats.RecordFirstToken()
		m.streamTokens++
		m.batch.Write(chunk.Delta)
	}

	return m, listenCmd(m.chunks)
}

func (m *Model) updateStreamTick() (*Model, tea.Cmd) {
	if m.state != stateStreaming && m.state != stateThinking {
		return m, nil
	}
	if out := m.batch.Flush(); out != "" {
		m.streamText.Append(out)
		m.conversation.AppendToLast(out)
		m.refreshViewport()
		m.viewport.GotoBottom()
	}
	return m, streamTickCmd()
}

func (m *Model) updateStreamComplete(msg StreamCompleteMsg) (*Model, tea.Cmd) {
	if tail := m.batch.ForceFlush(); tail != "" {
		m.streamText.Append(tail)
		m.conversation.AppendToLast(tail)
	}
	m.streamText.Finalize()

	m.finishReply()
	return m, m.saveCmd()
}

func (m *Model) updateStreamError(msg StreamErrorMsg) (*Model, tea.Cmd) {
	if tail := m.batch.ForceFlush(); tail != "" {
		m.streamText.Append(tail)
		m.conversation.AppendToLast(tail)
	}
	m.streamText.Finalize()

	m.finishReply()
	m.err = msg.Err
	m.errContext = "companion stream"

	// Drop an empty placeholder so a failed send leaves no blank bubble.
	if last := m.conversation.GetLastMessage(); last != nil &&
		last.Role == model.RoleAssistant && last.IsEmpty() {
		m.conversation.Messages = m.conversation.Messages[:len(m.conversation.Messages)-1]
	}

	m.refreshViewport()
	return m, m.saveCmd()
}

// abortStream cancels the in-flight request and keeps whatever partial
// content already rendered.
func (m *Model) abortStream() (*Model, tea.Cmd) {
	m.cancelStream()
	m.streamText.Finalize()
	m.finishReply()
	m.refreshViewport()
	return m, m.saveCmd()
}

// finishReply finalizes the streaming placeholder and returns the
// screen to idle.
func (m *Model) finishReply() {
	if last := m.conversation.GetLastMessage(); last != nil && last.IsStreaming {
		if m.stats != nil {
			m.stats.Finalize(m.streamTokens)
		}
		last.FinalizeStream(m.stats)
		if m.pendingMood != "" {
			last.MoodTag = m.pendingMood
		}
	}

	m.state = stateIdle
	m.chunks = nil
	m.streamCancel = nil
	m.spinner.Stop()
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// runSlashCommand handles composer commands. Unknown commands get a
// system notice instead of being sent to the backend.
func (m *Model) runSlashCommand(text string) (*Model, tea.Cmd) {
	fields := strings.Fields(text)
	cmd, rest := fields[0], fields[1:]

	switch cmd {
	case "/clear", "/new":
		saveCmd := m.saveCmd()
		m.conversation = model.NewConversation()
		m.tracker.Reset()
		m.refreshViewport()
		return m, saveCmd

	case "/sessions":
		return m, m.listSessionsCmd()

	case "/delete":
		if m.conversation.IsEmpty() {
			return m, nil
		}
		m.modal = components.NewConfirm(
			"delete-chat",
			"Delete this conversation?",
			"The cached transcript will be removed. This cannot be undone.",
			m.theme,
		)
		m.modal.Show()
		return m, nil

	case "/persona":
		if len(rest) == 0 {
			m.conversation.AddSystemMessage("persona: " + m.client.Persona())
		} else {
			m.client.WithPersona(rest[0])
			m.conversation.AddSystemMessage("persona set to " + rest[0])
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case "/help":
		m.conversation.AddSystemMessage(
			"commands: /clear new chat, /sessions switch chats, /delete remove chat, /persona [name] change voice")
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	m.conversation.AddSystemMessage("unknown command " + cmd + " (try /help)")
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}
