// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/solace-tui/internal/api"
	"github.com/jeranaias/solace-tui/internal/chat"
	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/storage"
	"github.com/jeranaias/solace-tui/internal/ui/components"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

func newTestScreen(t *testing.T) *Model {
	t.Helper()
	cfg := config.Default()
	theme := styles.NewTheme(styles.ModeDark)
	client := chat.NewClient("http://localhost:0", api.StaticToken("test-token"))
	m := New(cfg, theme, client, nil)
	m.SetSize(80, 24)
	return m
}

func testSessions(n int) []storage.ConversationMeta {
	items := make([]storage.ConversationMeta, n)
	for i := range items {
		items[i] = storage.ConversationMeta{
			ID:           fmt.Sprintf("conv-%d", i),
			Title:        fmt.Sprintf("Conversation %d", i),
			MessageCount: i + 1,
			UpdatedAt:    time.Now().Add(-time.Duration(i) * time.Hour),
		}
	}
	return items
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmitEmptyInputIsNoop(t *testing.T) {
	m := newTestScreen(t)

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("empty submit should not issue a command")
	}
	if !m.conversation.IsEmpty() {
		t.Error("empty submit should not add messages")
	}
}

func TestSubmitAddsUserMessageAndStarts(t *testing.T) {
	m := newTestScreen(t)
	m.input.SetValue("I had a rough day")

	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("submit should issue the stream command")
	}
	if m.conversation.MessageCount() != 1 {
		t.Fatalf("MessageCount = %d, want 1", m.conversation.MessageCount())
	}
	last := m.conversation.GetLastMessage()
	if last.Role != model.RoleUser || last.Content != "I had a rough day" {
		t.Errorf("unexpected last message: %+v", last)
	}
	if m.state != stateThinking {
		t.Errorf("state = %v, want stateThinking", m.state)
	}
	if m.input.Value() != "" {
		t.Error("composer should clear on submit")
	}
}

func TestSubmitWhileStreamingIgnored(t *testing.T) {
	m := newTestScreen(t)
	m.state = stateStreaming

	m.input.SetValue("second thought")
	m, _ = m.Update(keyMsg("enter"))
	if m.conversation.MessageCount() != 0 {
		t.Error("submit during streaming should be ignored")
	}
}

func TestStreamStartAddsPlaceholder(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("hi")
	m.state = stateThinking

	chunks := make(chan chat.StreamChunk)
	m, cmd := m.Update(NewStreamStartMsg(m.conversation.ID, chunks))
	if cmd == nil {
		t.Fatal("stream start should issue listen and tick commands")
	}
	if m.state != stateStreaming {
		t.Errorf("state = %v, want stateStreaming", m.state)
	}
	last := m.conversation.GetLastMessage()
	if last == nil || !last.IsStreaming || last.Role != model.RoleAssistant {
		t.Errorf("expected streaming assistant placeholder, got %+v", last)
	}
}

func TestStreamChunkBuffersDelta(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("hi")
	m.state = stateStreaming
	m.stats = model.NewStatistics()
	reply := m.conversation.AddAssistantMessage()
	reply.IsStreaming = true
	m.chunks = make(chan chat.StreamChunk)

	m, cmd := m.Update(StreamChunkMsg{Chunk: chat.StreamChunk{Delta: "You"}})
	if cmd == nil {
		t.Fatal("chunk should re-issue the listen command")
	}
	if m.batch.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", m.batch.Pending())
	}
	if m.streamTokens != 1 {
		t.Errorf("streamTokens = %d, want 1", m.streamTokens)
	}
}

func TestStreamChunkMoodTagApplied(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("hi")
	m.state = stateStreaming
	m.stats = model.NewStatistics()
	reply := m.conversation.AddAssistantMessage()
	reply.IsStreaming = true
	m.chunks = make(chan chat.StreamChunk)

	m, _ = m.Update(StreamChunkMsg{Chunk: chat.StreamChunk{Delta: "Breathe.", MoodTag: "calm"}})
	m, _ = m.Update(StreamCompleteMsg{})

	last := m.conversation.GetLastMessage()
	if last.IsStreaming {
		t.Error("reply should be finalized")
	}
	if last.MoodTag != "calm" {
		t.Errorf("MoodTag = %q, want calm", last.MoodTag)
	}
	if last.Content != "Breathe." {
		t.Errorf("Content = %q, want buffered tail flushed on complete", last.Content)
	}
	if m.state != stateIdle {
		t.Errorf("state = %v, want stateIdle", m.state)
	}
}

func TestStreamErrorKeepsPartial(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("hi")
	m.state = stateStreaming
	m.stats = model.NewStatistics()
	reply := m.conversation.AddAssistantMessage()
	reply.IsStreaming = true
	m.chunks = make(chan chat.StreamChunk)

	m, _ = m.Update(StreamChunkMsg{Chunk: chat.StreamChunk{Delta: "It sounds like"}})
	m, _ = m.Update(NewStreamErrorMsg(&chat.StreamError{
		Partial: "It sounds like",
		Err:     errors.New("connection reset"),
	}))

	if m.err == nil {
		t.Fatal("expected screen error after stream failure")
	}
	last := m.conversation.GetLastMessage()
	if last.Role != model.RoleAssistant {
		t.Fatalf("last role = %v", last.Role)
	}
	if !strings.Contains(last.Content, "It sounds like") {
		t.Errorf("partial content lost: %q", last.Content)
	}
}

func TestStreamErrorDropsEmptyPlaceholder(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("hi")
	m.state = stateStreaming
	m.stats = model.NewStatistics()
	reply := m.conversation.AddAssistantMessage()
	reply.IsStreaming = true

	m, _ = m.Update(NewStreamErrorMsg(errors.New("boom")))

	last := m.conversation.GetLastMessage()
	if last.Role == model.RoleAssistant && last.Content == "" {
		t.Error("empty assistant placeholder should be removed on failure")
	}
}

func TestEscCancelsStream(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("hi")
	m.state = stateStreaming
	m.stats = model.NewStatistics()
	reply := m.conversation.AddAssistantMessage()
	reply.IsStreaming = true
	cancelled := false
	m.streamCancel = func() { cancelled = true }

	m, _ = m.Update(keyMsg("esc"))
	if !cancelled {
		t.Error("esc should cancel the stream context")
	}
	if m.state != stateIdle {
		t.Errorf("state = %v, want stateIdle", m.state)
	}
}

func TestHistoryForRequestSkipsLocalEntries(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("first")
	asst := m.conversation.AddAssistantMessage()
	asst.IsStreaming = false
	asst.Content = "reply"
	m.conversation.AddToolMessage("mood_log", "logged", true)
	m.conversation.AddSystemMessage("persona changed")
	live := m.conversation.AddAssistantMessage()
	live.IsStreaming = true

	history := m.historyForRequest()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2 (tool/system/streaming excluded)", len(history))
	}
	if history[0].Content != "first" || history[1].Content != "reply" {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestNewSessionResetsConversation(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("old thread")
	oldID := m.conversation.ID

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.conversation.ID == oldID {
		t.Error("ctrl+n should start a fresh conversation")
	}
	if !m.conversation.IsEmpty() {
		t.Error("fresh conversation should be empty")
	}
}

func TestDeleteConfirmDefaultsSafe(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("keep me")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.modal == nil || !m.modal.Visible {
		t.Fatal("ctrl+d should open the confirm modal")
	}

	// Enter on the default selection must not delete.
	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("modal enter should emit a result command")
	}
	result, ok := cmd().(components.ModalResult)
	if !ok {
		t.Fatalf("modal enter emitted %T, want ModalResult", cmd())
	}
	if result.Confirmed {
		t.Error("default selection must be cancel")
	}
}

func TestModalResultCancelledKeepsConversation(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("keep me")
	id := m.conversation.ID

	m, _ = m.Update(components.ModalResult{ID: "delete-chat", Confirmed: false})
	if m.conversation.ID != id {
		t.Error("cancelled delete must keep the conversation")
	}
}

func TestModalResultConfirmedClearsConversation(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("remove me")
	id := m.conversation.ID

	m, _ = m.Update(components.ModalResult{ID: "delete-chat", Confirmed: true})
	if m.conversation.ID == id {
		t.Error("confirmed delete should start a fresh conversation")
	}
}

func TestPickerNavigation(t *testing.T) {
	m := newTestScreen(t)
	m.state = statePicking
	m.sessions = testSessions(3)

	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("j"))
	if m.sessionCursor != 2 {
		t.Errorf("cursor = %d, want 2", m.sessionCursor)
	}
	m, _ = m.Update(keyMsg("j"))
	if m.sessionCursor != 2 {
		t.Error("cursor should clamp at last item")
	}
	m, _ = m.Update(keyMsg("k"))
	if m.sessionCursor != 1 {
		t.Errorf("cursor = %d, want 1", m.sessionCursor)
	}

	m, _ = m.Update(keyMsg("esc"))
	if m.state != stateIdle {
		t.Error("esc should close the picker")
	}
}

func TestViewShowsEmptyState(t *testing.T) {
	m := newTestScreen(t)
	m.refreshViewport()
	view := m.View()
	if !strings.Contains(view, "This space is yours") {
		t.Error("empty transcript should show the welcome line")
	}
}

func TestViewComposerCharCount(t *testing.T) {
	m := newTestScreen(t)
	m.input.SetValue("hello")
	view := m.viewComposer()
	if !strings.Contains(view, "5/4000") {
		t.Errorf("composer missing char count: %q", view)
	}
}

func TestUnconfiguredClientSurfacesError(t *testing.T) {
	cfg := config.Default()
	theme := styles.NewTheme(styles.ModeDark)
	client := chat.NewClient("", api.StaticToken(""))
	m := New(cfg, theme, client, nil)
	m.SetSize(80, 24)

	m.input.SetValue("hello?")
	m, _ = m.Update(keyMsg("enter"))
	if m.err == nil {
		t.Error("sending without a token should surface an error")
	}
	if m.state != stateIdle {
		t.Error("screen should stay idle when not configured")
	}
}

func TestSlashPersonaCommand(t *testing.T) {
	m := newTestScreen(t)

	m.input.SetValue("/persona coach")
	m, _ = m.Update(keyMsg("enter"))
	if m.client.Persona() != "coach" {
		t.Errorf("persona = %q, want %q", m.client.Persona(), "coach")
	}
	last := m.conversation.GetLastMessage()
	if last == nil || last.Role != model.RoleSystem {
		t.Fatal("persona change should leave a system notice")
	}
	if m.state != stateIdle {
		t.Error("slash commands must not start a stream")
	}
}

func TestSlashClearStartsFresh(t *testing.T) {
	m := newTestScreen(t)
	m.conversation.AddUserMessage("hello")

	m.input.SetValue("/clear")
	m, _ = m.Update(keyMsg("enter"))
	if !m.conversation.IsEmpty() {
		t.Error("/clear should start an empty conversation")
	}
}

func TestSlashUnknownCommandNotSent(t *testing.T) {
	m := newTestScreen(t)

	m.input.SetValue("/frobnicate")
	m, _ = m.Update(keyMsg("enter"))
	if m.state != stateIdle {
		t.Error("unknown command must not reach the backend")
	}
	last := m.conversation.GetLastMessage()
	if last == nil || last.Role != model.RoleSystem {
		t.Fatal("unknown command should leave a system notice")
	}
	if !strings.Contains(last.Content, "/help") {
		t.Errorf("notice should point at /help: %q", last.Content)
	}
}
