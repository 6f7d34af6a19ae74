// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/solace-tui/internal/chat"
	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/storage"
)

// saveTimeout bounds the background autosave write.
const saveTimeout = 5 * time.Second

// =============================================================================
// STREAMING COMMANDS
// =============================================================================

// startStreamCmd opens the companion stream for the current history.
// The context comes from Update so Esc can cancel mid-flight.
func (m *Model) startStreamCmd(ctx context.Context) tea.Cmd {
	history := m.historyForRequest()
	conversationID := m.conversation.ID
	client := m.client

	return func() tea.Msg {
		chunks, err := client.Stream(ctx, conversationID, history)
		if err != nil {
			return NewStreamErrorMsg(err)
		}
		return NewStreamStartMsg(conversationID, chunks)
	}
}

// listenCmd waits for the next chunk. Update re-issues it after each
// chunk so the channel drains one message at a time through the
// program's mailbox.
func listenCmd(chunks <-chan chat.StreamChunk) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-chunks
		if !ok {
			return StreamCompleteMsg{}
		}
		return StreamChunkMsg{Chunk: chunk}
	}
}

// historyForRequest projects the transcript into API messages. Tool
// and system entries stay local; the API reconstructs tool context
// server-side from the conversation ID.
func (m *Model) historyForRequest() []chat.ChatMessage {
	history := make([]chat.ChatMessage, 0, len(m.conversation.Messages))
	for _, msg := range m.conversation.Messages {
		if msg.IsStreaming || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case model.RoleUser:
			history = append(history, chat.NewUserMessage(msg.Content))
		case model.RoleAssistant:
			history = append(history, chat.NewAssistantMessage(msg.Content))
		}
	}
	return history
}

// =============================================================================
// PERSISTENCE COMMANDS
// =============================================================================

// saveCmd autosaves the conversation to the offline cache.
func (m *Model) saveCmd() tea.Cmd {
	if m.store == nil || m.conversation.IsEmpty() {
		return nil
	}
	store := m.store
	conv := m.conversation
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := store.Save(ctx, conv); err != nil {
			return NewErrorMsg(err, "saving conversation")
		}
		return ConversationSavedMsg{ID: conv.ID}
	}
}

// loadMostRecentCmd restores the last cached conversation on startup.
func (m *Model) loadMostRecentCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		conv, err := store.MostRecent(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrConversationNotFound) {
				return nil
			}
			return NewErrorMsg(err, "restoring session")
		}
		return ConversationLoadedMsg{Conversation: conv}
	}
}

// loadConversationCmd loads a specific cached conversation.
func (m *Model) loadConversationCmd(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		conv, err := store.Load(ctx, id)
		if err != nil {
			return NewErrorMsg(err, "loading conversation")
		}
		return ConversationLoadedMsg{Conversation: conv}
	}
}

// listSessionsCmd fetches cached conversation summaries for the picker.
func (m *Model) listSessionsCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		items, err := store.List(ctx)
		if err != nil {
			return NewErrorMsg(err, "listing sessions")
		}
		return ConversationListMsg{Items: items}
	}
}

// deleteConversationCmd removes a cached conversation.
func (m *Model) deleteConversationCmd(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := store.Delete(ctx, id); err != nil {
			return NewErrorMsg(err, "deleting conversation")
		}
		return ConversationDeletedMsg{ID: id}
	}
}
