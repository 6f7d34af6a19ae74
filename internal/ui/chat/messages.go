// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/solace-tui/internal/chat"
	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/storage"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that a stream has been opened and chunks will
// follow. It carries the channel the listen command drains.
type StreamStartMsg struct {
	ConversationID string
	Chunks         <-chan chat.StreamChunk
	StartedAt      time.Time
}

// StreamChunkMsg delivers one decoded chunk from the companion stream
// into the update loop.
type StreamChunkMsg struct {
	Chunk chat.StreamChunk
}

// StreamCompleteMsg signals that the stream finished cleanly.
type StreamCompleteMsg struct {
	FinishReason string
	Duration     time.Duration
}

// StreamErrorMsg signals that the stream failed. Partial holds whatever
// content arrived before the failure so the transcript keeps it.
type StreamErrorMsg struct {
	Err     error
	Partial string
}

// StreamTickMsg drives the fixed-rate flush of the streaming buffer
// while a response is in flight.
type StreamTickMsg struct {
	Time time.Time
}

// NewStreamStartMsg creates a StreamStartMsg.
func NewStreamStartMsg(conversationID string, chunks <-chan chat.StreamChunk) StreamStartMsg {
	return StreamStartMsg{
		ConversationID: conversationID,
		Chunks:         chunks,
		StartedAt:      time.Now(),
	}
}

// NewStreamErrorMsg creates a StreamErrorMsg, unwrapping partial
// content when the error preserved it.
func NewStreamErrorMsg(err error) StreamErrorMsg {
	msg := StreamErrorMsg{Err: err}
	if se, ok := err.(*chat.StreamError); ok {
		msg.Partial = se.Partial
	}
	return msg
}

// =============================================================================
// PERSISTENCE MESSAGES
// =============================================================================

// ConversationLoadedMsg carries a conversation restored from the
// offline cache.
type ConversationLoadedMsg struct {
	Conversation *model.Conversation
}

// ConversationSavedMsg confirms an autosave completed.
type ConversationSavedMsg struct {
	ID string
}

// ConversationListMsg carries cached conversation summaries for the
// session picker.
type ConversationListMsg struct {
	Items []storage.ConversationMeta
}

// ConversationDeletedMsg confirms a cached conversation was removed.
type ConversationDeletedMsg struct {
	ID string
}

// =============================================================================
// SCREEN MESSAGES
// =============================================================================

// ErrorMsg reports a non-fatal screen error. The view surfaces it and
// normal input continues.
type ErrorMsg struct {
	Err     error
	Context string
}

// NewErrorMsg creates an ErrorMsg with context about where it arose.
func NewErrorMsg(err error, context string) ErrorMsg {
	return ErrorMsg{Err: err, Context: context}
}

// ClearErrorMsg dismisses the current error banner.
type ClearErrorMsg struct{}
