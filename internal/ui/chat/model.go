// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/solace-tui/internal/chat"
	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/markdown"
	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/storage"
	"github.com/jeranaias/solace-tui/internal/tools"
	"github.com/jeranaias/solace-tui/internal/ui/components"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// =============================================================================
// SCREEN STATE
// =============================================================================

// screenState tracks what the chat screen is doing.
type screenState int

const (
	stateIdle screenState = iota
	stateThinking
	stateStreaming
	statePicking
)

// maxInputChars caps composer length. Long enough to vent, short
// enough to keep a single request well under the API limit.
const maxInputChars = 4000

// errNotConfigured is shown when sending without a session token.
var errNotConfigured = errors.New("not signed in: run `solace login` first")

// =============================================================================
// CHAT SCREEN MODEL
// =============================================================================

// Model is the conversation screen.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme
	keys  KeyMap

	conversation *model.Conversation
	client       *chat.Client
	store        *storage.ConversationStore

	viewport viewport.Model
	input    textarea.Model
	spinner  components.Spinner
	modal    *components.Modal

	renderer    *markdown.Renderer
	streamText  *markdown.StreamBuffer
	batch       *StreamingBuffer
	tracker     *tools.Tracker
	toolStatus  *components.ToolStatus
	messageList *components.MessageList

	state        screenState
	chunks       <-chan chat.StreamChunk
	streamCancel context.CancelFunc
	stats        *model.Statistics
	streamTokens int
	pendingMood  string

	sessions      []storage.ConversationMeta
	sessionCursor int

	err        error
	errContext string

	width  int
	height int
}

// New creates the chat screen. The store may be nil when the cache is
// unavailable; autosave and session restore degrade to no-ops.
func New(cfg *config.Config, theme *styles.Theme, client *chat.Client, store *storage.ConversationStore) *Model {
	input := textarea.New()
	input.Placeholder = "What's on your mind?"
	input.CharLimit = maxInputChars
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	vp := viewport.New(80, 20)

	renderer, err := markdown.NewRenderer(78)
	if err != nil {
		renderer = nil
	}

	tracker := tools.NewTracker()

	list := components.NewMessageList(theme)
	list.ShowTimestamps = cfg.UI.ShowTimestamps
	list.ShowStats = cfg.UI.ShowStats
	list.ShowMoodTags = cfg.UI.ShowMoodTags

	return &Model{
		cfg:          cfg,
		theme:        theme,
		keys:         DefaultKeyMap(),
		conversation: model.NewConversation(),
		client:       client,
		store:        store,
		viewport:     vp,
		input:        input,
		spinner:      components.NewBreathingSpinner(),
		renderer:     renderer,
		streamText:   markdown.NewStreamBuffer(),
		batch:        NewStreamingBuffer(cfg.Chat.StreamBatchSize, cfg.Chat.StreamMaxFPS),
		tracker:      tracker,
		toolStatus:   components.NewToolStatus(tracker, theme),
		messageList:  list,
		state:        stateIdle,
	}
}

// Init restores the most recent cached conversation.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadMostRecentCmd())
}

// SetSize resizes the screen. The parent subtracts its own chrome
// before calling.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	inputHeight := m.input.Height() + 2
	m.viewport.Width = width
	m.viewport.Height = height - inputHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}

	m.input.SetWidth(width - 2)
	m.messageList.SetWidth(width)

	if m.renderer == nil || m.renderer.Width() != width-2 {
		if r, err := markdown.NewRenderer(width - 2); err == nil {
			m.renderer = r
		}
	}

	m.refreshViewport()
}

// Streaming reports whether a response is in flight.
func (m *Model) Streaming() bool {
	return m.state == stateStreaming || m.state == stateThinking
}

// Conversation exposes the active conversation for the parent's status
// bar and for shutdown persistence.
func (m *Model) Conversation() *model.Conversation {
	return m.conversation
}

// cancelStream aborts an in-flight stream, if any.
func (m *Model) cancelStream() {
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
	m.chunks = nil
	m.batch.Reset()
	m.spinner.Stop()
}
