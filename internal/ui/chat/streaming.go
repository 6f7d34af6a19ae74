// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// StreamingBuffer batches incoming tokens so the transcript re-renders
// at a bounded rate instead of once per token. Tokens accumulate until
// either the batch size threshold is reached or the minimum flush
// interval has elapsed, whichever comes first.
//
// PERFORMANCE: rendering the transcript is the expensive step, not
// receiving tokens. Batching 15 tokens at up to 30fps keeps output
// smooth while cutting renders by an order of magnitude on fast streams.
type StreamingBuffer struct {
	mu sync.Mutex

	pending    strings.Builder
	tokenCount int

	batchSize        int
	minFlushInterval time.Duration
	lastFlush        time.Time
}

// NewStreamingBuffer creates a buffer flushing every batchSize tokens
// or at most maxFPS times per second. Non-positive arguments fall back
// to 15 tokens and 30fps.
func NewStreamingBuffer(batchSize, maxFPS int) *StreamingBuffer {
	if batchSize <= 0 {
		batchSize = 15
	}
	if maxFPS <= 0 {
		maxFPS = 30
	}
	return &StreamingBuffer{
		batchSize:        batchSize,
		minFlushInterval: time.Second / time.Duration(maxFPS),
		lastFlush:        time.Now(),
	}
}

// Write adds a token to the pending batch. Safe to call from the
// stream goroutine while the update loop flushes.
func (b *StreamingBuffer) Write(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending.WriteString(token)
	b.tokenCount++
}

// ShouldFlush reports whether enough tokens or enough time has
// accumulated to justify a render.
func (b *StreamingBuffer) ShouldFlush() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tokenCount == 0 {
		return false
	}
	if b.tokenCount >= b.batchSize {
		return true
	}
	return time.Since(b.lastFlush) >= b.minFlushInterval
}

// Flush returns the pending batch if a flush is due, or "" otherwise.
func (b *StreamingBuffer) Flush() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tokenCount == 0 {
		return ""
	}
	if b.tokenCount < b.batchSize && time.Since(b.lastFlush) < b.minFlushInterval {
		return ""
	}
	return b.drainLocked()
}

// ForceFlush returns everything pending regardless of thresholds. Used
// when the stream completes so no tail tokens are lost.
func (b *StreamingBuffer) ForceFlush() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drainLocked()
}

// Pending returns the number of buffered tokens.
func (b *StreamingBuffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokenCount
}

// Reset discards pending content for a fresh stream.
func (b *StreamingBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending.Reset()
	b.tokenCount = 0
	b.lastFlush = time.Now()
}

// drainLocked empties the buffer. Caller holds b.mu.
func (b *StreamingBuffer) drainLocked() string {
	out := b.pending.String()
	b.pending.Reset()
	b.tokenCount = 0
	b.lastFlush = time.Now()
	return out
}

// =============================================================================
// TICK COMMAND
// =============================================================================

// streamTickInterval paces flush checks at ~30fps.
const streamTickInterval = 33 * time.Millisecond

// streamTickCmd schedules the next flush check while streaming.
func streamTickCmd() tea.Cmd {
	return tea.Tick(streamTickInterval, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
