// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
)

// MaxEventSize is the maximum allowed size for a single SSE event (64KB).
const MaxEventSize = 64 * 1024

// =============================================================================
// STREAM TYPES
// =============================================================================

// ToolEvent is a tool-execution status update carried inline in the
// stream. The UI projects these into the tool status line; nothing is
// executed client-side.
type ToolEvent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"` // queued, running, succeeded, failed
	Detail string `json:"detail,omitempty"`
}

// StreamChunk is one decoded event from the chat stream.
type StreamChunk struct {
	Delta        string     `json:"delta"`
	MoodTag      string     `json:"mood,omitempty"`
	Tool         *ToolEvent `json:"tool,omitempty"`
	Done         bool       `json:"done"`
	FinishReason string     `json:"finish_reason,omitempty"`
	Error        error      `json:"-"`
}

// HasContent reports whether the chunk carries text.
func (c StreamChunk) HasContent() bool {
	return c.Delta != ""
}

// HasError reports whether the chunk carries a terminal error.
func (c StreamChunk) HasError() bool {
	return c.Error != nil
}

// StreamError preserves partial content received before a failure so the
// UI can keep what already rendered.
type StreamError struct {
	Partial string
	Err     error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// =============================================================================
// SSE READER
// =============================================================================

// SSEReader parses Server-Sent Events from a stream.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates a new SSE reader from an io.Reader.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{reader: bufio.NewReader(r)}
}

// ReadEvent reads the next SSE event, returning the event type and data.
// Returns io.EOF when the stream ends; buffered data is delivered before
// the EOF surfaces.
func (s *SSEReader) ReadEvent() (string, []byte, error) {
	var eventType string
	var dataLines [][]byte
	var size int

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				if len(dataLines) > 0 {
					return eventType, bytes.Join(dataLines, []byte("\n")), nil
				}
				return "", nil, io.EOF
			}
			return "", nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Empty line ends the event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		switch {
		case bytes.HasPrefix(line, []byte("event:")):
			eventType = string(bytes.TrimSpace(line[6:]))
		case bytes.HasPrefix(line, []byte("data:")):
			data := bytes.TrimSpace(line[5:])
			size += len(data)
			if size > MaxEventSize {
				return "", nil, fmt.Errorf("sse event too large: %d bytes", size)
			}
			dataLines = append(dataLines, data)
		}
		// Other fields (id:, retry:, comments) are ignored.
	}
}

// =============================================================================
// STREAM ACCUMULATOR
// =============================================================================

// Accumulator collects streaming chunks into a complete response with
// timing statistics.
type Accumulator struct {
	Content      strings.Builder
	TokenCount   int
	MoodTag      string
	FinishReason string
	StartTime    time.Time
	FirstTokenAt time.Time
	Done         bool
	ToolEvents   []ToolEvent
}

// NewAccumulator creates an accumulator with the start time set.
func NewAccumulator() *Accumulator {
	return &Accumulator{StartTime: time.Now()}
}

// Add processes one chunk.
func (a *Accumulator) Add(chunk StreamChunk) {
	if chunk.Delta != "" {
		a.TokenCount++
		if a.FirstTokenAt.IsZero() {
			a.FirstTokenAt = time.Now()
		}
		a.Content.WriteString(chunk.Delta)
	}
	if chunk.MoodTag != "" {
		a.MoodTag = chunk.MoodTag
	}
	if chunk.Tool != nil {
		a.ToolEvents = append(a.ToolEvents, *chunk.Tool)
	}
	if chunk.Done {
		a.Done = true
		a.FinishReason = chunk.FinishReason
	}
}

// GetContent returns the accumulated text.
func (a *Accumulator) GetContent() string {
	return a.Content.String()
}

// TTFT returns the time to first token, or zero if none arrived.
func (a *Accumulator) TTFT() time.Duration {
	if a.FirstTokenAt.IsZero() {
		return 0
	}
	return a.FirstTokenAt.Sub(a.StartTime)
}
