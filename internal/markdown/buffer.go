// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import "strings"

// StreamBuffer accumulates the text of one in-progress message and tracks
// how much of it has been committed to the complete region.
//
// Invariant: the committed length never shrinks within one stream. Once a
// prefix has rendered as formatted markdown it stays rendered, so already
// visible content never reflows as more text arrives.
//
// A buffer is owned by the single component rendering its message; it is
// not safe for concurrent use and does not need to be.
type StreamBuffer struct {
	fullText strings.Builder
	// emittedLength is the byte length of the prefix already classified
	// complete on a previous pass. CompleteBlocks is always a literal
	// prefix of the accumulated text, so a byte offset suffices.
	emittedLength int
	done          bool
}

// NewStreamBuffer creates an empty buffer for a new streaming message.
func NewStreamBuffer() *StreamBuffer {
	return &StreamBuffer{}
}

// Append adds a newly arrived chunk. Chunk boundaries carry no meaning;
// the backend may split mid-word or mid-token.
func (b *StreamBuffer) Append(chunk string) {
	if b.done {
		return
	}
	b.fullText.WriteString(chunk)
}

// Text returns the full text received so far.
func (b *StreamBuffer) Text() string {
	return b.fullText.String()
}

// Len returns the number of bytes received so far.
func (b *StreamBuffer) Len() int {
	return b.fullText.Len()
}

// Finalize marks the stream complete. Subsequent snapshots treat the
// entire buffer as complete markdown and Append becomes a no-op.
func (b *StreamBuffer) Finalize() {
	b.done = true
	b.emittedLength = b.fullText.Len()
}

// Done reports whether the stream has been finalized.
func (b *StreamBuffer) Done() bool {
	return b.done
}

// Snapshot classifies the current buffer contents.
//
// After Finalize the whole buffer is returned as complete regardless of
// the classifier's opinion (the stream-end override). Before that the
// result is Classify's, clamped so the complete region never retreats
// behind what an earlier snapshot already committed.
func (b *StreamBuffer) Snapshot() ClassificationResult {
	text := b.fullText.String()

	if b.done {
		return ClassificationResult{
			CompleteBlocks: text,
			IsValid:        text != "",
		}
	}

	res := Classify(text)
	if len(res.CompleteBlocks) >= b.emittedLength {
		b.emittedLength = len(res.CompleteBlocks)
		return res
	}

	// The heuristics regressed (the growing tail stopped matching a rule
	// an earlier, shorter tail matched). Hold the previously committed
	// prefix and treat only the remainder as partial.
	complete := text[:b.emittedLength]
	partial := strings.TrimPrefix(text[b.emittedLength:], BlockSeparator)
	return ClassificationResult{
		CompleteBlocks: complete,
		PartialBlock:   partial,
		IsValid:        complete != "",
	}
}
