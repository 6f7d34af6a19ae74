// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer turns classified stream content into terminal output. The
// complete region goes through glamour; the partial tail is emitted as-is
// with a trailing cursor glyph supplied by the caller (the cursor blink
// is a view concern, not a rendering one).
type Renderer struct {
	tr    *glamour.TermRenderer
	width int
}

// NewRenderer creates a renderer that auto-detects the terminal style.
func NewRenderer(width int) (*Renderer, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{tr: tr, width: width}, nil
}

// NewRendererWithStyle creates a renderer with a named glamour style
// ("dark", "light", "notty", ...). Used when the theme is forced by
// config and by tests that need deterministic output.
func NewRendererWithStyle(style string, width int) (*Renderer, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{tr: tr, width: width}, nil
}

// Width returns the word-wrap width the renderer was built with.
func (r *Renderer) Width() int {
	return r.width
}

// RenderComplete renders text as finished markdown. On renderer failure
// the raw text is returned so content is never dropped.
func (r *Renderer) RenderComplete(text string) string {
	if text == "" {
		return ""
	}
	out, err := r.tr.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// RenderStreaming renders a classification result mid-stream: formatted
// complete region, plain partial tail, cursor appended to whichever
// region ends the output.
func (r *Renderer) RenderStreaming(res ClassificationResult, cursor string) string {
	var sb strings.Builder

	if res.IsValid && res.CompleteBlocks != "" {
		sb.WriteString(r.RenderComplete(res.CompleteBlocks))
	}

	if res.PartialBlock != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(res.PartialBlock)
	}

	sb.WriteString(cursor)
	return sb.String()
}

// RenderBuffer renders a stream buffer. isComplete forces full-buffer
// markdown rendering, bypassing the classifier entirely; this is the
// consumer-side override invoked once streaming ends.
func (r *Renderer) RenderBuffer(buf *StreamBuffer, isComplete bool, cursor string) string {
	if isComplete || buf.Done() {
		return r.RenderComplete(buf.Text())
	}
	return r.RenderStreaming(buf.Snapshot(), cursor)
}
