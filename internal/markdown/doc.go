// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown implements incremental rendering of streamed chat
// responses.
//
// Text arrives from the chat backend in arbitrary chunks, so at any
// moment the tail of the buffer may sit mid-syntax (an unterminated code
// fence, an unclosed bold marker). Handing such a fragment to a markdown
// engine produces flicker: the fragment renders one way now and another
// way once the closing token arrives. Classify splits the buffer into a
// prefix of blocks that are safe to format and a trailing fragment that
// is shown as plain text until it settles.
//
// The classification is a fixed set of cheap heuristics over blank-line
// separated blocks, not a markdown parser. Unclassifiable tails simply
// stay plain; when the stream finishes the consumer force-renders the
// whole buffer regardless of the classifier's opinion.
package markdown
