// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the streaming client for the solace chat
// backend.
//
// Responses arrive as Server-Sent Events; each event carries a small
// JSON payload with a text delta and, occasionally, a tool-execution
// event or a mood annotation. The client owns SSE framing, retry with
// partial-content preservation, and channel delivery into the TUI's
// update loop. It does not interpret content: classification and
// rendering live in internal/markdown, tool status display in
// internal/tools.
package chat
