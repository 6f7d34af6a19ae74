// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools projects tool-execution events from the chat stream
// into displayable status. Tools run on the backend; this package never
// executes anything. It tracks per-tool lifecycle (queued, running,
// succeeded, failed), keeps arrival order stable for rendering, and
// summarizes progress for the status line.
package tools
