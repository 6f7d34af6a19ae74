// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses arguments and implements the non-TUI surfaces:
// one-shot questions, the plain-terminal chat REPL, login/logout,
// status, config editing, and app-lock management. The default command
// (no arguments) starts the TUI; main.go owns that path.
package cli
