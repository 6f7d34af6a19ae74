// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared utilities for the solace TUI:
// rune- and width-aware string handling, search-text normalization,
// and atomic file writes.
package util
