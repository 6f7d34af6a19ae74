// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the solace TUI.
//
// A Theme is built once at startup and passed explicitly to every screen
// and component; nothing in this package holds global styling state.
// All colors use Lip Gloss AdaptiveColor so the palette tracks the
// terminal's light/dark background automatically, with an explicit
// override available from configuration.
package styles
