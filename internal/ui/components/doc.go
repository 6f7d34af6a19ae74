// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the solace
// TUI: message bubbles, spinners, the header with screen tabs, the
// status bar, modals, toasts and the tool activity list.
//
// Components take a *styles.Theme at construction and render with it;
// they never consult globals, so screens can restyle by swapping the
// theme they pass in.
package components
