// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar renders the bottom bar: persona, sync state, wallet
// balance and contextual shortcuts.
type StatusBar struct {
	Width int

	Persona   string
	Connected bool
	Balance   *model.WalletBalance
	Shortcuts []Shortcut

	theme *styles.Theme
}

// Shortcut is a key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetConnected updates the sync connection indicator.
func (s *StatusBar) SetConnected(connected bool) {
	s.Connected = connected
}

// SetBalance updates the wallet balance shown in the bar.
func (s *StatusBar) SetBalance(b *model.WalletBalance) {
	s.Balance = b
}

// SetShortcuts replaces the shortcut hints.
func (s *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	s.Shortcuts = shortcuts
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var left []string

	if s.Persona != "" {
		left = append(left, s.theme.PersonaBadge.Render(s.Persona))
	}

	if s.Connected {
		left = append(left, s.theme.SyncConnected.Render("(+) live"))
	} else {
		left = append(left, s.theme.SyncOffline.Render("(-) offline"))
	}

	if s.Balance != nil {
		left = append(left, s.theme.WalletBalance.Render(s.Balance.FormatCredits()))
	}

	leftStr := strings.Join(left, "  ")
	rightStr := s.renderShortcuts()

	gap := s.Width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.
		Width(s.Width).
		Render(leftStr + strings.Repeat(" ", gap) + rightStr)
}

// renderShortcuts renders the key hints, dropping hints that overflow
// on narrow terminals.
func (s *StatusBar) renderShortcuts() string {
	if len(s.Shortcuts) == 0 {
		return ""
	}

	max := len(s.Shortcuts)
	if s.theme.GetLayoutMode() == styles.LayoutNarrow && max > 2 {
		max = 2
	}

	var parts []string
	for _, sc := range s.Shortcuts[:max] {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
