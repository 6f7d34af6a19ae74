// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Brand plus screen tabs
// =============================================================================

// Tab identifies a top-level screen.
type Tab int

const (
	TabChat Tab = iota
	TabWallet
	TabProfile
	TabInsights
	TabSettings
)

// tabLabels in display order.
var tabLabels = []string{"Chat", "Wallet", "Profile", "Insights", "Settings"}

// Label returns the tab's display label.
func (t Tab) Label() string {
	if int(t) < 0 || int(t) >= len(tabLabels) {
		return "?"
	}
	return tabLabels[t]
}

// Header renders the top bar: brand on the left, screen tabs on the
// right (tabs collapse to numbers on narrow terminals).
type Header struct {
	Width     int
	ActiveTab Tab
	Subtitle  string
	theme     *styles.Theme
}

// NewHeader creates a new header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetActiveTab sets the highlighted tab.
func (h *Header) SetActiveTab(tab Tab) {
	h.ActiveTab = tab
}

// View renders the header.
func (h *Header) View() string {
	brand := h.theme.HeaderBrand.Render("solace")
	if h.Subtitle != "" {
		brand += " " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}

	tabs := h.renderTabs()

	gap := h.Width - lipgloss.Width(brand) - lipgloss.Width(tabs) - 2
	if gap < 1 {
		gap = 1
	}

	line := " " + brand + strings.Repeat(" ", gap) + tabs

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Width(h.Width).
		Render(line)
}

// renderTabs renders the screen tabs, numbered for their shortcuts.
func (h *Header) renderTabs() string {
	narrow := h.theme.GetLayoutMode() == styles.LayoutNarrow

	var parts []string
	for i, label := range tabLabels {
		text := label
		if narrow {
			// Numbers only when space is tight
			text = text[:1]
		}
		if Tab(i) == h.ActiveTab {
			parts = append(parts, h.theme.TabActive.Render(text))
		} else {
			parts = append(parts, h.theme.TabInactive.Render(text))
		}
	}
	return strings.Join(parts, "")
}
