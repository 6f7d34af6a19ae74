// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/solace-tui/internal/tools"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// =============================================================================
// TOOL STATUS COMPONENT - Tool activity below the streaming reply
// =============================================================================

// ToolStatus renders tracked backend tool executions as a small tree
// under the companion's in-progress reply.
type ToolStatus struct {
	tracker *tools.Tracker
	theme   *styles.Theme
}

// NewToolStatus creates a tool status view over a tracker.
func NewToolStatus(tracker *tools.Tracker, theme *styles.Theme) *ToolStatus {
	return &ToolStatus{tracker: tracker, theme: theme}
}

// View renders one line per execution, in arrival order.
func (ts *ToolStatus) View() string {
	execs := ts.tracker.Executions()
	if len(execs) == 0 {
		return ""
	}

	var lines []string
	for i, exec := range execs {
		prefix := styles.RenderTreeLine(i == len(execs)-1)
		lines = append(lines, ts.theme.ThinkingDetail.Render(prefix+exec.Line()))
	}
	return strings.Join(lines, "\n")
}

// SummaryView renders the compact one-line form for the status bar.
func (ts *ToolStatus) SummaryView() string {
	summary := ts.tracker.Summary()
	if summary == "" {
		return ""
	}

	_, failed, _ := ts.tracker.Counts()
	style := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	if failed > 0 {
		style = ts.theme.ErrorStyle
	}
	return style.Render(summary)
}
