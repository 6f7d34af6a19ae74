// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// =============================================================================
// TOAST COMPONENT - Transient notifications
// =============================================================================

// ToastKind selects the toast styling.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 3 * time.Second

// ToastExpiredMsg is emitted when a toast should be dismissed.
type ToastExpiredMsg struct {
	ID int
}

// Toast is a transient notification shown above the status bar.
type Toast struct {
	id       int
	kind     ToastKind
	message  string
	duration time.Duration
	visible  bool

	theme *styles.Theme
}

// toastCounter distinguishes expiry messages from superseded toasts.
var toastCounter int

// NewToast creates a hidden toast bound to a theme.
func NewToast(theme *styles.Theme) *Toast {
	return &Toast{
		duration: DefaultToastDuration,
		theme:    theme,
	}
}

// Show displays a message and returns the expiry command.
func (t *Toast) Show(kind ToastKind, message string) tea.Cmd {
	toastCounter++
	t.id = toastCounter
	t.kind = kind
	t.message = message
	t.visible = true

	id := t.id
	return tea.Tick(t.duration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Update dismisses the toast when its expiry message arrives. Expiry
// for a superseded toast is ignored.
func (t *Toast) Update(msg tea.Msg) {
	if expired, ok := msg.(ToastExpiredMsg); ok && expired.ID == t.id {
		t.visible = false
	}
}

// Visible reports whether the toast is showing.
func (t *Toast) Visible() bool {
	return t.visible
}

// View renders the toast.
func (t *Toast) View() string {
	if !t.visible {
		return ""
	}

	prefix := styles.StatusIndicators.Info
	style := t.theme.ToastInfo
	switch t.kind {
	case ToastSuccess:
		prefix = styles.StatusIndicators.Success
		style = t.theme.ToastSuccess
	case ToastError:
		prefix = styles.StatusIndicators.Error
		style = t.theme.ToastError
	}

	return style.Render(prefix + " " + t.message)
}
