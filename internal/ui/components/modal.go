// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// =============================================================================
// MODAL COMPONENT - Alert and confirm dialogs
// =============================================================================

// ModalKind selects the dialog behavior.
type ModalKind int

const (
	// ModalAlert shows a message with a single OK button.
	ModalAlert ModalKind = iota
	// ModalConfirm shows a message with Confirm/Cancel buttons.
	ModalConfirm
)

// ModalResult is emitted as a tea.Msg when the modal closes.
type ModalResult struct {
	ID        string
	Confirmed bool
}

// Modal is a centered dialog overlay.
type Modal struct {
	ID      string
	Kind    ModalKind
	Title   string
	Body    string
	Width   int
	Visible bool

	// selected button: 0 = confirm/ok, 1 = cancel
	selected int

	theme *styles.Theme
}

// NewAlert creates an alert modal.
func NewAlert(id, title, body string, theme *styles.Theme) *Modal {
	return &Modal{
		ID:    id,
		Kind:  ModalAlert,
		Title: title,
		Body:  body,
		Width: 50,
		theme: theme,
	}
}

// NewConfirm creates a confirm modal. Cancel is preselected so a
// reflexive Enter never confirms a destructive action.
func NewConfirm(id, title, body string, theme *styles.Theme) *Modal {
	return &Modal{
		ID:       id,
		Kind:     ModalConfirm,
		Title:    title,
		Body:     body,
		Width:    50,
		selected: 1,
		theme:    theme,
	}
}

// Show makes the modal visible.
func (m *Modal) Show() {
	m.Visible = true
}

// Hide dismisses the modal.
func (m *Modal) Hide() {
	m.Visible = false
}

// Update handles key input while the modal is visible.
func (m *Modal) Update(msg tea.Msg) (handled bool, cmd tea.Cmd) {
	if !m.Visible {
		return false, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}

	switch keyMsg.String() {
	case "left", "right", "tab", "h", "l":
		if m.Kind == ModalConfirm {
			m.selected = 1 - m.selected
		}
		return true, nil
	case "enter":
		m.Visible = false
		confirmed := m.Kind == ModalAlert || m.selected == 0
		return true, m.resultCmd(confirmed)
	case "esc", "q":
		m.Visible = false
		return true, m.resultCmd(false)
	case "y":
		if m.Kind == ModalConfirm {
			m.Visible = false
			return true, m.resultCmd(true)
		}
	case "n":
		if m.Kind == ModalConfirm {
			m.Visible = false
			return true, m.resultCmd(false)
		}
	}
	return true, nil // swallow all keys while visible
}

func (m *Modal) resultCmd(confirmed bool) tea.Cmd {
	id := m.ID
	return func() tea.Msg {
		return ModalResult{ID: id, Confirmed: confirmed}
	}
}

// View renders the modal box.
func (m *Modal) View() string {
	if !m.Visible {
		return ""
	}

	title := m.theme.ModalTitle.Render(m.Title)
	body := m.theme.ModalBody.Render(wordWrap(m.Body, m.Width-6))

	var buttons string
	switch m.Kind {
	case ModalAlert:
		buttons = m.theme.ModalButtonActive.Render("OK")
	case ModalConfirm:
		confirm := m.theme.ModalButton.Render("Confirm")
		cancel := m.theme.ModalButton.Render("Cancel")
		if m.selected == 0 {
			confirm = m.theme.ModalButtonActive.Render("Confirm")
		} else {
			cancel = m.theme.ModalButtonActive.Render("Cancel")
		}
		buttons = confirm + cancel
	}

	content := strings.Join([]string{title, "", body, "", buttons}, "\n")

	return m.theme.ModalBox.
		Width(m.Width).
		Render(content)
}

// Overlay centers the modal over a background view.
func (m *Modal) Overlay(width, height int) string {
	if !m.Visible {
		return ""
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		m.View(),
		lipgloss.WithWhitespaceForeground(styles.OverlayDim))
}
