// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// =============================================================================
// SETTINGS SCREEN
// =============================================================================

// settingItem is one editable row.
type settingItem struct {
	label string
	hint  string

	// value renders the current state; change advances it. change
	// reports whether the theme must be rebuilt.
	value  func(cfg *config.Config) string
	change func(cfg *config.Config, forward bool) (themeChanged bool)
}

// Settings edits preferences in place and writes them back to the
// config file on every change.
type Settings struct {
	theme *styles.Theme
	cfg   *config.Config

	items  []settingItem
	cursor int
	status string

	width  int
	height int
}

// NewSettings creates the settings screen.
func NewSettings(theme *styles.Theme, cfg *config.Config) *Settings {
	return &Settings{
		theme: theme,
		cfg:   cfg,
		items: settingItems(),
	}
}

// settingItems builds the editable rows.
func settingItems() []settingItem {
	return []settingItem{
		{
			label: "Theme",
			hint:  "terminal colors",
			value: func(cfg *config.Config) string { return cfg.UI.Theme },
			change: func(cfg *config.Config, forward bool) bool {
				cfg.UI.Theme = cycle(cfg.UI.Theme, []string{"auto", "dark", "light"}, forward)
				return true
			},
		},
		{
			label: "Persona",
			hint:  "companion voice",
			value: func(cfg *config.Config) string { return cfg.Chat.Persona },
			change: func(cfg *config.Config, forward bool) bool {
				cfg.Chat.Persona = cycle(cfg.Chat.Persona,
					[]string{"companion", "coach", "listener"}, forward)
				return false
			},
		},
		{
			label: "Timestamps",
			hint:  "show message times",
			value: func(cfg *config.Config) string { return onOff(cfg.UI.ShowTimestamps) },
			change: func(cfg *config.Config, forward bool) bool {
				cfg.UI.ShowTimestamps = !cfg.UI.ShowTimestamps
				return false
			},
		},
		{
			label: "Reply stats",
			hint:  "tok/s line under replies",
			value: func(cfg *config.Config) string { return onOff(cfg.UI.ShowStats) },
			change: func(cfg *config.Config, forward bool) bool {
				cfg.UI.ShowStats = !cfg.UI.ShowStats
				return false
			},
		},
		{
			label: "Mood tags",
			hint:  "mood annotation on replies",
			value: func(cfg *config.Config) string { return onOff(cfg.UI.ShowMoodTags) },
			change: func(cfg *config.Config, forward bool) bool {
				cfg.UI.ShowMoodTags = !cfg.UI.ShowMoodTags
				return false
			},
		},
		{
			label: "Compact mode",
			hint:  "tighter layout for narrow terminals",
			value: func(cfg *config.Config) string { return onOff(cfg.UI.CompactMode) },
			change: func(cfg *config.Config, forward bool) bool {
				cfg.UI.CompactMode = !cfg.UI.CompactMode
				return false
			},
		},
		{
			label: "Background sync",
			hint:  "live wallet/profile updates",
			value: func(cfg *config.Config) string { return onOff(cfg.Sync.Enabled) },
			change: func(cfg *config.Config, forward bool) bool {
				cfg.Sync.Enabled = !cfg.Sync.Enabled
				return false
			},
		},
		{
			label: "Offline cache",
			hint:  "keep conversations on this device",
			value: func(cfg *config.Config) string { return onOff(cfg.Storage.Enabled) },
			change: func(cfg *config.Config, forward bool) bool {
				cfg.Storage.Enabled = !cfg.Storage.Enabled
				return false
			},
		},
		{
			label: "Wallet lock",
			hint:  "require passphrase on the wallet tab",
			value: func(cfg *config.Config) string { return onOff(cfg.Lock.Enabled) },
			change: func(cfg *config.Config, forward bool) bool {
				cfg.Lock.Enabled = !cfg.Lock.Enabled
				return false
			},
		},
	}
}

// SetSize resizes the screen.
func (s *Settings) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Focus clears transient status when the tab gains focus.
func (s *Settings) Focus() tea.Cmd {
	s.status = ""
	return nil
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles settings screen messages.
func (s *Settings) Update(msg tea.Msg) (*Settings, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.items)-1 {
			s.cursor++
		}
	case "enter", " ", "right", "l":
		return s, s.applyChange(true)
	case "left", "h":
		return s, s.applyChange(false)
	}
	return s, nil
}

// applyChange advances the selected item and persists the config.
func (s *Settings) applyChange(forward bool) tea.Cmd {
	item := s.items[s.cursor]
	themeChanged := item.change(s.cfg, forward)

	cfg := s.cfg
	return func() tea.Msg {
		err := cfg.Save()
		return SettingsSavedMsg{ThemeChanged: themeChanged, Err: err}
	}
}

// Saved records the outcome of the config write for display.
func (s *Settings) Saved(msg SettingsSavedMsg) {
	if msg.Err != nil {
		s.status = styles.RenderError("save failed: " + msg.Err.Error())
		return
	}
	s.status = styles.RenderSuccess("saved")
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the settings screen.
func (s *Settings) View() string {
	var b strings.Builder
	b.WriteString(s.theme.SettingsSection.Render("Preferences"))
	b.WriteString("\n\n")

	for i, item := range s.items {
		style := s.theme.SettingItem
		prefix := "  "
		if i == s.cursor {
			style = s.theme.SettingSelected
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s %s",
			prefix,
			style.Width(18).Render(item.label),
			s.theme.SettingValue.Render(item.value(s.cfg)))
		if i == s.cursor {
			line += "  " + s.theme.SettingHint.Render(item.hint)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.theme.SettingHint.Render("enter/space change | arrows navigate"))
	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(s.status)
	}
	return b.String()
}

// =============================================================================
// HELPERS
// =============================================================================

func cycle(current string, options []string, forward bool) string {
	for i, opt := range options {
		if opt == current {
			if forward {
				return options[(i+1)%len(options)]
			}
			return options[(i+len(options)-1)%len(options)]
		}
	}
	return options[0]
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
