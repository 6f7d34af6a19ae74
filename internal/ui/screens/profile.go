// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/solace-tui/internal/api"
	"github.com/jeranaias/solace-tui/internal/ui/components"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// fetchTimeout bounds screen fetches.
const fetchTimeout = 15 * time.Second

// =============================================================================
// PROFILE SCREEN
// =============================================================================

// Profile shows the server-owned profile record. Display name edits go
// through the API and the updated record comes back on the response.
type Profile struct {
	theme  *styles.Theme
	client *api.Client

	profile *ProfileLoadedMsg

	spinner components.Spinner
	loading bool
	editing bool
	err     error

	nameInput textinput.Model

	width  int
	height int
}

// NewProfile creates the profile screen.
func NewProfile(theme *styles.Theme, client *api.Client) *Profile {
	name := textinput.New()
	name.Placeholder = "display name"
	name.CharLimit = 64

	return &Profile{
		theme:     theme,
		client:    client,
		spinner:   components.NewRefreshSpinner(),
		nameInput: name,
	}
}

// SetSize resizes the screen.
func (p *Profile) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Focus fetches fresh data when the tab gains focus.
func (p *Profile) Focus() tea.Cmd {
	return p.Refresh()
}

// Refresh fetches the profile record.
func (p *Profile) Refresh() tea.Cmd {
	if p.loading || p.client == nil {
		return nil
	}
	p.loading = true
	p.err = nil
	client := p.client

	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		prof, err := client.Profile(ctx)
		if err != nil {
			return FetchErrorMsg{Screen: "profile", Err: err}
		}
		return ProfileLoadedMsg{Profile: prof}
	}
	return tea.Batch(p.spinner.Start(), fetch)
}

// saveName submits the edited display name.
func (p *Profile) saveName(name string) tea.Cmd {
	client := p.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		prof, err := client.UpdateProfile(ctx, api.ProfileUpdate{DisplayName: name})
		if err != nil {
			return FetchErrorMsg{Screen: "profile", Err: err}
		}
		return ProfileLoadedMsg{Profile: prof}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles profile screen messages.
func (p *Profile) Update(msg tea.Msg) (*Profile, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if p.editing {
			switch msg.String() {
			case "enter":
				p.editing = false
				name := strings.TrimSpace(p.nameInput.Value())
				if name == "" || p.profile == nil || name == p.profile.Profile.DisplayName {
					return p, nil
				}
				return p, p.saveName(name)
			case "esc":
				p.editing = false
				return p, nil
			}
			var cmd tea.Cmd
			p.nameInput, cmd = p.nameInput.Update(msg)
			return p, cmd
		}

		switch msg.String() {
		case "r":
			return p, p.Refresh()
		case "e":
			if p.profile != nil {
				p.editing = true
				p.nameInput.SetValue(p.profile.Profile.DisplayName)
				return p, p.nameInput.Focus()
			}
		}

	case ProfileLoadedMsg:
		p.loading = false
		p.spinner.Stop()
		p.profile = &msg
		return p, nil

	case FetchErrorMsg:
		if msg.Screen == "profile" {
			p.loading = false
			p.spinner.Stop()
			p.err = msg.Err
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return p, cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the profile screen.
func (p *Profile) View() string {
	if p.loading && p.profile == nil {
		return lipgloss.NewStyle().Padding(2).Render(p.spinner.View())
	}
	if p.err != nil && p.profile == nil {
		return p.theme.ErrorBox.Width(p.width - 2).Render(
			styles.RenderError("Could not load profile") + "\n" +
				p.theme.ErrorMessage.Render(p.err.Error()) + "\n" +
				p.theme.ErrorSuggestion.Render("r to retry"))
	}
	if p.profile == nil {
		return p.theme.ProfileLabel.Render("No profile data yet. Press r to refresh.")
	}

	prof := p.profile.Profile

	var b strings.Builder
	if p.editing {
		b.WriteString(p.theme.ProfileLabel.Render("Display name: "))
		b.WriteString(p.nameInput.View())
		b.WriteString("\n")
		b.WriteString(p.theme.SettingHint.Render("enter save | esc cancel"))
	} else {
		b.WriteString(p.theme.ProfileValue.Render(prof.DisplayName))
		b.WriteString("\n")
		b.WriteString(p.theme.ProfileLabel.Render(prof.Email))
	}
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Plan", prof.Tier},
		{"Persona", prof.Persona},
		{"Member since", prof.JoinedAt.Format("January 2006")},
		{"Check-in streak", fmt.Sprintf("%d days", prof.CheckInStreak)},
		{"Sessions", fmt.Sprintf("%d", prof.SessionCount)},
	}
	for _, row := range rows {
		b.WriteString(p.theme.ProfileLabel.Width(18).Render(row.label))
		b.WriteString(p.theme.ProfileValue.Render(row.value))
		b.WriteString("\n")
	}

	if prof.CheckInStreak > 0 {
		b.WriteString("\n")
		b.WriteString(styles.RenderSuccess(
			fmt.Sprintf("You've checked in %d days in a row.", prof.CheckInStreak)))
	}

	b.WriteString("\n\n")
	b.WriteString(p.theme.SettingHint.Render("e edit name | r refresh"))
	if p.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.RenderWarning("last refresh failed: " + p.err.Error()))
	}

	return p.theme.ProfileCard.Width(minWidth(p.width-2, 60)).Render(b.String())
}
