// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import "github.com/jeranaias/solace-tui/internal/model"

// =============================================================================
// SCREEN MESSAGES
// =============================================================================

// WalletLoadedMsg carries the wallet screen payload.
type WalletLoadedMsg struct {
	Balance      *model.WalletBalance
	Transactions []model.Transaction
}

// ProfileLoadedMsg carries the profile screen payload.
type ProfileLoadedMsg struct {
	Profile *model.UserProfile
}

// InsightsLoadedMsg carries the insights screen payload.
type InsightsLoadedMsg struct {
	Report *model.InsightReport
	Window string
}

// FetchErrorMsg reports a failed screen fetch.
type FetchErrorMsg struct {
	Screen string
	Err    error
}

// UnlockedMsg signals the wallet app lock opened.
type UnlockedMsg struct{}

// SettingsSavedMsg confirms preferences were written to disk. The
// parent rebuilds the theme when ThemeChanged is set.
type SettingsSavedMsg struct {
	ThemeChanged bool
	Err          error
}
