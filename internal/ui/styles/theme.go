// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects the light/dark palette.
type Mode string

const (
	// ModeAuto follows the terminal background.
	ModeAuto Mode = "auto"
	// ModeDark forces the dark palette.
	ModeDark Mode = "dark"
	// ModeLight forces the light palette.
	ModeLight Mode = "light"
)

// Theme holds every styled component for the application. Screens and
// components receive the theme as an explicit dependency; there is no
// package-level theme.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	CompanionBubble lipgloss.Style
	SystemBubble    lipgloss.Style
	ToolSuccess     lipgloss.Style
	ToolError       lipgloss.Style
	MoodTag         lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	CharCount        lipgloss.Style
	CharCountWarning lipgloss.Style
	CharCountDanger  lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar       lipgloss.Style
	SyncConnected   lipgloss.Style
	SyncOffline     lipgloss.Style
	PersonaBadge    lipgloss.Style
	ShortcutKey     lipgloss.Style
	ShortcutDesc    lipgloss.Style
	TabActive       lipgloss.Style
	TabInactive     lipgloss.Style

	// ==========================================================================
	// WALLET STYLES
	// ==========================================================================

	WalletCard         lipgloss.Style
	WalletBalance      lipgloss.Style
	WalletLabel        lipgloss.Style
	TransactionCredit  lipgloss.Style
	TransactionDebit   lipgloss.Style
	TransactionMeta    lipgloss.Style
	TransactionPending lipgloss.Style
	LockedNotice       lipgloss.Style

	// ==========================================================================
	// PROFILE AND INSIGHTS STYLES
	// ==========================================================================

	ProfileCard    lipgloss.Style
	ProfileLabel   lipgloss.Style
	ProfileValue   lipgloss.Style
	MetricName     lipgloss.Style
	MetricValue    lipgloss.Style
	TrendUp        lipgloss.Style
	TrendDown      lipgloss.Style
	TrendFlat      lipgloss.Style
	InsightSummary lipgloss.Style
	ChartBar       lipgloss.Style
	ChartAxis      lipgloss.Style

	// ==========================================================================
	// SETTINGS STYLES
	// ==========================================================================

	SettingsSection  lipgloss.Style
	SettingItem      lipgloss.Style
	SettingSelected  lipgloss.Style
	SettingValue     lipgloss.Style
	SettingHint      lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner        lipgloss.Style
	ThinkingText   lipgloss.Style
	ThinkingDots   lipgloss.Style
	ThinkingTime   lipgloss.Style
	ThinkingDetail lipgloss.Style

	// ==========================================================================
	// CODE BLOCK STYLES
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
	CodeLineNum   lipgloss.Style

	// ==========================================================================
	// MODAL AND TOAST STYLES
	// ==========================================================================

	ModalBox          lipgloss.Style
	ModalTitle        lipgloss.Style
	ModalBody         lipgloss.Style
	ModalButton       lipgloss.Style
	ModalButtonActive lipgloss.Style
	ToastInfo         lipgloss.Style
	ToastSuccess      lipgloss.Style
	ToastError        lipgloss.Style

	// ==========================================================================
	// ERROR BOX STYLES
	// ==========================================================================

	ErrorBox        lipgloss.Style
	ErrorTitle      lipgloss.Style
	ErrorMessage    lipgloss.Style
	ErrorSuggestion lipgloss.Style

	// ==========================================================================
	// CONVERSATION LIST STYLES
	// ==========================================================================

	SessionList         lipgloss.Style
	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionTitle        lipgloss.Style
	SessionMeta         lipgloss.Style

	// ==========================================================================
	// WELCOME SCREEN STYLES
	// ==========================================================================

	WelcomeBox      lipgloss.Style
	WelcomeLogo     lipgloss.Style
	WelcomeVersion  lipgloss.Style
	WelcomeInfo     lipgloss.Style
	WelcomePressKey lipgloss.Style

	// ==========================================================================
	// STATISTICS STYLES
	// ==========================================================================

	StatsBar   lipgloss.Style
	StatsLabel lipgloss.Style
	StatsValue lipgloss.Style

	// ==========================================================================
	// ACCESSIBILITY: Status indicator styles with shapes and high contrast
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	LinkStyle    lipgloss.Style
}

// NewTheme creates a theme for the given mode. ModeAuto detects the
// terminal background; ModeDark and ModeLight force the palette.
func NewTheme(mode Mode) *Theme {
	colorProfile := termenv.ColorProfile()

	isDark := termenv.HasDarkBackground()
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal).
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Lavender).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Lavender)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.CompanionBubble = lipgloss.NewStyle().
		Foreground(CompanionBubbleFg).
		Background(CompanionBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(CompanionBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Background(SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(SystemBubbleBorder).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.ToolSuccess = lipgloss.NewStyle().
		Foreground(ToolSuccessFg).
		Background(ToolSuccessBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Sage).
		BorderLeft(true).
		PaddingLeft(2)

	t.ToolError = lipgloss.NewStyle().
		Foreground(ToolErrorFg).
		Background(ToolErrorBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Coral).
		BorderLeft(true).
		PaddingLeft(2)

	t.MoodTag = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Right)

	t.CharCountWarning = lipgloss.NewStyle().
		Foreground(Sand).
		Align(lipgloss.Right)

	t.CharCountDanger = lipgloss.NewStyle().
		Foreground(Coral).
		Align(lipgloss.Right)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.SyncConnected = lipgloss.NewStyle().
		Foreground(Sage).
		Bold(true)

	t.SyncOffline = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.PersonaBadge = lipgloss.NewStyle().
		Foreground(Lavender).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.TabActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Lavender).
		Bold(true).
		Padding(0, 2)

	t.TabInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	// Wallet
	t.WalletCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Background(SurfaceBright).
		Padding(1, 3)

	t.WalletBalance = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.WalletLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.TransactionCredit = lipgloss.NewStyle().
		Foreground(Sage).
		Bold(true)

	t.TransactionDebit = lipgloss.NewStyle().
		Foreground(Coral)

	t.TransactionMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.TransactionPending = lipgloss.NewStyle().
		Foreground(Sand).
		Italic(true)

	t.LockedNotice = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Sand).
		Foreground(Sand).
		Padding(1, 2).
		Align(lipgloss.Center)

	// Profile and insights
	t.ProfileCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Lavender).
		Padding(1, 2)

	t.ProfileLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(14)

	t.ProfileValue = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.MetricName = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(18)

	t.MetricValue = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.TrendUp = lipgloss.NewStyle().
		Foreground(Sage).
		Bold(true)

	t.TrendDown = lipgloss.NewStyle().
		Foreground(Coral).
		Bold(true)

	t.TrendFlat = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.InsightSummary = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Italic(true).
		Padding(0, 1)

	t.ChartBar = lipgloss.NewStyle().
		Foreground(Lavender)

	t.ChartAxis = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Settings
	t.SettingsSection = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true).
		MarginTop(1)

	t.SettingItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.SettingSelected = lipgloss.NewStyle().
		Background(Lavender).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SettingValue = lipgloss.NewStyle().
		Foreground(Teal)

	t.SettingHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Lavender)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ThinkingDots = lipgloss.NewStyle().
		Foreground(Lavender)

	t.ThinkingTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ThinkingDetail = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(2)

	// Code blocks
	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1).
		Bold(true)

	t.CodeLineNum = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	// Modals and toasts
	t.ModalBox = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Lavender).
		Padding(1, 2)

	t.ModalTitle = lipgloss.NewStyle().
		Foreground(Lavender).
		Bold(true)

	t.ModalBody = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ModalButton = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Overlay).
		Padding(0, 2).
		MarginRight(1)

	t.ModalButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Lavender).
		Bold(true).
		Padding(0, 2).
		MarginRight(1)

	t.ToastInfo = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 2)

	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Sage).
		Padding(0, 2)

	t.ToastError = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Coral).
		Padding(0, 2)

	// Error boxes
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Coral).
		Background(CoralDeep).
		Padding(1, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Coral).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ErrorSuggestion = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(2)

	// Conversation list
	t.SessionList = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Lavender).
		Padding(1, 2)

	t.SessionItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.SessionItemSelected = lipgloss.NewStyle().
		Background(Lavender).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SessionTitle = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.SessionMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Welcome screen
	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Lavender).
		Padding(2, 4).
		Align(lipgloss.Center)

	t.WelcomeLogo = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.WelcomeVersion = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.WelcomePressKey = lipgloss.NewStyle().
		Foreground(Lavender).
		Blink(true)

	// Statistics
	t.StatsBar = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.StatsLabel = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatsValue = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	// ACCESSIBILITY: status styles pair with StatusIndicators shapes.
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}
