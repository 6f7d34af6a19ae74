// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Lavender - Primary accent, companion messages, selections
var Lavender = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#B4A7F5"}

// LavenderDeep - Darker lavender for backgrounds
var LavenderDeep = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#4C3D8F"}

// Teal - Brand color, interactive highlights, links
var Teal = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#5EEAD4"}

// TealDeep - Darker teal for backgrounds
var TealDeep = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#134E4A"}

// Sage - Success states, positive trends, credits
var Sage = lipgloss.AdaptiveColor{Light: "#4D7C0F", Dark: "#A3C585"}

// SageDeep - Darker sage for backgrounds
var SageDeep = lipgloss.AdaptiveColor{Light: "#3F6212", Dark: "#2B3B1F"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Coral - Errors, destructive actions, debits
var Coral = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F59B8C"}

// CoralDeep - Darker coral for backgrounds
var CoralDeep = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#6B2A24"}

// Sand - Warnings, pending states, locked surfaces
var Sand = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#E7C07A"}

// SandDeep - Darker sand for backgrounds
var SandDeep = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#54421F"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FDFCFA", Dark: "#1C1B22"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F4F2EE", Dark: "#16151B"}

// SurfaceBright - Raised surface for cards and highlights
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#2A2833"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E7E3DC", Dark: "#323040"}

// OverlayDim - Dimmer overlay for less prominent elements
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D6D1C8", Dark: "#45425A"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#2D2A33", Dark: "#E4E0EE"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B6575", Dark: "#ABA5BC"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9B95A6", Dark: "#6E687E"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1B22"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Teal tones
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#CCFBF1", Dark: "#115E59"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#115E59", Dark: "#CCFBF1"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#14B8A6", Dark: "#14B8A6"}

// Companion message bubble - Soft lavender tones (muted, not saturated)
var CompanionBubbleBg = lipgloss.AdaptiveColor{Light: "#F5F3FF", Dark: "#353048"}
var CompanionBubbleFg = lipgloss.AdaptiveColor{Light: "#55487D", Dark: "#EAE6F6"}
var CompanionBubbleBorder = lipgloss.AdaptiveColor{Light: "#C4B5FD", Dark: "#B4A7F5"}

// System notice bubble - Sand tones
var SystemBubbleBg = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#54421F"}
var SystemBubbleFg = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FEF3C7"}
var SystemBubbleBorder = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#F59E0B"}

// Tool activity - Sage for success, Coral for failure
var ToolSuccessBg = lipgloss.AdaptiveColor{Light: "#ECFCCB", Dark: "#2B3B1F"}
var ToolSuccessFg = lipgloss.AdaptiveColor{Light: "#3F6212", Dark: "#D9F99D"}
var ToolErrorBg = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#6B2A24"}
var ToolErrorFg = lipgloss.AdaptiveColor{Light: "#991B1B", Dark: "#FECACA"}

// =============================================================================
// MOOD TAG COLORS
// =============================================================================

// Mood tags the backend attaches to replies render as subtle badges.
// Unknown tags fall through to MoodNeutral.
var (
	MoodCalm       = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#5EEAD4"}
	MoodSupportive = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#B4A7F5"}
	MoodEnergizing = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#E7C07A"}
	MoodReflective = lipgloss.AdaptiveColor{Light: "#6B6575", Dark: "#ABA5BC"}
	MoodNeutral    = lipgloss.AdaptiveColor{Light: "#9B95A6", Dark: "#6E687E"}
)

// MoodColor maps a backend mood tag to its badge color.
func MoodColor(tag string) lipgloss.AdaptiveColor {
	switch tag {
	case "calm", "grounded":
		return MoodCalm
	case "supportive", "warm":
		return MoodSupportive
	case "energizing", "upbeat":
		return MoodEnergizing
	case "reflective", "thoughtful":
		return MoodReflective
	default:
		return MoodNeutral
	}
}

// =============================================================================
// SPECIAL EFFECTS
// =============================================================================

// Gradient start/end for header effects
var GradientStart = Lavender
var GradientEnd = Teal

// Focus ring color
var FocusRing = Teal

// Selection highlight
var SelectionBg = lipgloss.AdaptiveColor{Light: "#CCFBF1", Dark: "#1F3A37"}

// =============================================================================
// ACCESSIBILITY: Shapes and high contrast for colorblind users
// =============================================================================

// StatusIndicatorSet contains text/shape indicators for status states.
// These symbols provide visual cues beyond color for colorblind accessibility.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
	Active  string
}

// StatusIndicators provides accessible shape/text indicators alongside colors.
// ACCESSIBILITY: ASCII-only indicators for maximum compatibility and colorblind users.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
	Active:  "[*]",
}

// High contrast success - works for most color blindness types
var SuccessHighContrast = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}

// High contrast error - distinct from green even for colorblind users
var ErrorHighContrast = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}

// High contrast warning - deuteranopia-friendly amber
var WarningHighContrast = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}

// High contrast info - blue, distinct from the red/green spectrum
var InfoHighContrast = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}

// LinkColor - accessible link color with sufficient contrast
var LinkColor = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// =============================================================================
// ACCESSIBILITY: Helpers for rendering accessible status messages
// =============================================================================

// RenderSuccess renders a success message with shape indicator and high
// contrast green.
func RenderSuccess(message string) string {
	style := lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with shape indicator and high
// contrast red.
func RenderError(message string) string {
	style := lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with shape indicator and high
// contrast amber.
func RenderWarning(message string) string {
	style := lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info message with shape indicator and high
// contrast blue.
func RenderInfo(message string) string {
	style := lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Info + " " + message)
}

// RenderStatus renders a status message based on success/failure.
func RenderStatus(success bool, message string) string {
	if success {
		return RenderSuccess(message)
	}
	return RenderError(message)
}
