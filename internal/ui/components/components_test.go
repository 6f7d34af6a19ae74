// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/solace-tui/internal/chat"
	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/tools"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme(styles.ModeDark)
}

// =============================================================================
// HELPERS
// =============================================================================

func TestWordWrap(t *testing.T) {
	wrapped := wordWrap("the quick brown fox jumps over the lazy dog", 10)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width 10", line)
		}
	}

	// Existing newlines are preserved
	wrapped = wordWrap("one\ntwo", 80)
	if wrapped != "one\ntwo" {
		t.Errorf("wordWrap altered newlines: %q", wrapped)
	}

	// Zero width is a no-op
	if wordWrap("hello", 0) != "hello" {
		t.Error("zero width should return input unchanged")
	}
}

func TestMaxLineWidth(t *testing.T) {
	if got := maxLineWidth("ab\nabcd\na"); got != 4 {
		t.Errorf("maxLineWidth = %d, want 4", got)
	}
}

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

func TestMessageBubbleRoles(t *testing.T) {
	theme := testTheme()

	user := NewMessageBubble(model.NewUserMessage("hello there"), theme)
	if !strings.Contains(user.View(), "hello there") {
		t.Error("user bubble should contain the message content")
	}

	sys := NewMessageBubble(model.NewSystemMessage("reconnected"), theme)
	if !strings.Contains(sys.View(), "reconnected") {
		t.Error("system bubble should contain the message content")
	}

	tool := NewMessageBubble(model.NewToolMessage("mood_check", "logged", true), theme)
	view := tool.View()
	if !strings.Contains(view, "logged") {
		t.Error("tool bubble should contain the result")
	}
	if !strings.Contains(view, "[OK]") {
		t.Error("successful tool bubble should carry the [OK] indicator")
	}

	failed := NewMessageBubble(model.NewToolMessage("web_search", "timeout", false), theme)
	if !strings.Contains(failed.View(), "[X]") {
		t.Error("failed tool bubble should carry the [X] indicator")
	}
}

func TestMessageBubbleNilMessage(t *testing.T) {
	// Must not panic
	b := NewMessageBubble(nil, testTheme())
	_ = b.View()
}

func TestCompanionBubbleMoodTag(t *testing.T) {
	msg := model.NewAssistantMessage()
	msg.AppendToken("Take a slow breath with me.")
	msg.FinalizeStream(nil)
	msg.MoodTag = "calm"

	b := NewMessageBubble(msg, testTheme())
	if !strings.Contains(b.View(), "calm") {
		t.Error("finished companion bubble should show its mood tag")
	}

	b.ShowMoodTag = false
	if strings.Contains(b.View(), "~ calm") {
		t.Error("mood tag should be hidden when disabled")
	}
}

func TestMessageListEmptyState(t *testing.T) {
	ml := NewMessageList(testTheme())
	if !strings.Contains(ml.View(), "yours") {
		t.Error("empty list should render the invitation text")
	}

	ml.SetMessages([]*model.Message{model.NewUserMessage("hi")})
	if !strings.Contains(ml.View(), "hi") {
		t.Error("list should render its messages")
	}
}

// =============================================================================
// HEADER AND STATUS BAR
// =============================================================================

func TestHeaderTabs(t *testing.T) {
	theme := testTheme()
	theme.SetSize(100, 30)

	h := NewHeader(theme)
	h.SetWidth(100)
	h.SetActiveTab(TabWallet)

	view := h.View()
	if !strings.Contains(view, "solace") {
		t.Error("header should contain the brand")
	}
	for _, label := range []string{"Chat", "Wallet", "Profile", "Insights", "Settings"} {
		if !strings.Contains(view, label) {
			t.Errorf("header should list the %s tab", label)
		}
	}
}

func TestTabLabel(t *testing.T) {
	if TabChat.Label() != "Chat" {
		t.Errorf("TabChat label = %q", TabChat.Label())
	}
	if Tab(99).Label() != "?" {
		t.Error("out-of-range tab should render ?")
	}
}

func TestStatusBar(t *testing.T) {
	theme := testTheme()
	theme.SetSize(100, 30)

	sb := NewStatusBar(theme)
	sb.SetWidth(100)
	sb.Persona = "companion"
	sb.SetConnected(true)
	sb.SetBalance(&model.WalletBalance{CreditsCents: 1250})
	sb.SetShortcuts([]Shortcut{{Key: "tab", Desc: "switch"}, {Key: "q", Desc: "quit"}})

	view := sb.View()
	if !strings.Contains(view, "companion") {
		t.Error("status bar should show the persona")
	}
	if !strings.Contains(view, "live") {
		t.Error("connected status bar should show live indicator")
	}
	if !strings.Contains(view, "$12.50") {
		t.Errorf("status bar should show the balance, got %q", view)
	}

	sb.SetConnected(false)
	if !strings.Contains(sb.View(), "offline") {
		t.Error("disconnected status bar should show offline indicator")
	}
}

// =============================================================================
// MODAL
// =============================================================================

func TestConfirmModalDefaultsToCancel(t *testing.T) {
	m := NewConfirm("clear", "Clear conversation?", "This cannot be undone.", testTheme())
	m.Show()

	handled, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !handled {
		t.Fatal("visible modal should handle keys")
	}
	if cmd == nil {
		t.Fatal("enter should emit a result")
	}
	res, ok := cmd().(ModalResult)
	if !ok {
		t.Fatal("result should be a ModalResult")
	}
	if res.Confirmed {
		t.Error("enter on the default selection should cancel")
	}
	if m.Visible {
		t.Error("modal should hide after a result")
	}
}

func TestConfirmModalYesKey(t *testing.T) {
	m := NewConfirm("logout", "Log out?", "", testTheme())
	m.Show()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	res := cmd().(ModalResult)
	if !res.Confirmed {
		t.Error("'y' should confirm")
	}
	if res.ID != "logout" {
		t.Errorf("result ID = %q", res.ID)
	}
}

func TestModalHiddenIgnoresKeys(t *testing.T) {
	m := NewAlert("info", "Heads up", "body", testTheme())
	handled, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if handled {
		t.Error("hidden modal should not handle keys")
	}
}

// =============================================================================
// TOAST
// =============================================================================

func TestToastLifecycle(t *testing.T) {
	toast := NewToast(testTheme())
	if toast.Visible() {
		t.Error("new toast should be hidden")
	}

	cmd := toast.Show(ToastSuccess, "saved")
	if !toast.Visible() {
		t.Error("toast should be visible after Show")
	}
	if !strings.Contains(toast.View(), "saved") {
		t.Error("toast should render its message")
	}
	if !strings.Contains(toast.View(), "[OK]") {
		t.Error("success toast should carry the [OK] indicator")
	}

	// The expiry message dismisses it.
	expired := cmd == nil
	if expired {
		t.Fatal("Show should schedule expiry")
	}
	firstID := ToastExpiredMsg{ID: 0}
	_ = firstID

	// Superseding toast: stale expiry must not dismiss the new one.
	toast.Show(ToastError, "failed")
	toast.Update(ToastExpiredMsg{ID: toastCounter - 1})
	if !toast.Visible() {
		t.Error("stale expiry should not dismiss the current toast")
	}
	toast.Update(ToastExpiredMsg{ID: toastCounter})
	if toast.Visible() {
		t.Error("matching expiry should dismiss the toast")
	}
}

// =============================================================================
// TOOL STATUS
// =============================================================================

func TestToolStatusView(t *testing.T) {
	tracker := tools.NewTracker()
	tracker.Apply(chat.ToolEvent{ID: "t1", Name: "mood_check", Status: "running"})
	tracker.Apply(chat.ToolEvent{ID: "t2", Name: "web_search", Status: "queued"})

	ts := NewToolStatus(tracker, testTheme())
	view := ts.View()
	if !strings.Contains(view, "Mood check") {
		t.Error("tool status should show friendly names")
	}
	if !strings.Contains(view, "[~]") {
		t.Error("running tool should show the [~] icon")
	}

	if ts.SummaryView() == "" {
		t.Error("summary should be non-empty while tools run")
	}

	tracker.Reset()
	if ts.View() != "" {
		t.Error("empty tracker should render nothing")
	}
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

func TestParseCodeBlocks(t *testing.T) {
	text := "intro\n```go\nfmt.Println(\"hi\")\n```\noutro"
	out := ParseCodeBlocks(text, 80)
	if !strings.Contains(out, "intro") || !strings.Contains(out, "outro") {
		t.Error("surrounding text should survive")
	}
	if !strings.Contains(out, "go") {
		t.Error("language badge should render")
	}
}

func TestParseInlineCode(t *testing.T) {
	out := ParseInlineCode("try `solace --reset` now")
	if !strings.Contains(out, "solace --reset") {
		t.Error("inline code content should survive")
	}

	// Unclosed backtick stays literal
	out = ParseInlineCode("stray ` tick")
	if !strings.Contains(out, "`") {
		t.Error("unclosed backtick should stay literal")
	}
}
