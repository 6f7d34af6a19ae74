// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestMessageStreamingLifecycle(t *testing.T) {
	msg := NewAssistantMessage()
	if !msg.IsStreaming {
		t.Fatal("new assistant message should be streaming")
	}

	msg.AppendToken("Take a slow ")
	msg.AppendToken("breath.")
	if got := msg.GetDisplayContent(); got != "Take a slow breath." {
		t.Errorf("display content = %q", got)
	}
	if msg.Content != "" {
		t.Error("Content should stay empty until finalized")
	}

	stats := NewStatistics()
	stats.RecordFirstToken()
	stats.Finalize(4)
	msg.FinalizeStream(stats)

	if msg.IsStreaming {
		t.Error("message should not be streaming after finalize")
	}
	if msg.Content != "Take a slow breath." {
		t.Errorf("Content = %q", msg.Content)
	}
	if msg.TokenCount != 4 {
		t.Errorf("TokenCount = %d, want 4", msg.TokenCount)
	}

	// Appending after finalize is a no-op.
	msg.AppendToken("extra")
	if msg.GetDisplayContent() != "Take a slow breath." {
		t.Error("append after finalize should be ignored")
	}
}

func TestMessagePreview(t *testing.T) {
	msg := NewUserMessage(strings.Repeat("a", 100))
	preview := msg.Preview(20)
	if len([]rune(preview)) != 20 {
		t.Errorf("preview length = %d, want 20", len([]rune(preview)))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("preview %q should end with ellipsis", preview)
	}
}

func TestConversationTitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("session started")
	conv.AddUserMessage("I had trouble sleeping again last night")

	if conv.Title == "" {
		t.Fatal("title should be derived from first user message")
	}
	if !strings.HasPrefix(conv.Title, "I had trouble") {
		t.Errorf("title = %q", conv.Title)
	}

	// Title does not change once set.
	first := conv.Title
	conv.AddUserMessage("something else entirely")
	if conv.Title != first {
		t.Error("title should be stable after first assignment")
	}
}

func TestConversationPruning(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < MaxMessages+25; i++ {
		conv.AddUserMessage("m")
	}
	if got := conv.MessageCount(); got != MaxMessages {
		t.Errorf("message count = %d, want %d", got, MaxMessages)
	}
}

func TestConversationAppendToLast(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hi")
	conv.AppendToLast("ignored") // last message is not streaming

	asst := conv.AddAssistantMessage()
	conv.AppendToLast("hel")
	conv.AppendToLast("lo")
	if got := asst.GetDisplayContent(); got != "hello" {
		t.Errorf("streamed content = %q", got)
	}
}

func TestTransactionFormatting(t *testing.T) {
	credit := Transaction{Kind: TxnTopUp, AmountCents: 500}
	if !credit.IsCredit() {
		t.Error("topup should be a credit")
	}
	if got := credit.FormatAmount(); got != "+$5.00" {
		t.Errorf("FormatAmount = %q", got)
	}

	charge := Transaction{Kind: TxnUsage, AmountCents: -12}
	if charge.IsCredit() {
		t.Error("usage charge should not be a credit")
	}
	if got := charge.FormatAmount(); got != "-$0.12" {
		t.Errorf("FormatAmount = %q", got)
	}
}

func TestBehaviorMetricTrendArrow(t *testing.T) {
	cases := []struct {
		delta float64
		want  string
	}{
		{0.2, "+"},
		{-0.1, "-"},
		{0.0, "="},
		{0.001, "="},
	}
	for _, tc := range cases {
		m := BehaviorMetric{Delta: tc.delta}
		if got := m.TrendArrow(); got != tc.want {
			t.Errorf("TrendArrow(%v) = %q, want %q", tc.delta, got, tc.want)
		}
	}
}

func BenchmarkAppendToken(b *testing.B) {
	msg := NewAssistantMessage()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		msg.AppendToken("token ")
	}
}
