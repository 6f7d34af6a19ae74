// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jeranaias/solace-tui/internal/model"
)

func openTestStore(t *testing.T) *ConversationStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache", "solace.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	conv := model.NewConversation()
	conv.Persona = "companion"
	conv.AddUserMessage("I had a rough day at work")
	reply := conv.AddAssistantMessage()
	reply.AppendToken("That sounds hard. Want to talk about it?")
	reply.FinalizeStream(nil)
	reply.MoodTag = "supportive"

	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Title != conv.Title {
		t.Errorf("title = %q, want %q", got.Title, conv.Title)
	}
	if got.Persona != "companion" {
		t.Errorf("persona = %q, want companion", got.Persona)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != model.RoleUser {
		t.Errorf("first role = %q, want user", got.Messages[0].Role)
	}
	if got.Messages[1].Content != "That sounds hard. Want to talk about it?" {
		t.Errorf("assistant content = %q", got.Messages[1].Content)
	}
	if got.Messages[1].MoodTag != "supportive" {
		t.Errorf("mood tag = %q, want supportive", got.Messages[1].MoodTag)
	}
}

func TestSaveSkipsStreamingMessages(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	conv := model.NewConversation()
	conv.AddUserMessage("hello")
	conv.AddAssistantMessage() // still streaming

	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Messages) != 1 {
		t.Errorf("message count = %d, want 1 (streaming message dropped)", len(got.Messages))
	}
}

func TestSaveIsUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	conv := model.NewConversation()
	conv.AddUserMessage("first")
	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	conv.AddUserMessage("second")
	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Load(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Errorf("message count = %d, want 2", len(got.Messages))
	}

	metas, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 1 {
		t.Errorf("conversation count = %d, want 1", len(metas))
	}
}

func TestLoadNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Load(context.Background(), "missing")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestListOrderAndPreview(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := model.NewConversation()
	first.AddUserMessage("talk about sleep")
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := model.NewConversation()
	second.AddUserMessage("talk about exercise")
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	metas, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("conversation count = %d, want 2", len(metas))
	}
	// Most recent first.
	if metas[0].ID != second.ID {
		t.Errorf("first listed = %s, want %s", metas[0].ID, second.ID)
	}
	if metas[0].Preview != "talk about exercise" {
		t.Errorf("preview = %q", metas[0].Preview)
	}
	if metas[0].MessageCount != 1 {
		t.Errorf("message count = %d, want 1", metas[0].MessageCount)
	}
}

func TestMostRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.MostRecent(ctx); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("empty cache err = %v, want ErrConversationNotFound", err)
	}

	conv := model.NewConversation()
	conv.AddUserMessage("hello")
	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.MostRecent(ctx)
	if err != nil {
		t.Fatalf("MostRecent failed: %v", err)
	}
	if got.ID != conv.ID {
		t.Errorf("ID = %s, want %s", got.ID, conv.ID)
	}
}

func TestSearch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	conv := model.NewConversation()
	conv.AddUserMessage("Trouble sleeping lately")
	reply := conv.AddAssistantMessage()
	reply.AppendToken("A wind-down routine can help with insomnia.")
	reply.FinalizeStream(nil)
	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	other := model.NewConversation()
	other.AddUserMessage("Budgeting advice")
	if err := store.Save(ctx, other); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Case-insensitive title match.
	results, err := store.Search(ctx, "SLEEPING")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != conv.ID {
		t.Errorf("title search returned %d results", len(results))
	}

	// Match inside assistant message content.
	results, err = store.Search(ctx, "insomnia")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != conv.ID {
		t.Errorf("content search returned %d results", len(results))
	}

	// Empty query returns everything.
	results, err = store.Search(ctx, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("empty search returned %d results, want 2", len(results))
	}
}

func TestDeleteAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	conv := model.NewConversation()
	conv.AddUserMessage("hello")
	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(ctx, conv.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, conv.ID); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("second delete err = %v, want ErrConversationNotFound", err)
	}

	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("re-Save failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	metas, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("conversation count after clear = %d, want 0", len(metas))
	}
}

func TestEvictionKeepsMostRecent(t *testing.T) {
	store := openTestStore(t)
	store.MaxConversations = 3
	ctx := context.Background()

	var last *model.Conversation
	for i := 0; i < 5; i++ {
		conv := model.NewConversation()
		conv.AddUserMessage(fmt.Sprintf("conversation %d", i))
		if err := store.Save(ctx, conv); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		last = conv
	}

	metas, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("conversation count = %d, want 3", len(metas))
	}
	if metas[0].ID != last.ID {
		t.Errorf("most recent conversation was evicted")
	}
}

func TestEvictionFailureDoesNotBreakStore(t *testing.T) {
	store := openTestStore(t)
	store.MaxConversations = 1

	// A canceled context makes the eviction statement fail; the store
	// must stay usable and later saves must still succeed.
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	store.enforceLimit(canceled)

	ctx := context.Background()
	conv := model.NewConversation()
	conv.AddUserMessage("still here")
	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("Save after failed eviction: %v", err)
	}
	if _, err := store.Load(ctx, conv.ID); err != nil {
		t.Fatalf("Load after failed eviction: %v", err)
	}
}
