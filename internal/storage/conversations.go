// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/util"
)

// ErrConversationNotFound is returned when a conversation doesn't exist.
var ErrConversationNotFound = errors.New("conversation not found")

// DefaultMaxConversations is the cache eviction threshold.
const DefaultMaxConversations = 100

// schema is applied on open. Messages cascade with their conversation.
const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	persona     TEXT NOT NULL DEFAULT '',
	tokens_used INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	seq             INTEGER NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	timestamp       TIMESTAMP NOT NULL,
	token_count     INTEGER NOT NULL DEFAULT 0,
	tool_name       TEXT NOT NULL DEFAULT '',
	tool_result     TEXT NOT NULL DEFAULT '',
	is_success      INTEGER NOT NULL DEFAULT 0,
	mood_tag        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
	ON messages(conversation_id, seq);
CREATE INDEX IF NOT EXISTS idx_conversations_updated
	ON conversations(updated_at);
`

// ConversationMeta contains metadata for listing conversations.
type ConversationMeta struct {
	ID           string
	Title        string
	Persona      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
	Preview      string
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore caches conversations in a local SQLite database.
type ConversationStore struct {
	db *sql.DB

	// MaxConversations limits cached conversations (0 = unlimited).
	MaxConversations int
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*ConversationStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &ConversationStore{
		db:               db,
		MaxConversations: DefaultMaxConversations,
	}, nil
}

// Close closes the underlying database.
func (s *ConversationStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save upserts a conversation and all of its messages.
func (s *ConversationStore) Save(ctx context.Context, conv *model.Conversation) error {
	if conv.ID == "" {
		return errors.New("conversation has no ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	createdAt := conv.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversations (id, title, persona, tokens_used, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			persona = excluded.persona,
			tokens_used = excluded.tokens_used,
			updated_at = excluded.updated_at`,
		conv.ID, conv.Title, conv.Persona, conv.TokensUsed, createdAt, now)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	// Rewrite the message set wholesale. History is small (pruned at
	// model.MaxMessages) and this keeps pruning and edits simple.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE conversation_id = ?`, conv.ID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (id, conversation_id, seq, role, content, timestamp,
			token_count, tool_name, tool_result, is_success, mood_tag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range conv.Messages {
		// Streaming messages are transient UI state.
		if msg.IsStreaming {
			continue
		}
		_, err := stmt.ExecContext(ctx, msg.ID, conv.ID, i, string(msg.Role),
			msg.Content, msg.Timestamp, msg.TokenCount,
			msg.ToolName, msg.ToolResult, msg.IsSuccess, msg.MoodTag)
		if err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	if s.MaxConversations > 0 {
		s.enforceLimit(ctx)
	}
	return nil
}

// enforceLimit evicts the oldest conversations beyond MaxConversations.
// A failed eviction leaves extra rows behind but never fails the save
// that triggered it.
func (s *ConversationStore) enforceLimit(ctx context.Context) {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM conversations WHERE id IN (
			SELECT id FROM conversations
			ORDER BY updated_at DESC
			LIMIT -1 OFFSET ?
		)`, s.MaxConversations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache eviction failed: %v\n", err)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a conversation with its messages by ID.
func (s *ConversationStore) Load(ctx context.Context, id string) (*model.Conversation, error) {
	conv := &model.Conversation{ID: id}

	err := s.db.QueryRowContext(ctx, `
		SELECT title, persona, tokens_used, created_at, updated_at
		FROM conversations WHERE id = ?`, id).
		Scan(&conv.Title, &conv.Persona, &conv.TokensUsed, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, timestamp, token_count,
			tool_name, tool_result, is_success, mood_tag
		FROM messages WHERE conversation_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg model.Message
		var role string
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &msg.Timestamp,
			&msg.TokenCount, &msg.ToolName, &msg.ToolResult,
			&msg.IsSuccess, &msg.MoodTag); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = model.Role(role)
		conv.Messages = append(conv.Messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return conv, nil
}

// MostRecent returns the most recently updated conversation, or
// ErrConversationNotFound when the cache is empty.
func (s *ConversationStore) MostRecent(ctx context.Context) (*model.Conversation, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM conversations ORDER BY updated_at DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recent conversation: %w", err)
	}
	return s.Load(ctx, id)
}

// =============================================================================
// LIST AND SEARCH
// =============================================================================

// List returns metadata for all cached conversations, most recent first.
func (s *ConversationStore) List(ctx context.Context) ([]ConversationMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, c.persona, c.created_at, c.updated_at,
			COUNT(m.id),
			COALESCE((
				SELECT content FROM messages
				WHERE conversation_id = c.id AND role = 'user'
				ORDER BY seq LIMIT 1
			), '')
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id
		ORDER BY c.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var metas []ConversationMeta
	for rows.Next() {
		var meta ConversationMeta
		if err := rows.Scan(&meta.ID, &meta.Title, &meta.Persona,
			&meta.CreatedAt, &meta.UpdatedAt, &meta.MessageCount, &meta.Preview); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		meta.Preview = util.TruncateRunes(strings.ReplaceAll(meta.Preview, "\n", " "), 80)
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Search finds conversations whose title or message content matches the
// query, folding case and Unicode variants on both sides.
func (s *ConversationStore) Search(ctx context.Context, query string) ([]ConversationMeta, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}

	needle := util.NormalizeSearch(query)
	var results []ConversationMeta
	for _, meta := range all {
		if strings.Contains(util.NormalizeSearch(meta.Title), needle) ||
			strings.Contains(util.NormalizeSearch(meta.Preview), needle) {
			results = append(results, meta)
			continue
		}
		if ok, err := s.messagesContain(ctx, meta.ID, needle); err == nil && ok {
			results = append(results, meta)
		}
	}
	return results, nil
}

// messagesContain reports whether any message in the conversation
// matches the normalized needle.
func (s *ConversationStore) messagesContain(ctx context.Context, id, needle string) (bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content FROM messages WHERE conversation_id = ?`, id)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return false, err
		}
		if strings.Contains(util.NormalizeSearch(content), needle) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a conversation and its messages.
func (s *ConversationStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// Clear removes all cached conversations.
func (s *ConversationStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversations`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
