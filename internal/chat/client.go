// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jeranaias/solace-tui/internal/api"
)

// Configuration constants for the chat backend.
const (
	// DefaultTimeout bounds the initial connection; the stream itself is
	// context-controlled.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default number of reconnect attempts.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay caps the exponential backoff.
	retryMaxDelay = 10 * time.Second
)

// Error variables for common chat failures.
var (
	// ErrNotConfigured indicates the client has no backend URL.
	ErrNotConfigured = errors.New("chat backend not configured")

	// ErrStreamClosed indicates the backend ended the stream without a
	// done marker.
	ErrStreamClosed = errors.New("stream closed unexpectedly")
)

// PERFORMANCE: Connection pooling for streaming requests. No client
// timeout; lifetime is controlled via context.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// ChatMessage is one turn in the request payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a user turn.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// NewAssistantMessage creates an assistant turn.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: "assistant", Content: content}
}

// streamRequest is the wire payload for POST /v1/chat/stream.
type streamRequest struct {
	ConversationID string        `json:"conversation_id"`
	Persona        string        `json:"persona,omitempty"`
	Messages       []ChatMessage `json:"messages"`
	Stream         bool          `json:"stream"`
}

// Client is the streaming chat client.
type Client struct {
	baseURL    string
	tokens     api.TokenSource
	persona    string
	maxRetries int
	httpClient *http.Client
}

// NewClient creates a chat client against the given backend root.
func NewClient(baseURL string, tokens api.TokenSource) *Client {
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		maxRetries: DefaultMaxRetries,
		httpClient: sharedStreamingClient,
	}
}

// Persona returns the active companion persona.
func (c *Client) Persona() string {
	return c.persona
}

// WithPersona sets the companion persona sent with each request.
func (c *Client) WithPersona(persona string) *Client {
	c.persona = persona
	return c
}

// WithMaxRetries overrides the reconnect attempt count.
func (c *Client) WithMaxRetries(n int) *Client {
	if n >= 0 {
		c.maxRetries = n
	}
	return c
}

// WithHTTPClient overrides the HTTP client (tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// IsConfigured reports whether the client can reach a backend.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// =============================================================================
// STREAMING
// =============================================================================

// Stream sends the conversation and returns a channel of chunks. The
// channel closes when the stream finishes; errors are delivered through
// StreamChunk.Error as the final element. Cancellation is via ctx.
func (c *Client) Stream(ctx context.Context, conversationID string, messages []ChatMessage) (<-chan StreamChunk, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	chunks := make(chan StreamChunk, 64)

	go func() {
		defer close(chunks)

		var accumulated bytes.Buffer
		var lastErr error

		for attempt := 0; attempt <= c.maxRetries; attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					chunks <- StreamChunk{Error: ctx.Err()}
					return
				case <-time.After(calculateBackoff(attempt)):
				}
			}

			err := c.streamOnce(ctx, conversationID, messages, chunks, &accumulated)
			if err == nil {
				return
			}
			if !isRetryable(err) {
				chunks <- StreamChunk{Error: err}
				return
			}
			lastErr = err
		}

		chunks <- StreamChunk{Error: &StreamError{
			Partial: accumulated.String(),
			Err:     fmt.Errorf("max retries exceeded: %w", lastErr),
		}}
	}()

	return chunks, nil
}

// streamOnce performs a single streaming attempt.
func (c *Client) streamOnce(ctx context.Context, conversationID string, messages []ChatMessage, chunks chan<- StreamChunk, accumulated *bytes.Buffer) error {
	reqBody := streamRequest{
		ConversationID: conversationID,
		Persona:        c.persona,
		Messages:       messages,
		Stream:         true,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/stream", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.tokens.Token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return handleErrorResponse(resp.StatusCode, body)
	}

	return c.processStream(ctx, resp.Body, chunks, accumulated)
}

// processStream reads and forwards the SSE stream.
func (c *Client) processStream(ctx context.Context, body io.Reader, chunks chan<- StreamChunk, accumulated *bytes.Buffer) error {
	reader := NewSSEReader(body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, data, err := reader.ReadEvent()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return &StreamError{Partial: accumulated.String(), Err: err}
		}

		if bytes.Equal(data, []byte("[DONE]")) {
			return nil
		}

		var chunk StreamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Skip malformed chunks rather than abort the stream.
			continue
		}

		accumulated.WriteString(chunk.Delta)

		select {
		case chunks <- chunk:
		case <-ctx.Done():
			return ctx.Err()
		}

		if chunk.Done {
			return nil
		}
	}
}

// =============================================================================
// ERROR HANDLING
// =============================================================================

// ChatError is a structured error from the chat backend.
type ChatError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *ChatError) Error() string {
	return fmt.Sprintf("chat backend error %d: %s", e.Status, e.Message)
}

// handleErrorResponse maps an HTTP failure to a typed error.
func handleErrorResponse(status int, body []byte) error {
	var wire struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := "request failed"
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error.Message != "" {
		msg = wire.Error.Message
	}
	return &ChatError{Status: status, Message: msg}
}

// isRetryable determines whether a streaming error warrants reconnect.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, api.ErrNotAuthenticated) {
		return false
	}

	var chatErr *ChatError
	if errors.As(err, &chatErr) {
		return chatErr.Status >= 500 || chatErr.Status == http.StatusTooManyRequests
	}

	// Network-level failures are retryable.
	return true
}

// calculateBackoff returns the delay before the given retry attempt.
func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
