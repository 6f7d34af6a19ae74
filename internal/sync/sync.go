// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jeranaias/solace-tui/internal/api"
	"github.com/jeranaias/solace-tui/internal/chat"
)

// Event types the backend publishes on the sync feed.
const (
	EventWalletUpdated  = "wallet.updated"
	EventProfileUpdated = "profile.updated"
	EventMetricsUpdated = "metrics.updated"
	EventMessageCreated = "message.created"
)

// maxReconnectDelay caps the exponential backoff between attempts.
const maxReconnectDelay = 60 * time.Second

// Event is one decoded sync notification.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// Service maintains the SSE subscription to /v1/sync/events.
type Service struct {
	baseURL    string
	tokens     api.TokenSource
	baseDelay  time.Duration
	httpClient *http.Client
	events     chan Event
}

// NewService creates a sync service. baseDelay is the first reconnect
// delay; it doubles per consecutive failure up to a fixed cap.
func NewService(baseURL string, tokens api.TokenSource, baseDelay time.Duration) *Service {
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}
	return &Service{
		baseURL:    baseURL,
		tokens:     tokens,
		baseDelay:  baseDelay,
		httpClient: &http.Client{}, // streaming: lifetime via context
		events:     make(chan Event, 32),
	}
}

// WithHTTPClient overrides the HTTP client (tests).
func (s *Service) WithHTTPClient(hc *http.Client) *Service {
	s.httpClient = hc
	return s
}

// Events returns the notification channel. It closes when Run returns.
func (s *Service) Events() <-chan Event {
	return s.events
}

// Run connects and keeps the subscription alive until ctx is cancelled.
// Intended to be called in its own goroutine.
func (s *Service) Run(ctx context.Context) {
	defer close(s.events)

	delay := s.baseDelay
	for {
		connected, err := s.subscribe(ctx)
		if ctx.Err() != nil {
			return
		}
		_ = err // disconnects are expected; the backoff is the handling

		// A connection that delivered events resets the backoff.
		if connected {
			delay = s.baseDelay
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

// subscribe opens one SSE connection and forwards events until it drops.
// Returns whether at least one event was delivered.
func (s *Service) subscribe(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/sync/events", nil)
	if err != nil {
		return false, err
	}

	token, err := s.tokens.Token()
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, &chat.ChatError{Status: resp.StatusCode, Message: "sync subscription rejected"}
	}

	reader := chat.NewSSEReader(resp.Body)
	delivered := false
	for {
		select {
		case <-ctx.Done():
			return delivered, ctx.Err()
		default:
		}

		_, data, err := reader.ReadEvent()
		if err != nil {
			return delivered, err
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue // tolerate malformed events
		}
		if ev.At.IsZero() {
			ev.At = time.Now()
		}

		select {
		case s.events <- ev:
			delivered = true
		case <-ctx.Done():
			return delivered, ctx.Err()
		default:
			// A stalled consumer drops notifications rather than the
			// connection; each event type is refetch-on-notify anyway.
		}
	}
}
