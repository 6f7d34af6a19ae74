// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Batcher coalesces queued calls into single POST /v1/batch requests.
//
// Screens fire several small reads at once when they gain focus (wallet
// balance + transactions + profile). Issuing them individually burns the
// per-user quota and mobile-grade backends bill per request; the batch
// endpoint exists for exactly this pattern. Calls queued within one
// window travel together.
type Batcher struct {
	client *Client
	window time.Duration

	mu      sync.Mutex
	pending []batchEntry
	timer   *time.Timer
	closed  bool
}

// batchEntry pairs a sub-request with its waiting caller.
type batchEntry struct {
	req BatchRequest
	ch  chan BatchResult
}

// BatchRequest is one sub-request inside a batch envelope.
type BatchRequest struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// BatchResult is delivered to the caller of Enqueue.
type BatchResult struct {
	Status int
	Body   json.RawMessage
	Err    error
}

// Decode unmarshals a successful result body into out.
func (r BatchResult) Decode(out any) error {
	if r.Err != nil {
		return r.Err
	}
	if r.Status < 200 || r.Status >= 300 {
		return parseAPIError(r.Status, r.Body)
	}
	return json.Unmarshal(r.Body, out)
}

// NewBatcher creates a batcher over the given client.
func NewBatcher(client *Client, window time.Duration) *Batcher {
	if window <= 0 {
		window = 150 * time.Millisecond
	}
	return &Batcher{
		client: client,
		window: window,
	}
}

// Enqueue queues one call. The returned channel receives exactly one
// BatchResult once the enclosing batch round-trips.
func (b *Batcher) Enqueue(method, path string, body any) <-chan BatchResult {
	ch := make(chan BatchResult, 1)

	var raw json.RawMessage
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			ch <- BatchResult{Err: fmt.Errorf("failed to marshal batch body: %w", err)}
			return ch
		}
		raw = data
	}

	entry := batchEntry{
		req: BatchRequest{
			ID:     uuid.NewString(),
			Method: method,
			Path:   path,
			Body:   raw,
		},
		ch: ch,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch <- BatchResult{Err: fmt.Errorf("batcher closed")}
		return ch
	}

	b.pending = append(b.pending, entry)
	if b.timer == nil {
		b.timer = time.AfterFunc(b.window, b.flush)
	}
	return ch
}

// Flush sends any queued calls immediately.
func (b *Batcher) Flush() {
	b.flush()
}

// Close flushes outstanding calls and rejects future ones.
func (b *Batcher) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.flush()
}

// flush takes the current queue and round-trips it.
func (b *Batcher) flush() {
	b.mu.Lock()
	entries := b.pending
	b.pending = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()

	if len(entries) == 0 {
		return
	}

	reqs := make([]BatchRequest, len(entries))
	byID := make(map[string]chan BatchResult, len(entries))
	for i, e := range entries {
		reqs[i] = e.req
		byID[e.req.ID] = e.ch
	}

	envelope := struct {
		Requests []BatchRequest `json:"requests"`
	}{Requests: reqs}

	var out struct {
		Responses []struct {
			ID     string          `json:"id"`
			Status int             `json:"status"`
			Body   json.RawMessage `json:"body"`
		} `json:"responses"`
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	if err := b.client.do(ctx, http.MethodPost, "/v1/batch", envelope, &out); err != nil {
		for _, ch := range byID {
			ch <- BatchResult{Err: err}
		}
		return
	}

	for _, resp := range out.Responses {
		if ch, ok := byID[resp.ID]; ok {
			ch <- BatchResult{Status: resp.Status, Body: resp.Body}
			delete(byID, resp.ID)
		}
	}

	// Sub-requests the backend failed to answer still get a reply.
	for _, ch := range byID {
		ch <- BatchResult{Err: fmt.Errorf("no response for batched request")}
	}
}
