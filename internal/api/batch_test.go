// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatcherCoalesces(t *testing.T) {
	var batches atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/batch", r.URL.Path)
		batches.Add(1)

		var envelope struct {
			Requests []BatchRequest `json:"requests"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		require.Len(t, envelope.Requests, 2)

		type resp struct {
			ID     string          `json:"id"`
			Status int             `json:"status"`
			Body   json.RawMessage `json:"body"`
		}
		out := struct {
			Responses []resp `json:"responses"`
		}{}
		for _, req := range envelope.Requests {
			body := `{"ok":true}`
			if req.Path == "/v1/wallet" {
				body = `{"credits_cents":500}`
			}
			out.Responses = append(out.Responses, resp{
				ID: req.ID, Status: 200, Body: json.RawMessage(body),
			})
		}
		json.NewEncoder(w).Encode(out)
	}))

	b := NewBatcher(client, 50*time.Millisecond)
	defer b.Close()

	walletCh := b.Enqueue(http.MethodGet, "/v1/wallet", nil)
	profileCh := b.Enqueue(http.MethodGet, "/v1/profile", nil)

	var wallet struct {
		CreditsCents int64 `json:"credits_cents"`
	}
	res := <-walletCh
	require.NoError(t, res.Decode(&wallet))
	assert.Equal(t, int64(500), wallet.CreditsCents)

	res = <-profileCh
	require.NoError(t, res.Err)
	assert.Equal(t, 200, res.Status)

	assert.Equal(t, int32(1), batches.Load(), "both calls should travel in one batch")
}

func TestBatcherDeliversPerCallErrors(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope struct {
			Requests []BatchRequest `json:"requests"`
		}
		json.NewDecoder(r.Body).Decode(&envelope)

		// Answer only the first sub-request.
		out := map[string]any{
			"responses": []map[string]any{
				{"id": envelope.Requests[0].ID, "status": 404, "body": json.RawMessage(`{"error":{"message":"gone"}}`)},
			},
		}
		json.NewEncoder(w).Encode(out)
	}))

	b := NewBatcher(client, 10*time.Millisecond)
	defer b.Close()

	first := b.Enqueue(http.MethodGet, "/v1/a", nil)
	second := b.Enqueue(http.MethodGet, "/v1/b", nil)

	res := <-first
	require.NoError(t, res.Err)
	var out any
	err := res.Decode(&out)
	require.Error(t, err, "non-2xx sub-response should decode to an error")

	res = <-second
	require.Error(t, res.Err, "unanswered sub-request must still resolve")
}

func TestBatcherCloseRejectsNewWork(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"responses": []any{}})
	}))

	b := NewBatcher(client, time.Hour) // window never fires on its own
	b.Close()

	res := <-b.Enqueue(http.MethodGet, "/v1/wallet", nil)
	require.Error(t, res.Err)
}
