// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, StaticToken("test-token")).
		WithHTTPClient(srv.Client()).
		WithRateLimit(1000, 1000)
	return client, srv
}

func TestWalletFetch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/wallet", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"credits_cents": 1240,
			"currency":      "USD",
			"tier":          "plus",
		})
	}))

	bal, err := client.Wallet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1240), bal.CreditsCents)
	assert.Equal(t, "$12.40", bal.FormatCredits())
	assert.Equal(t, "plus", bal.Tier)
}

func TestTransactionsPagination(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		json.NewEncoder(w).Encode(map[string]any{
			"transactions": []map[string]any{
				{"id": "t1", "kind": "usage", "amount_cents": -12},
			},
		})
	}))

	txns, err := client.Transactions(context.Background(), 10, 20)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "-$0.12", txns[0].FormatAmount())
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status   int
		sentinel error
	}{
		{401, ErrAuthExpired},
		{404, ErrNotFound},
		{503, ErrServerUnavailable},
	}

	for _, tc := range cases {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"error":{"code":"x","message":"nope"}}`))
		}))
		client.WithMaxRetries(0)

		_, err := client.Profile(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, tc.sentinel), "status %d should map to %v, got %v",
			tc.status, tc.sentinel, err)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "u1", "display_name": "Ada"})
	}))
	client.WithMaxRetries(2)

	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.DisplayName)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad"}}`))
	}))
	client.WithMaxRetries(3)

	_, err := client.UpdateProfile(context.Background(), ProfileUpdate{DisplayName: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not retry")
}

func TestMissingTokenFailsFast(t *testing.T) {
	client := NewClient("http://unused.invalid", StaticToken(""))
	_, err := client.Wallet(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestInsightsWindowParam(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7d", r.URL.Query().Get("window"))
		json.NewEncoder(w).Encode(map[string]any{
			"summary": "## Week\nSteady.",
			"metrics": []map[string]any{
				{"name": "consistency", "label": "Consistency", "score": 0.7, "delta": 0.1},
			},
		})
	}))

	report, err := client.Insights(context.Background(), "7d")
	require.NoError(t, err)
	require.Len(t, report.Metrics, 1)
	assert.Equal(t, "+", report.Metrics[0].TrendArrow())
}
