// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jeranaias/solace-tui/internal/api"
)

func TestServiceDeliversEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/sync/events" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"wallet.updated\"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"metrics.updated\",\"payload\":{\"n\":1}}\n\n")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := NewService(srv.URL, api.StaticToken("tok"), 50*time.Millisecond).
		WithHTTPClient(srv.Client())
	go svc.Run(ctx)

	var got []string
	deadline := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case ev := <-svc.Events():
			got = append(got, ev.Type)
			if ev.At.IsZero() {
				t.Error("event timestamp should be filled in")
			}
		case <-deadline:
			t.Fatalf("timed out, got %v", got)
		}
	}

	if got[0] != EventWalletUpdated || got[1] != EventMetricsUpdated {
		t.Errorf("events = %v", got)
	}
}

func TestServiceReconnects(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := conns.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: {\"type\":\"profile.updated\",\"payload\":{\"conn\":%d}}\n\n", n)
		// Handler returns: connection drops, client must reconnect.
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := NewService(srv.URL, api.StaticToken("tok"), 20*time.Millisecond).
		WithHTTPClient(srv.Client())
	go svc.Run(ctx)

	received := 0
	deadline := time.After(5 * time.Second)
	for received < 2 {
		select {
		case <-svc.Events():
			received++
		case <-deadline:
			t.Fatalf("timed out after %d events (%d conns)", received, conns.Load())
		}
	}

	if conns.Load() < 2 {
		t.Errorf("conns = %d, want at least 2", conns.Load())
	}
}

func TestServiceStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fl, _ := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"type\":\"wallet.updated\"}\n\n")
		if fl != nil {
			fl.Flush()
		}
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	svc := NewService(srv.URL, api.StaticToken("tok"), 20*time.Millisecond).
		WithHTTPClient(srv.Client())

	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	<-svc.Events()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	// The events channel closes with Run.
	if _, ok := <-svc.Events(); ok {
		// Drain until closed; a buffered event may remain.
		for range svc.Events() {
		}
	}
}
