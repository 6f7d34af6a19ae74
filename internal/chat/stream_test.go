// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jeranaias/solace-tui/internal/api"
)

func TestSSEReaderParsesEvents(t *testing.T) {
	input := "event: message\ndata: {\"delta\":\"hi\"}\n\ndata: [DONE]\n\n"
	r := NewSSEReader(strings.NewReader(input))

	eventType, data, err := r.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if eventType != "message" {
		t.Errorf("event type = %q", eventType)
	}
	if string(data) != `{"delta":"hi"}` {
		t.Errorf("data = %q", data)
	}

	_, data, err = r.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent 2: %v", err)
	}
	if string(data) != "[DONE]" {
		t.Errorf("data = %q", data)
	}

	if _, _, err = r.ReadEvent(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestSSEReaderMultilineData(t *testing.T) {
	input := "data: line one\ndata: line two\n\n"
	r := NewSSEReader(strings.NewReader(input))

	_, data, err := r.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if string(data) != "line one\nline two" {
		t.Errorf("data = %q", data)
	}
}

func TestSSEReaderDataBeforeEOF(t *testing.T) {
	// No trailing blank line: the buffered event still comes through.
	r := NewSSEReader(strings.NewReader("data: tail\n"))
	_, data, err := r.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if string(data) != "tail" {
		t.Errorf("data = %q", data)
	}
}

func newStreamServer(t *testing.T, events ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("missing event-stream accept header")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, ev := range events {
			fmt.Fprintf(w, "data: %s\n\n", ev)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStreamDeliversChunks(t *testing.T) {
	srv := newStreamServer(t,
		`{"delta":"Take a "}`,
		`{"delta":"breath.","mood":"calm"}`,
		`{"done":true,"finish_reason":"stop"}`,
	)

	client := NewClient(srv.URL, api.StaticToken("tok")).WithHTTPClient(srv.Client())
	chunks, err := client.Stream(context.Background(), "conv-1", []ChatMessage{NewUserMessage("hi")})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	acc := NewAccumulator()
	for chunk := range chunks {
		if chunk.HasError() {
			t.Fatalf("unexpected chunk error: %v", chunk.Error)
		}
		acc.Add(chunk)
	}

	if got := acc.GetContent(); got != "Take a breath." {
		t.Errorf("content = %q", got)
	}
	if acc.MoodTag != "calm" {
		t.Errorf("mood = %q", acc.MoodTag)
	}
	if !acc.Done || acc.FinishReason != "stop" {
		t.Errorf("done=%v reason=%q", acc.Done, acc.FinishReason)
	}
}

func TestStreamToolEvents(t *testing.T) {
	srv := newStreamServer(t,
		`{"tool":{"id":"t1","name":"mood_check","status":"running"}}`,
		`{"tool":{"id":"t1","name":"mood_check","status":"succeeded"}}`,
		`{"delta":"done","done":true}`,
	)

	client := NewClient(srv.URL, api.StaticToken("tok")).WithHTTPClient(srv.Client())
	chunks, err := client.Stream(context.Background(), "c", nil)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	acc := NewAccumulator()
	for chunk := range chunks {
		acc.Add(chunk)
	}
	if len(acc.ToolEvents) != 2 {
		t.Fatalf("tool events = %d, want 2", len(acc.ToolEvents))
	}
	if acc.ToolEvents[1].Status != "succeeded" {
		t.Errorf("final tool status = %q", acc.ToolEvents[1].Status)
	}
}

func TestStreamSkipsMalformedChunks(t *testing.T) {
	srv := newStreamServer(t,
		`{"delta":"ok"}`,
		`{not json`,
		`{"done":true}`,
	)

	client := NewClient(srv.URL, api.StaticToken("tok")).WithHTTPClient(srv.Client())
	chunks, _ := client.Stream(context.Background(), "c", nil)

	var content strings.Builder
	for chunk := range chunks {
		if chunk.HasError() {
			t.Fatalf("malformed chunk should be skipped, got error %v", chunk.Error)
		}
		content.WriteString(chunk.Delta)
	}
	if content.String() != "ok" {
		t.Errorf("content = %q", content.String())
	}
}

func TestStreamNoRetryOnAuthFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad token"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, api.StaticToken("tok")).WithHTTPClient(srv.Client())
	chunks, _ := client.Stream(context.Background(), "c", nil)

	var lastErr error
	for chunk := range chunks {
		if chunk.HasError() {
			lastErr = chunk.Error
		}
	}
	if lastErr == nil {
		t.Fatal("expected terminal error")
	}
	var chatErr *ChatError
	if !errors.As(lastErr, &chatErr) || chatErr.Status != 401 {
		t.Errorf("error = %v", lastErr)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (4xx must not retry)", calls.Load())
	}
}

func TestStreamRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"delta\":\"recovered\",\"done\":true}\n\n")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, api.StaticToken("tok")).WithHTTPClient(srv.Client())
	chunks, _ := client.Stream(context.Background(), "c", nil)

	var content strings.Builder
	for chunk := range chunks {
		if chunk.HasError() {
			t.Fatalf("stream error after retry: %v", chunk.Error)
		}
		content.WriteString(chunk.Delta)
	}
	if content.String() != "recovered" {
		t.Errorf("content = %q", content.String())
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestStreamCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fl, _ := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"delta\":\"first\"}\n\n")
		if fl != nil {
			fl.Flush()
		}
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(srv.URL, api.StaticToken("tok")).WithHTTPClient(srv.Client())
	chunks, _ := client.Stream(ctx, "c", nil)

	// Receive the first chunk, then cancel.
	<-chunks
	cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				return // channel closed after cancellation
			}
			if chunk.HasError() && errors.Is(chunk.Error, context.Canceled) {
				return
			}
		case <-deadline:
			t.Fatal("stream did not terminate after cancel")
		}
	}
}

func TestStreamUnconfigured(t *testing.T) {
	client := NewClient("", api.StaticToken("tok"))
	if _, err := client.Stream(context.Background(), "c", nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
