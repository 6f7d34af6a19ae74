// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestStreamingBufferBatchThreshold(t *testing.T) {
	buf := NewStreamingBuffer(5, 30)

	for i := 0; i < 4; i++ {
		buf.Write("x")
	}
	if buf.ShouldFlush() && buf.Pending() >= 5 {
		t.Error("flush triggered below batch size")
	}

	buf.Write("x")
	if !buf.ShouldFlush() {
		t.Error("expected flush at batch size")
	}

	out := buf.Flush()
	if out != "xxxxx" {
		t.Errorf("Flush() = %q, want %q", out, "xxxxx")
	}
	if buf.Pending() != 0 {
		t.Errorf("Pending() = %d after flush, want 0", buf.Pending())
	}
}

func TestStreamingBufferTimeThreshold(t *testing.T) {
	// Large batch size so only the interval can trigger the flush.
	buf := NewStreamingBuffer(1000, 100) // 10ms interval

	buf.Write("hello")
	time.Sleep(15 * time.Millisecond)

	if !buf.ShouldFlush() {
		t.Error("expected flush after interval elapsed")
	}
	if out := buf.Flush(); out != "hello" {
		t.Errorf("Flush() = %q, want %q", out, "hello")
	}
}

func TestStreamingBufferHoldsBelowThresholds(t *testing.T) {
	buf := NewStreamingBuffer(1000, 1) // 1s interval

	buf.Write("token")
	if out := buf.Flush(); out != "" {
		t.Errorf("Flush() = %q, want empty before thresholds", out)
	}
	if buf.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1 (flush must not drop)", buf.Pending())
	}
}

func TestStreamingBufferForceFlush(t *testing.T) {
	buf := NewStreamingBuffer(1000, 1)

	buf.Write("tail ")
	buf.Write("tokens")
	if out := buf.ForceFlush(); out != "tail tokens" {
		t.Errorf("ForceFlush() = %q, want %q", out, "tail tokens")
	}
	if out := buf.ForceFlush(); out != "" {
		t.Errorf("second ForceFlush() = %q, want empty", out)
	}
}

func TestStreamingBufferEmptyFlush(t *testing.T) {
	buf := NewStreamingBuffer(5, 30)

	if buf.ShouldFlush() {
		t.Error("empty buffer should not request flush")
	}
	if out := buf.Flush(); out != "" {
		t.Errorf("Flush() on empty = %q", out)
	}
}

func TestStreamingBufferReset(t *testing.T) {
	buf := NewStreamingBuffer(5, 30)

	buf.Write("discard me")
	buf.Reset()
	if buf.Pending() != 0 {
		t.Errorf("Pending() = %d after reset, want 0", buf.Pending())
	}
	if out := buf.ForceFlush(); out != "" {
		t.Errorf("ForceFlush() after reset = %q, want empty", out)
	}
}

func TestStreamingBufferDefaults(t *testing.T) {
	buf := NewStreamingBuffer(0, 0)
	if buf.batchSize != 15 {
		t.Errorf("batchSize = %d, want default 15", buf.batchSize)
	}
	if buf.minFlushInterval != time.Second/30 {
		t.Errorf("minFlushInterval = %v, want %v", buf.minFlushInterval, time.Second/30)
	}
}

// Writer goroutine races against a flushing reader the way the stream
// listener races the update loop.
func TestStreamingBufferConcurrent(t *testing.T) {
	buf := NewStreamingBuffer(10, 60)

	const tokens = 500
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < tokens; i++ {
			buf.Write(fmt.Sprintf("t%d ", i))
		}
	}()

	var collected strings.Builder
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		select {
		case <-done:
			collected.WriteString(buf.ForceFlush())
			got := collected.String()
			for _, want := range []string{"t0 ", "t250 ", fmt.Sprintf("t%d ", tokens-1)} {
				if !strings.Contains(got, want) {
					t.Errorf("collected output missing %q", want)
				}
			}
			return
		default:
			collected.WriteString(buf.ForceFlush())
		}
	}
}

func TestStreamingBufferOrderPreserved(t *testing.T) {
	buf := NewStreamingBuffer(3, 30)

	for _, tok := range []string{"a", "b", "c", "d", "e", "f"} {
		buf.Write(tok)
	}

	var out strings.Builder
	out.WriteString(buf.Flush())
	out.WriteString(buf.ForceFlush())
	if out.String() != "abcdef" {
		t.Errorf("reassembled = %q, want %q", out.String(), "abcdef")
	}
}

func BenchmarkStreamingBufferWrite(b *testing.B) {
	buf := NewStreamingBuffer(15, 30)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Write("token ")
		if i%100 == 0 {
			buf.ForceFlush()
		}
	}
}

func BenchmarkStreamingBufferFlushCycle(b *testing.B) {
	buf := NewStreamingBuffer(15, 30)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for j := 0; j < 15; j++ {
			buf.Write("tok")
		}
		buf.Flush()
	}
}
