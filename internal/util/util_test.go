// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello world", 8); got != "hello..." {
		t.Errorf("TruncateRunes = %q, want %q", got, "hello...")
	}
	if got := TruncateRunes("short", 10); got != "short" {
		t.Errorf("TruncateRunes short = %q, want unchanged", got)
	}
	if got := TruncateRunes("héllo wörld", 8); got != "héllo..." {
		t.Errorf("TruncateRunes unicode = %q", got)
	}
	if got := TruncateRunes("abc", 2); got != "ab" {
		t.Errorf("TruncateRunes tiny = %q, want %q", got, "ab")
	}
	if got := TruncateRunes("anything", 0); got != "" {
		t.Errorf("TruncateRunes zero = %q, want empty", got)
	}
}

func TestTruncateWidth(t *testing.T) {
	// CJK characters occupy two columns each.
	if got := TruncateWidth("日本語テスト", 6); StringWidth(got) > 6 {
		t.Errorf("TruncateWidth result too wide: %q (%d cols)", got, StringWidth(got))
	}
	if got := TruncateWidth("plain", 10); got != "plain" {
		t.Errorf("TruncateWidth = %q, want unchanged", got)
	}
}

func TestStringWidth(t *testing.T) {
	if got := StringWidth("abc"); got != 3 {
		t.Errorf("StringWidth(abc) = %d, want 3", got)
	}
	if got := StringWidth("日本"); got != 4 {
		t.Errorf("StringWidth(日本) = %d, want 4", got)
	}
}

func TestSafeSubstring(t *testing.T) {
	s := "héllo"
	if got := SafeSubstring(s, 1, 3); got != "él" {
		t.Errorf("SafeSubstring = %q, want %q", got, "él")
	}
	if got := SafeSubstring(s, -1, 100); got != s {
		t.Errorf("SafeSubstring clamped = %q, want %q", got, s)
	}
	if got := SafeSubstring(s, 4, 2); got != "" {
		t.Errorf("SafeSubstring inverted = %q, want empty", got)
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Deep Breathing Exercise", "breathing") {
		t.Error("expected case-insensitive match")
	}
	if !ContainsFold("Straße", "STRASSE") {
		t.Error("expected case-folded match for sharp s")
	}
	if ContainsFold("calm", "storm") {
		t.Error("unexpected match")
	}
	if !ContainsFold("anything", "") {
		t.Error("empty needle should always match")
	}
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	if err := AtomicWriteFile(path, []byte("first"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("content = %q, want %q", data, "first")
	}

	// Overwrite must replace, not append.
	if err := AtomicWriteFile(path, []byte("second"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile overwrite: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("content after overwrite = %q, want %q", data, "second")
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if e.Name() != "out.txt" {
			t.Errorf("stray file left behind: %s", e.Name())
		}
	}
}
