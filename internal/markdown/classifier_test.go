// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

func TestClassifyEmpty(t *testing.T) {
	res := Classify("")
	if res.CompleteBlocks != "" || res.PartialBlock != "" || res.IsValid {
		t.Errorf("Classify(\"\") = %+v, want zero result", res)
	}
}

func TestClassifySingleBlockHeading(t *testing.T) {
	// A heading without its trailing newline is still being typed as far
	// as the classifier can tell, so it stays partial.
	res := Classify("# Title")
	if res.IsValid {
		t.Error("bare heading should not be valid")
	}
	if res.PartialBlock != "# Title" {
		t.Errorf("PartialBlock = %q", res.PartialBlock)
	}
	if res.CompleteBlocks != "" {
		t.Errorf("CompleteBlocks = %q, want empty", res.CompleteBlocks)
	}

	// With the newline the strict heading rule matches.
	res = Classify("# Title\n")
	if !res.IsValid || res.CompleteBlocks != "# Title\n" {
		t.Errorf("heading with newline = %+v", res)
	}
}

func TestClassifySingleBlockList(t *testing.T) {
	res := Classify("- breathe in\n- hold\n- breathe out")
	if !res.IsValid {
		t.Fatalf("list block should be complete: %+v", res)
	}
	if res.PartialBlock != "" {
		t.Errorf("PartialBlock = %q, want empty", res.PartialBlock)
	}

	// A block with one non-list line is not a list.
	res = Classify("- breathe in\nhold it")
	if res.IsValid {
		t.Errorf("mixed block should stay partial: %+v", res)
	}
}

func TestClassifySingleBlockFence(t *testing.T) {
	text := "```js\ncode\n```"
	res := Classify(text)
	if !res.IsValid {
		t.Fatalf("closed fence should be complete: %+v", res)
	}
	if res.CompleteBlocks != text || res.PartialBlock != "" {
		t.Errorf("got %+v", res)
	}

	// Unterminated fence stays partial indefinitely.
	res = Classify("```js\ncode so far")
	if res.IsValid || res.PartialBlock == "" {
		t.Errorf("open fence should stay partial: %+v", res)
	}
}

func TestClassifySingleBlockBold(t *testing.T) {
	res := Classify("**calm**")
	if !res.IsValid {
		t.Errorf("balanced bold should be complete: %+v", res)
	}

	res = Classify("**calm")
	if res.IsValid {
		t.Errorf("unbalanced bold should stay partial: %+v", res)
	}
}

func TestClassifyMultiBlock(t *testing.T) {
	// Last block has no newline, heading, fence, or bold marker, so it
	// stays partial; everything before the final separator is committed.
	res := Classify("Line one\n\nLine two")
	if res.CompleteBlocks != "Line one" {
		t.Errorf("CompleteBlocks = %q, want %q", res.CompleteBlocks, "Line one")
	}
	if res.PartialBlock != "Line two" {
		t.Errorf("PartialBlock = %q, want %q", res.PartialBlock, "Line two")
	}
	if !res.IsValid {
		t.Error("non-empty complete region should be valid")
	}
}

func TestClassifyMultiBlockRelaxedTail(t *testing.T) {
	// A tail containing a newline passes the relaxed check and is
	// appended to the complete region.
	res := Classify("Intro paragraph\n\nsecond line one\nsecond line two")
	if res.PartialBlock != "" {
		t.Errorf("PartialBlock = %q, want empty", res.PartialBlock)
	}
	want := "Intro paragraph\n\nsecond line one\nsecond line two"
	if res.CompleteBlocks != want {
		t.Errorf("CompleteBlocks = %q", res.CompleteBlocks)
	}

	// Relaxed heading: no trailing newline required for a tail heading.
	res = Classify("Intro\n\n## Next section")
	if res.PartialBlock != "" || !res.IsValid {
		t.Errorf("tail heading should be appended: %+v", res)
	}

	// Leading bold marker is enough for the relaxed check even while
	// unbalanced.
	res = Classify("Intro\n\n**Key point")
	if res.PartialBlock != "" {
		t.Errorf("leading-bold tail should be appended: %+v", res)
	}
}

func TestClassifyRelaxedTailNeedsNonEmptyComplete(t *testing.T) {
	// The tail passes the relaxed check, but there is no committed
	// region to append to, so it stays partial.
	res := Classify("\n\n## Heading tail")
	if res.IsValid {
		t.Errorf("empty complete region must not validate: %+v", res)
	}
	if res.PartialBlock != "## Heading tail" {
		t.Errorf("PartialBlock = %q", res.PartialBlock)
	}
}

// TestClassifyReconstruction checks that no characters are invented or
// dropped: complete + partial reassembles the input modulo the block
// separator between the two regions.
func TestClassifyReconstruction(t *testing.T) {
	inputs := []string{
		"",
		"plain sentence still going",
		"# Title",
		"# Title\n",
		"a\n\nb",
		"a\n\nb\n\nc",
		"```go\nfmt.Println()\n```",
		"```go\nunclosed",
		"- one\n- two",
		"**bold**",
		"**bold",
		"first\n\n```js\nlet x = 1\n```",
		"first\n\nsecond\n\n# Third",
		"\n\ntail",
	}

	for _, text := range inputs {
		res := Classify(text)
		joined := res.CompleteBlocks + BlockSeparator + res.PartialBlock
		plain := res.CompleteBlocks + res.PartialBlock
		if plain != text && joined != text {
			t.Errorf("reconstruction failed for %q: complete=%q partial=%q",
				text, res.CompleteBlocks, res.PartialBlock)
		}
	}
}

// TestClassifyCommittedRegionGrowth checks that the unconditionally
// committed region (everything before the final block separator) only
// ever grows as text streams in. The relaxed-tail append can retract
// when the tail later turns out to keep going; StreamBuffer is what
// pins the consumer-visible region, covered in buffer_test.go.
func TestClassifyCommittedRegionGrowth(t *testing.T) {
	full := "# Session notes\n\nYou slept badly twice this week.\n\n" +
		"- hydrate\n- wind down early\n\nTry the breathing exercise " +
		"tonight and tell me how it goes."

	var lastCommitted string
	for i := 1; i <= len(full); i++ {
		text := full[:i]
		sep := strings.LastIndex(text, BlockSeparator)
		if sep < 0 {
			continue
		}
		committed := text[:sep]
		res := Classify(text)
		if !strings.HasPrefix(res.CompleteBlocks, committed) {
			t.Fatalf("at %d: complete %q lost committed prefix %q",
				i, res.CompleteBlocks, committed)
		}
		if !strings.HasPrefix(committed, lastCommitted) {
			t.Fatalf("at %d: committed region regressed from %q to %q",
				i, lastCommitted, committed)
		}
		lastCommitted = committed
	}
}

func BenchmarkClassify(b *testing.B) {
	text := strings.Repeat("A paragraph of streamed prose.\n\n", 40) +
		"```go\nfunc main() {}\n```\n\ntrailing fragment"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Classify(text)
	}
}
