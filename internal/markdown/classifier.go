// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"regexp"
	"strings"
)

// BlockSeparator is the blank-line delimiter between markdown blocks.
const BlockSeparator = "\n\n"

// ClassificationResult is the outcome of one classification pass.
type ClassificationResult struct {
	// CompleteBlocks is text confirmed safe to hand to a markdown
	// renderer, joined with BlockSeparator.
	CompleteBlocks string
	// PartialBlock is the trailing text not yet confirmed complete;
	// it renders as plain text.
	PartialBlock string
	// IsValid reports whether CompleteBlocks is non-empty.
	IsValid bool
}

var (
	// strictHeadingRe requires the newline after the heading text. A lone
	// "# Title" mid-stream therefore never classifies complete; it
	// settles once the following blank line arrives and the heading
	// becomes a non-final block. Intentional: a heading prefix is
	// indistinguishable from one still being typed out.
	strictHeadingRe = regexp.MustCompile(`^#{1,6}\s+.*\n$`)

	// relaxedHeadingRe only needs heading syntax with some content.
	relaxedHeadingRe = regexp.MustCompile(`^#{1,6}\s+\S`)

	listLineRe = regexp.MustCompile(`^\s*[-*]\s+`)
)

// Classify splits a progressively growing text buffer into confirmed
// complete blocks and a trailing partial block.
//
// Total over all inputs: there is no error path, and empty input yields
// the zero result. Pure function; callers own re-render scheduling.
func Classify(text string) ClassificationResult {
	if text == "" {
		return ClassificationResult{}
	}

	blocks := strings.Split(text, BlockSeparator)

	// Single block: either the whole thing is confirmed complete or the
	// whole thing stays partial.
	if len(blocks) == 1 {
		if isCompleteBlock(text) {
			return ClassificationResult{CompleteBlocks: text, IsValid: true}
		}
		return ClassificationResult{PartialBlock: text}
	}

	// Multi block: everything before the final separator is complete by
	// construction (the author moved past it). Only the tail is suspect.
	complete := strings.Join(blocks[:len(blocks)-1], BlockSeparator)
	last := blocks[len(blocks)-1]

	if isLikelyCompleteTail(last) && complete != "" {
		return ClassificationResult{
			CompleteBlocks: complete + BlockSeparator + last,
			IsValid:        true,
		}
	}

	return ClassificationResult{
		CompleteBlocks: complete,
		PartialBlock:   last,
		IsValid:        complete != "",
	}
}

// isCompleteBlock applies the strict single-block heuristics.
func isCompleteBlock(block string) bool {
	if strictHeadingRe.MatchString(block) {
		return true
	}
	if isListBlock(block) {
		return true
	}
	if isClosedFence(block) {
		return true
	}
	return isBalancedBold(block)
}

// isLikelyCompleteTail applies the relaxed heuristics used for the final
// block when earlier blocks already rendered.
func isLikelyCompleteTail(block string) bool {
	if relaxedHeadingRe.MatchString(block) {
		return true
	}
	if isClosedFence(block) {
		return true
	}
	if strings.HasPrefix(block, "**") {
		return true
	}
	return strings.Contains(block, "\n")
}

// isListBlock reports whether every non-empty line is a list item.
func isListBlock(block string) bool {
	lines := strings.Split(block, "\n")
	matched := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !listLineRe.MatchString(line) {
			return false
		}
		matched++
	}
	return matched > 0
}

// isClosedFence reports whether the block opens with a code fence and
// contains its closing fence.
func isClosedFence(block string) bool {
	return strings.HasPrefix(block, "```") && strings.Count(block, "```") >= 2
}

// isBalancedBold reports whether the block opens with a bold marker and
// every marker is paired.
func isBalancedBold(block string) bool {
	return strings.HasPrefix(block, "**") && strings.Count(block, "**")%2 == 0
}
