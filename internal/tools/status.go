// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"fmt"

	"github.com/jeranaias/solace-tui/internal/chat"
)

// =============================================================================
// STATUS TYPE
// =============================================================================

// Status is the lifecycle state of one tool execution.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ParseStatus maps a wire status string onto the known set; unknown
// strings degrade to queued rather than erroring (display-only data).
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusQueued, StatusRunning, StatusSucceeded, StatusFailed:
		return Status(s)
	default:
		return StatusQueued
	}
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Icon returns the ASCII indicator for the status.
func (s Status) Icon() string {
	switch s {
	case StatusRunning:
		return "[~]"
	case StatusSucceeded:
		return "[OK]"
	case StatusFailed:
		return "[X]"
	default:
		return "[.]"
	}
}

// =============================================================================
// EXECUTION RECORD
// =============================================================================

// Execution is the tracked state of one backend tool run.
type Execution struct {
	ID     string
	Name   string
	Status Status
	Detail string
}

// displayNames maps backend tool identifiers to friendly labels.
var displayNames = map[string]string{
	"mood_check":        "Mood check",
	"journal_lookup":    "Journal lookup",
	"breathing_plan":    "Breathing plan",
	"sleep_analysis":    "Sleep analysis",
	"web_search":        "Web search",
	"schedule_reminder": "Reminder",
}

// DisplayName returns the friendly label for the execution's tool.
func (e Execution) DisplayName() string {
	if name, ok := displayNames[e.Name]; ok {
		return name
	}
	return e.Name
}

// Line renders the single-line status form, e.g. "[~] Mood check".
func (e Execution) Line() string {
	line := e.Status.Icon() + " " + e.DisplayName()
	if e.Detail != "" {
		line += ": " + e.Detail
	}
	return line
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker aggregates tool events for one streaming response. Owned by
// the chat screen; reset when a new stream starts. Not safe for
// concurrent use and does not need to be; events arrive through the
// single Bubble Tea update loop.
type Tracker struct {
	order []string
	byID  map[string]*Execution
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{byID: make(map[string]*Execution)}
}

// Apply folds one stream event into the tracked state.
func (t *Tracker) Apply(ev chat.ToolEvent) {
	if ev.ID == "" {
		return
	}
	exec, ok := t.byID[ev.ID]
	if !ok {
		exec = &Execution{ID: ev.ID, Name: ev.Name}
		t.byID[ev.ID] = exec
		t.order = append(t.order, ev.ID)
	}
	if ev.Name != "" {
		exec.Name = ev.Name
	}
	exec.Status = ParseStatus(ev.Status)
	if ev.Detail != "" {
		exec.Detail = ev.Detail
	}
}

// Reset clears all tracked executions.
func (t *Tracker) Reset() {
	t.order = t.order[:0]
	t.byID = make(map[string]*Execution)
}

// Executions returns tracked executions in arrival order.
func (t *Tracker) Executions() []Execution {
	out := make([]Execution, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.byID[id])
	}
	return out
}

// Active returns the first non-terminal execution, if any.
func (t *Tracker) Active() (Execution, bool) {
	for _, id := range t.order {
		if !t.byID[id].Status.Terminal() {
			return *t.byID[id], true
		}
	}
	return Execution{}, false
}

// Counts returns (done, failed, total).
func (t *Tracker) Counts() (done, failed, total int) {
	total = len(t.order)
	for _, id := range t.order {
		switch t.byID[id].Status {
		case StatusSucceeded:
			done++
		case StatusFailed:
			failed++
		}
	}
	return done, failed, total
}

// Summary renders the status-line form: the active tool while one runs,
// a completion tally once all have settled, empty when nothing ran.
func (t *Tracker) Summary() string {
	if len(t.order) == 0 {
		return ""
	}
	if active, ok := t.Active(); ok {
		done, _, total := t.Counts()
		return fmt.Sprintf("%s (%d/%d)", active.Line(), done, total)
	}
	done, failed, total := t.Counts()
	if failed > 0 {
		return fmt.Sprintf("[X] %d of %d tools failed", failed, total)
	}
	return fmt.Sprintf("[OK] %d tools done", done)
}
