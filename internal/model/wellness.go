// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// Wellness domain records. All of these are owned by the backend; the
// client fetches and displays them, never mutates them locally (profile
// edits go through the API and come back on the next fetch).

// =============================================================================
// WALLET
// =============================================================================

// WalletBalance is the user's credit balance as reported by the server.
type WalletBalance struct {
	CreditsCents   int64     `json:"credits_cents"`
	PendingCents   int64     `json:"pending_cents"`
	Currency       string    `json:"currency"`
	SubscriptionID string    `json:"subscription_id,omitempty"`
	Tier           string    `json:"tier"`
	RenewsAt       time.Time `json:"renews_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FormatCredits renders the balance as a currency string, e.g. "$12.40".
func (w WalletBalance) FormatCredits() string {
	return formatCents(w.CreditsCents)
}

// TransactionKind discriminates wallet transaction records.
type TransactionKind string

const (
	TxnTopUp        TransactionKind = "topup"
	TxnUsage        TransactionKind = "usage"
	TxnSubscription TransactionKind = "subscription"
	TxnRefund       TransactionKind = "refund"
)

// Transaction is one wallet ledger entry.
type Transaction struct {
	ID          string          `json:"id"`
	Kind        TransactionKind `json:"kind"`
	AmountCents int64           `json:"amount_cents"` // negative = charge
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IsCredit reports whether the transaction added funds.
func (t Transaction) IsCredit() bool {
	return t.AmountCents > 0
}

// FormatAmount renders the signed amount, e.g. "+$5.00" or "-$0.12".
func (t Transaction) FormatAmount() string {
	if t.AmountCents >= 0 {
		return "+" + formatCents(t.AmountCents)
	}
	return "-" + formatCents(-t.AmountCents)
}

// =============================================================================
// PROFILE
// =============================================================================

// UserProfile is the server-owned profile record.
type UserProfile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Tier        string    `json:"tier"`
	Persona     string    `json:"persona"`
	Timezone    string    `json:"timezone,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`

	// Streak and engagement counters maintained by the backend.
	CheckInStreak int `json:"check_in_streak"`
	SessionCount  int `json:"session_count"`
}

// =============================================================================
// BEHAVIORAL INSIGHTS
// =============================================================================

// BehaviorMetric is one named metric from the behavioral analysis engine.
// Score and Delta are unit-interval values; interpretation happens
// server-side, this client only renders them.
type BehaviorMetric struct {
	Name       string    `json:"name"`
	Label      string    `json:"label"`
	Score      float64   `json:"score"` // 0..1
	Delta      float64   `json:"delta"` // change since last report
	Confidence float64   `json:"confidence"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TrendArrow returns a one-character trend indicator for the metric.
func (b BehaviorMetric) TrendArrow() string {
	switch {
	case b.Delta > 0.005:
		return "+"
	case b.Delta < -0.005:
		return "-"
	default:
		return "="
	}
}

// MoodPoint is one mood sample in a time series.
type MoodPoint struct {
	At    time.Time `json:"at"`
	Mood  string    `json:"mood"`
	Score float64   `json:"score"` // 0..1
}

// InsightReport bundles the analytics screen payload.
type InsightReport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Summary     string           `json:"summary"` // markdown
	Metrics     []BehaviorMetric `json:"metrics"`
	MoodTrend   []MoodPoint      `json:"mood_trend"`
}

// =============================================================================
// HELPERS
// =============================================================================

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
