// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jeranaias/solace-tui/internal/model"
)

// Typed endpoint wrappers. One method per backend operation the screens
// bind to; pagination follows the backend's limit/offset convention.

// =============================================================================
// WALLET
// =============================================================================

// Wallet fetches the current credit balance.
func (c *Client) Wallet(ctx context.Context) (*model.WalletBalance, error) {
	var out model.WalletBalance
	if err := c.do(ctx, http.MethodGet, "/v1/wallet", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transactions fetches a page of wallet ledger entries, newest first.
func (c *Client) Transactions(ctx context.Context, limit, offset int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = 25
	}
	path := fmt.Sprintf("/v1/wallet/transactions?limit=%d&offset=%d", limit, offset)

	var out struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// =============================================================================
// PROFILE
// =============================================================================

// Profile fetches the user profile.
func (c *Client) Profile(ctx context.Context) (*model.UserProfile, error) {
	var out model.UserProfile
	if err := c.do(ctx, http.MethodGet, "/v1/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProfileUpdate is the writable subset of the profile record.
type ProfileUpdate struct {
	DisplayName string `json:"display_name,omitempty"`
	Persona     string `json:"persona,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// UpdateProfile submits profile edits and returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*model.UserProfile, error) {
	var out model.UserProfile
	if err := c.do(ctx, http.MethodPut, "/v1/profile", upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// INSIGHTS
// =============================================================================

// Insights fetches the behavioral insight report for the analytics
// screen. window is a backend-defined range token ("7d", "30d").
func (c *Client) Insights(ctx context.Context, window string) (*model.InsightReport, error) {
	path := "/v1/insights/report"
	if window != "" {
		path += "?window=" + url.QueryEscape(window)
	}

	var out model.InsightReport
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Metrics fetches just the behavior metric list (cheaper than the full
// report; used by the status bar refresh).
func (c *Client) Metrics(ctx context.Context) ([]model.BehaviorMetric, error) {
	var out struct {
		Metrics []model.BehaviorMetric `json:"metrics"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/insights/metrics", nil, &out); err != nil {
		return nil, err
	}
	return out.Metrics, nil
}
