// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/solace-tui/internal/api"
)

// loginTimeout bounds the login round trip. Login goes through a plain
// http.Client rather than api.Client because it is the one call made
// without a token.
const loginTimeout = 15 * time.Second

// LoginResult describes a successful authentication.
type LoginResult struct {
	UserID    string
	ExpiresAt time.Time
}

// Manager owns the login lifecycle: authenticate against the backend,
// persist the token through the vault, and hand tokens to API clients.
// Implements api.TokenSource by delegating to the vault.
type Manager struct {
	baseURL    string
	httpClient *http.Client
	vault      *Vault
}

// NewManager creates a session manager persisting into dir.
func NewManager(baseURL, dir string) *Manager {
	if baseURL == "" {
		baseURL = api.DefaultBaseURL
	}
	return &Manager{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: loginTimeout},
		vault:      NewVault(dir),
	}
}

// WithHTTPClient overrides the HTTP client (used by tests).
func (m *Manager) WithHTTPClient(hc *http.Client) *Manager {
	m.httpClient = hc
	return m
}

// Token implements api.TokenSource.
func (m *Manager) Token() (string, error) {
	return m.vault.Token()
}

// Authenticated reports whether a valid session is stored.
func (m *Manager) Authenticated() bool {
	_, err := m.vault.Token()
	return err == nil
}

// UserID returns the stored user ID, or "" when logged out.
func (m *Manager) UserID() string {
	id, err := m.vault.UserID()
	if err != nil {
		return ""
	}
	return id
}

// Login authenticates with the backend and stores the session.
func (m *Manager) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, api.MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var wire struct {
		Token     string    `json:"token"`
		UserID    string    `json:"user_id"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	if wire.Token == "" {
		return nil, errors.New("login response missing token")
	}

	if err := m.vault.Store(wire.Token, wire.UserID, wire.ExpiresAt); err != nil {
		return nil, err
	}
	return &LoginResult{UserID: wire.UserID, ExpiresAt: wire.ExpiresAt}, nil
}

// Logout discards the stored session.
func (m *Manager) Logout() error {
	return m.vault.Clear()
}

// ErrInvalidCredentials indicates the backend rejected the email or
// password.
var ErrInvalidCredentials = errors.New("invalid email or password")
