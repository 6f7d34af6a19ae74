// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/solace-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete solace client configuration.
type Config struct {
	Version string `toml:"version"`

	// API backend configuration
	API APIConfig `toml:"api"`

	// Chat behavior
	Chat ChatConfig `toml:"chat"`

	// Sync event stream
	Sync SyncConfig `toml:"sync"`

	// Local offline cache
	Storage StorageConfig `toml:"storage"`

	// App lock for the wallet screen
	Lock LockConfig `toml:"lock"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// APIConfig configures the wellness backend client.
type APIConfig struct {
	// BaseURL is the backend root, e.g. "https://api.solaceapp.io".
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout for non-streaming calls.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries for retryable request failures.
	MaxRetries int `toml:"max_retries"`
	// RatePerSec caps outgoing requests client-side (0 = default).
	RatePerSec float64 `toml:"rate_per_sec"`
	// BatchWindowMs is how long the batch client waits to coalesce
	// queued calls into one request.
	BatchWindowMs int `toml:"batch_window_ms"`
}

// ChatConfig configures chat streaming behavior.
type ChatConfig struct {
	// Persona selects the companion voice: "companion", "coach", "listener".
	Persona string `toml:"persona"`
	// StreamBatchSize is tokens per render batch.
	StreamBatchSize int `toml:"stream_batch_size"`
	// StreamMaxFPS caps streaming re-renders per second.
	StreamMaxFPS int `toml:"stream_max_fps"`
}

// SyncConfig configures the server event subscription.
type SyncConfig struct {
	// Enabled toggles the background sync stream.
	Enabled bool `toml:"enabled"`
	// ReconnectSecs is the base reconnect delay after a dropped stream.
	ReconnectSecs int `toml:"reconnect_secs"`
}

// StorageConfig configures the local conversation cache.
type StorageConfig struct {
	// Enabled toggles offline caching of conversations.
	Enabled bool `toml:"enabled"`
	// Path to the sqlite database (empty = ~/.solace/cache.db).
	Path string `toml:"path"`
	// MaxConversations retained locally before the oldest are evicted.
	MaxConversations int `toml:"max_conversations"`
}

// LockConfig configures the optional app lock guarding the wallet screen.
type LockConfig struct {
	// Enabled requires unlocking before the wallet screen opens.
	Enabled bool `toml:"enabled"`
	// TOTPEnabled additionally requires a TOTP code, not just the passphrase.
	TOTPEnabled bool `toml:"totp_enabled"`
	// RelockMinutes re-locks after this much inactivity.
	RelockMinutes int `toml:"relock_minutes"`
}

// UIConfig contains UI preferences.
type UIConfig struct {
	// Theme: "auto", "dark", "light".
	Theme string `toml:"theme"`
	// ShowTimestamps toggles per-message timestamps.
	ShowTimestamps bool `toml:"show_timestamps"`
	// ShowStats toggles the tok/s line under assistant replies.
	ShowStats bool `toml:"show_stats"`
	// ShowMoodTags toggles mood annotations on assistant bubbles.
	ShowMoodTags bool `toml:"show_mood_tags"`
	// CompactMode reduces padding for narrow terminals.
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:       "https://api.solaceapp.io",
			TimeoutSecs:   30,
			MaxRetries:    3,
			RatePerSec:    5,
			BatchWindowMs: 150,
		},
		Chat: ChatConfig{
			Persona:         "companion",
			StreamBatchSize: 15,
			StreamMaxFPS:    30,
		},
		Sync: SyncConfig{
			Enabled:       true,
			ReconnectSecs: 2,
		},
		Storage: StorageConfig{
			Enabled:          true,
			MaxConversations: 200,
		},
		Lock: LockConfig{
			RelockMinutes: 5,
		},
		UI: UIConfig{
			Theme:        "auto",
			ShowStats:    true,
			ShowMoodTags: true,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Dir returns the solace configuration directory (~/.solace).
func Dir() string {
	if dir := os.Getenv("SOLACE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".solace"
	}
	return filepath.Join(home, ".solace")
}

// Path returns the active config file path.
func Path() string {
	if p := os.Getenv("SOLACE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the configuration from disk, applies environment overrides,
// and validates. A missing file is not an error: defaults apply.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies SOLACE_* environment variables on top of the
// file values. Only the knobs that make sense per invocation are exposed.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SOLACE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SOLACE_PERSONA"); v != "" {
		c.Chat.Persona = v
	}
	if v := os.Getenv("SOLACE_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("SOLACE_SYNC"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Sync.Enabled = b
		}
	}
	if v := os.Getenv("SOLACE_OFFLINE_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Storage.Enabled = b
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks values and clamps the ones with hard bounds.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = 30
	}
	if c.API.MaxRetries < 0 {
		c.API.MaxRetries = 0
	}
	if c.API.RatePerSec <= 0 {
		c.API.RatePerSec = 5
	}
	if c.API.BatchWindowMs <= 0 {
		c.API.BatchWindowMs = 150
	}

	switch c.Chat.Persona {
	case "companion", "coach", "listener":
	case "":
		c.Chat.Persona = "companion"
	default:
		return fmt.Errorf("chat.persona %q is not one of companion, coach, listener", c.Chat.Persona)
	}
	if c.Chat.StreamBatchSize <= 0 {
		c.Chat.StreamBatchSize = 15
	}
	if c.Chat.StreamMaxFPS <= 0 || c.Chat.StreamMaxFPS > 60 {
		c.Chat.StreamMaxFPS = 30
	}

	if c.Sync.ReconnectSecs <= 0 {
		c.Sync.ReconnectSecs = 2
	}
	if c.Storage.MaxConversations <= 0 {
		c.Storage.MaxConversations = 200
	}
	if c.Lock.RelockMinutes <= 0 {
		c.Lock.RelockMinutes = 5
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	case "":
		c.UI.Theme = "auto"
	default:
		return fmt.Errorf("ui.theme %q is not one of auto, dark, light", c.UI.Theme)
	}

	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// RequestTimeout returns the API timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// BatchWindow returns the batch coalescing window as a duration.
func (c *Config) BatchWindow() time.Duration {
	return time.Duration(c.API.BatchWindowMs) * time.Millisecond
}

// ReconnectDelay returns the base sync reconnect delay.
func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.Sync.ReconnectSecs) * time.Second
}

// CachePath returns the sqlite cache path, defaulting under Dir().
func (c *Config) CachePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(Dir(), "cache.db")
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to its default path atomically.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the configuration to an explicit path atomically.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults with a warning on stderr; an
// unreadable config should not keep the app from starting.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide configuration (used by the hot
// reload watcher and by tests).
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}
