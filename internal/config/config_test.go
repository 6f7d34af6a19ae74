// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Chat.Persona != "companion" {
		t.Errorf("default persona = %q", cfg.Chat.Persona)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("default theme = %q", cfg.UI.Theme)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom missing file: %v", err)
	}
	if cfg.API.BaseURL != Default().API.BaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1"

[chat]
persona = "coach"

[ui]
theme = "dark"
compact_mode = true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Chat.Persona != "coach" {
		t.Errorf("persona = %q, want coach", cfg.Chat.Persona)
	}
	if cfg.UI.Theme != "dark" || !cfg.UI.CompactMode {
		t.Errorf("ui = %+v", cfg.UI)
	}
	// Untouched sections keep defaults.
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("timeout = %d, want default 30", cfg.API.TimeoutSecs)
	}
}

func TestLoadFromRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[ui]\ntheme = \"sepia\"\n"), 0600)

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for unknown theme")
	}

	os.WriteFile(path, []byte("[chat]\npersona = \"drill-sergeant\"\n"), 0600)
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for unknown persona")
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := Default()
	cfg.Chat.StreamMaxFPS = 500
	cfg.API.TimeoutSecs = -1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Chat.StreamMaxFPS != 30 {
		t.Errorf("fps = %d, want clamped 30", cfg.Chat.StreamMaxFPS)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("timeout = %d, want clamped 30", cfg.API.TimeoutSecs)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SOLACE_API_URL", "http://localhost:9090")
	t.Setenv("SOLACE_THEME", "light")
	t.Setenv("SOLACE_SYNC", "false")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:9090" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	if cfg.Sync.Enabled {
		t.Error("sync should be disabled via env")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Chat.Persona = "listener"
	cfg.UI.ShowTimestamps = true

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Chat.Persona != "listener" || !loaded.UI.ShowTimestamps {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	os.WriteFile(path, []byte("[chat]\npersona = \"companion\"\n"), 0600)

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	if err := w.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	os.WriteFile(path, []byte("[chat]\npersona = \"coach\"\n"), 0600)

	select {
	case cfg := <-reloaded:
		if cfg.Chat.Persona != "coach" {
			t.Errorf("reloaded persona = %q", cfg.Chat.Persona)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
