// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - connection and session status.
//
// Command: status
// Short:   Show backend, session, cache, and lock status
// Aliases: s

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/solace-tui/internal/api"
	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/session"
	"github.com/jeranaias/solace-tui/internal/storage"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// statusReport is the machine-readable status payload.
type statusReport struct {
	Version       string `json:"version"`
	BaseURL       string `json:"base_url"`
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	Reachable     bool   `json:"reachable"`
	CachedChats   int    `json:"cached_conversations"`
	LockEnrolled  bool   `json:"lock_enrolled"`
	ConfigPath    string `json:"config_path"`
}

// HandleStatus runs the status command.
func HandleStatus(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	manager := session.NewManager(cfg.API.BaseURL, config.Dir())
	report := statusReport{
		Version:       Version,
		BaseURL:       cfg.API.BaseURL,
		Authenticated: manager.Authenticated(),
		UserID:        manager.UserID(),
		ConfigPath:    config.Path(),
	}

	if report.Authenticated {
		report.Reachable = probeBackend(cfg, manager)
	}

	if cfg.Storage.Enabled {
		if store, err := storage.Open(cfg.CachePath()); err == nil {
			if items, err := store.List(context.Background()); err == nil {
				report.CachedChats = len(items)
			}
			store.Close()
		}
	}

	lock := session.NewAppLock(filepath.Join(config.Dir(), "lock.json"),
		time.Duration(cfg.Lock.RelockMinutes)*time.Minute)
	report.LockEnrolled = lock.Enrolled()

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)
		return
	}

	printStatus(report)
}

// probeBackend makes one cheap authenticated call.
func probeBackend(cfg *config.Config, manager *session.Manager) bool {
	client := api.NewClient(cfg.API.BaseURL, manager)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := client.Profile(ctx)
	return err == nil
}

func printStatus(report statusReport) {
	fmt.Printf("solace %s\n\n", report.Version)
	fmt.Printf("  backend    %s\n", report.BaseURL)

	if report.Authenticated {
		fmt.Printf("  session    %s\n", styles.RenderStatus(true, "signed in ("+report.UserID+")"))
		fmt.Printf("  reachable  %s\n", styles.RenderStatus(report.Reachable, reachLabel(report.Reachable)))
	} else {
		fmt.Printf("  session    %s\n", styles.RenderStatus(false, "not signed in (solace login)"))
	}

	fmt.Printf("  cache      %d conversations\n", report.CachedChats)
	if report.LockEnrolled {
		fmt.Printf("  app lock   %s\n", styles.RenderStatus(true, "enrolled"))
	} else {
		fmt.Printf("  app lock   off\n")
	}
	fmt.Printf("  config     %s\n", report.ConfigPath)
}

func reachLabel(ok bool) string {
	if ok {
		return "online"
	}
	return "unreachable"
}
