// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - config inspection and editing from the CLI.
//
// Command: config
// Short:   Show or change configuration
//
// Examples:
//   solace config              Show effective configuration
//   solace config show
//   solace config path         Print the config file location
//   solace config set ui.theme dark

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// HandleConfig runs the config command.
func HandleConfig(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	switch args.Subcommand {
	case "", "show":
		showConfig(cfg)

	case "path":
		fmt.Println(config.Path())

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			fmt.Fprintln(os.Stderr, "usage: solace config set <key> <value>")
			os.Exit(2)
		}
		if err := setConfigKey(cfg, args.ConfigKey, args.ConfigVal); err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			os.Exit(1)
		}
		if err := cfg.Save(); err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError("save: "+err.Error()))
			os.Exit(1)
		}
		fmt.Println(styles.RenderSuccess(args.ConfigKey + " = " + args.ConfigVal))

	default:
		fmt.Fprintf(os.Stderr, "unknown config subcommand %q\n", args.Subcommand)
		os.Exit(2)
	}
}

// setConfigKey applies one dotted-key assignment. Only keys that make
// sense to flip from a shell are exposed.
func setConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "chat.persona":
		cfg.Chat.Persona = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "sync.enabled":
		cfg.Sync.Enabled = value == "true"
	case "storage.enabled":
		cfg.Storage.Enabled = value == "true"
	case "lock.enabled":
		cfg.Lock.Enabled = value == "true"
	default:
		return fmt.Errorf("unknown or read-only key %q", key)
	}
	return nil
}

func showConfig(cfg *config.Config) {
	fmt.Printf("config: %s\n\n", config.Path())
	rows := []struct{ key, value string }{
		{"api.base_url", cfg.API.BaseURL},
		{"chat.persona", cfg.Chat.Persona},
		{"ui.theme", cfg.UI.Theme},
		{"ui.show_timestamps", fmt.Sprint(cfg.UI.ShowTimestamps)},
		{"ui.show_stats", fmt.Sprint(cfg.UI.ShowStats)},
		{"ui.show_mood_tags", fmt.Sprint(cfg.UI.ShowMoodTags)},
		{"sync.enabled", fmt.Sprint(cfg.Sync.Enabled)},
		{"storage.enabled", fmt.Sprint(cfg.Storage.Enabled)},
		{"storage.max_conversations", fmt.Sprint(cfg.Storage.MaxConversations)},
		{"lock.enabled", fmt.Sprint(cfg.Lock.Enabled)},
		{"lock.relock_minutes", fmt.Sprint(cfg.Lock.RelockMinutes)},
	}
	for _, row := range rows {
		fmt.Printf("  %-28s %s\n", row.key, row.value)
	}
}
