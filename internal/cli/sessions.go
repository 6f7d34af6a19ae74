// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - cached conversation management.
//
// Command: sessions
// Short:   List or delete locally cached conversations
//
// Examples:
//   solace sessions                 List cached conversations
//   solace sessions --json          Machine-readable list
//   solace sessions delete <id>     Delete one conversation
//   solace sessions delete --confirm --all   Wipe the cache

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/storage"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
	"github.com/jeranaias/solace-tui/internal/util"
)

// HandleSessions runs the sessions command.
func HandleSessions(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Storage.Enabled {
		fmt.Fprintln(os.Stderr, "offline cache is disabled (solace config set storage.enabled true)")
		os.Exit(1)
	}
	store, err := storage.Open(cfg.CachePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "cache: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch args.Subcommand {
	case "", "list":
		listSessions(store, args.JSON)
	case "delete", "rm":
		deleteSessions(store, args, NewArgParser(args.Raw))
	default:
		fmt.Fprintf(os.Stderr, "unknown sessions subcommand %q\n", args.Subcommand)
		os.Exit(2)
	}
}

func listSessions(store *storage.ConversationStore, asJSON bool) {
	metas, err := store.List(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "cache: %v\n", err)
		os.Exit(1)
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(metas); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if len(metas) == 0 {
		fmt.Println("no cached conversations")
		return
	}
	for _, meta := range metas {
		title := meta.Title
		if title == "" {
			title = util.TruncateRunes(meta.Preview, 40)
		}
		fmt.Printf("%-12s  %-19s  %3d msgs  %s\n",
			meta.ID, meta.UpdatedAt.Format("2006-01-02 15:04"), meta.MessageCount, title)
	}
}

func deleteSessions(store *storage.ConversationStore, args Args, parser *ArgParser) {
	if parser.BoolFlag("all") {
		if !args.Confirm {
			fmt.Fprintln(os.Stderr, "refusing to wipe the cache without --confirm")
			os.Exit(2)
		}
		if err := store.Clear(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "cache: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(styles.RenderSuccess("cache cleared"))
		return
	}

	var id string
	if pos := parser.Positional(); len(pos) > 0 {
		id = pos[0]
	}
	if id == "" {
		fmt.Fprintln(os.Stderr, "usage: solace sessions delete <id>")
		os.Exit(2)
	}
	if err := store.Delete(context.Background(), id); err != nil {
		if err == storage.ErrConversationNotFound {
			fmt.Fprintf(os.Stderr, "no cached conversation %q\n", id)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "cache: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(styles.RenderSuccess("deleted " + id))
}
