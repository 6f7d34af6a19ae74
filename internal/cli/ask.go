// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - one-shot question handler.
//
// Command: ask
// Short:   Ask a single question and print the markdown answer
//
// Examples:
//   solace ask "how do I wind down before sleep?"
//   solace ask --persona coach "help me plan tomorrow"
//   solace ask --plain "quick grounding exercise" > exercise.txt

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jeranaias/solace-tui/internal/chat"
	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/markdown"
	"github.com/jeranaias/solace-tui/internal/session"
)

// askTimeout bounds a one-shot answer.
const askTimeout = 2 * time.Minute

// HandleAsk runs the ask command.
func HandleAsk(args Args) {
	if strings.TrimSpace(args.Query) == "" {
		fmt.Fprintln(os.Stderr, "usage: solace ask \"question\"")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	manager := session.NewManager(cfg.API.BaseURL, config.Dir())
	if !manager.Authenticated() {
		fmt.Fprintln(os.Stderr, "not signed in: run `solace login` first")
		os.Exit(1)
	}

	persona := cfg.Chat.Persona
	if args.Persona != "" {
		persona = args.Persona
	}
	client := chat.NewClient(cfg.API.BaseURL, manager).WithPersona(persona)

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	// Ctrl+C keeps whatever partial answer already streamed.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	chunks, err := client.Stream(ctx, "", []chat.ChatMessage{
		chat.NewUserMessage(args.Query),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "stream: %v\n", err)
		os.Exit(1)
	}

	acc := chat.NewAccumulator()
	var streamErr error
	for chunk := range chunks {
		if chunk.HasError() {
			streamErr = chunk.Error
			break
		}
		acc.Add(chunk)
		if args.Plain && chunk.HasContent() {
			fmt.Print(chunk.Delta)
		}
	}

	content := acc.GetContent()
	if streamErr != nil {
		if se, ok := streamErr.(*chat.StreamError); ok && se.Partial != "" {
			content = se.Partial
		}
		fmt.Fprintf(os.Stderr, "\n%v\n", streamErr)
		if content == "" {
			os.Exit(1)
		}
	}

	if args.Plain {
		fmt.Println()
		return
	}

	printMarkdown(content, args)
	if args.Verbose && !args.Quiet && acc.MoodTag != "" {
		fmt.Fprintf(os.Stderr, "mood: %s\n", acc.MoodTag)
	}
}

// printMarkdown renders the answer through glamour, falling back to
// raw text when rendering fails or stdout is piped.
func printMarkdown(content string, args Args) {
	if !ColorEnabled() {
		fmt.Println(strings.TrimRight(content, "\n"))
		return
	}
	renderer, err := markdown.NewRenderer(GetTerminalWidth())
	if err != nil {
		fmt.Println(strings.TrimRight(content, "\n"))
		return
	}
	fmt.Println(strings.TrimRight(renderer.RenderComplete(content), "\n"))
}
