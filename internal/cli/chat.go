// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - plain-terminal chat REPL.
//
// USABILITY: Markdown rendering and history for better CLI experience
//
// Command: chat
// Short:   Interactive chat without the TUI (SSH, screen readers, pipes)
//
// Interactive commands:
//   /help, /h        Show commands
//   /clear, /c       Start a fresh conversation
//   /persona [name]  Show or switch persona
//   /status, /s      Session statistics
//   /quit, /q        Exit (also Ctrl+D)

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/solace-tui/internal/chat"
	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/session"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle  = lipgloss.NewStyle().Foreground(styles.Teal).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(styles.TextSecondary)
	commandStyle = lipgloss.NewStyle().Foreground(styles.Sage)
	warnStyle    = lipgloss.NewStyle().Foreground(styles.Sand)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// replInput wraps liner with persistent history.
type replInput struct {
	line        *liner.State
	historyFile string
}

func newREPLInput() *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &replInput{
		line:        line,
		historyFile: filepath.Join(config.Dir(), "chat_history"),
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *replInput) save() {
	if f, err := os.Create(r.historyFile); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
}

func (r *replInput) close() {
	r.save()
	r.line.Close()
}

// =============================================================================
// CHAT REPL
// =============================================================================

// HandleChat runs the plain REPL.
func HandleChat(args Args) {
	if !IsTTY() {
		fmt.Fprintln(os.Stderr, "chat requires an interactive terminal; use `solace ask` for pipes")
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

	input := newREPLInput()
	defer input.close()

	if !args.Quiet {
		fmt.Println(infoStyle.Render("solace chat - /help for commands, /quit to exit"))
	}

	var history []chat.ChatMessage
	turns := 0
	started := time.Now()

	for {
		text, err := input.line.Prompt(promptStyle.Render("you> "))
		if err != nil {
			// liner.ErrPromptAborted on Ctrl+C, io.EOF on Ctrl+D
			fmt.Println()
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		input.line.AppendHistory(text)

		if strings.HasPrefix(text, "/") {
			if quit := handleREPLCommand(text, &history, &persona, client, turns, started); quit {
				return
			}
			continue
		}

		history = append(history, chat.NewUserMessage(text))
		reply, err := streamTurn(client, history)
		if err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("[!] %v", err)))
			if reply == "" {
				// Keep history consistent: the turn never happened.
				history = history[:len(history)-1]
				continue
			}
		}
		history = append(history, chat.NewAssistantMessage(reply))
		turns++
	}
}

// streamTurn sends one turn and prints tokens as they arrive. It
// returns whatever content streamed, even on error.
func streamTurn(client *chat.Client, history []chat.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	chunks, err := client.Stream(ctx, "", history)
	if err != nil {
		return "", err
	}

	acc := chat.NewAccumulator()
	fmt.Print(commandStyle.Render("solace> "))
	for chunk := range chunks {
		if chunk.HasError() {
			fmt.Println()
			if se, ok := chunk.Error.(*chat.StreamError); ok {
				return se.Partial, se.Err
			}
			return acc.GetContent(), chunk.Error
		}
		acc.Add(chunk)
		if chunk.HasContent() {
			fmt.Print(chunk.Delta)
		}
	}
	fmt.Println()
	if acc.MoodTag != "" {
		fmt.Println(infoStyle.Render("~ " + acc.MoodTag))
	}
	return acc.GetContent(), nil
}

// handleREPLCommand executes a slash command. Returns true to exit.
func handleREPLCommand(text string, history *[]chat.ChatMessage, persona *string, client *chat.Client, turns int, started time.Time) bool {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(infoStyle.Render(
			"/clear fresh conversation | /persona [name] switch voice | /status stats | /quit exit"))

	case "/clear", "/c":
		*history = nil
		fmt.Println(infoStyle.Render("conversation cleared"))

	case "/persona":
		if len(fields) < 2 {
			fmt.Println(infoStyle.Render("persona: " + *persona))
			break
		}
		switch fields[1] {
		case "companion", "coach", "listener":
			*persona = fields[1]
			client.WithPersona(*persona)
			fmt.Println(infoStyle.Render("persona: " + *persona))
		default:
			fmt.Println(warnStyle.Render("[!] persona must be companion, coach, or listener"))
		}

	case "/status", "/s":
		fmt.Println(infoStyle.Render(fmt.Sprintf(
			"%d turns | %d messages | session %s",
			turns, len(*history), time.Since(started).Round(time.Second))))

	default:
		fmt.Println(warnStyle.Render("[!] unknown command " + fields[0] + " (/help)"))
	}
	return false
}
