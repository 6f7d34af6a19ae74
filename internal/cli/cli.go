// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - argument routing for the solace command.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"runtime"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdLogout
	CmdStatus
	CmdConfig
	CmdLock
	CmdSessions
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Plain   bool
	Persona string

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Confirm    bool

	// Raw args remaining after the command word
	Raw []string
}

const usageText = `solace - terminal companion for the Solace wellness service

Usage:
  solace                      Start the TUI (default)
  solace ask "question"       One-shot question, markdown answer
  solace chat                 Plain-terminal chat REPL
  solace login                Sign in and store the session
  solace logout               Clear the stored session
  solace status, s            Show connection and session status
  solace config [show|set|path]  Configuration
  solace lock [set|totp|off|status]  Wallet app lock
  solace sessions [list|delete]  Cached conversations
  solace version, -v          Show version
  solace help, -h             Show this help

Flags:
  --persona NAME    Companion voice for ask/chat (companion, coach, listener)
  --plain           ask: skip markdown rendering
  --json            status/sessions: machine-readable output
  -q, --quiet       Minimal output
  --verbose         Extra diagnostics

Chat REPL commands:
  /help             Show commands
  /clear            Start a fresh conversation
  /persona [name]   Show or switch persona
  /status           Session statistics
  /quit             Exit (also Ctrl+D)

Config keys settable from the CLI:
  api.base_url, chat.persona, ui.theme, sync.enabled, storage.enabled

Examples:
  solace ask "how do I wind down before sleep?"
  solace chat --persona coach
  solace config set ui.theme dark
  solace lock set
`

// PrintUsage writes the help text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information.
func PrintVersion() {
	fmt.Printf("solace %s (%s) built %s, %s/%s\n",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}

// Parse reads os.Args and returns the command plus its arguments.
func Parse() (Command, Args) {
	raw := os.Args[1:]
	if len(raw) == 0 {
		return CmdTUI, Args{}
	}

	cmdWord := raw[0]
	parser := NewArgParser(raw[1:])

	args := Args{
		Quiet:      parser.BoolFlag("quiet", "q"),
		Verbose:    parser.BoolFlag("verbose"),
		JSON:       parser.BoolFlag("json"),
		Plain:      parser.BoolFlag("plain"),
		Persona:    parser.Flag("persona", "p"),
		Confirm:    parser.BoolFlag("confirm"),
		Subcommand: parser.Subcommand(),
		Raw:        raw[1:],
	}

	switch cmdWord {
	case "ask":
		args.Query = parser.Rest()
		return CmdAsk, args
	case "chat":
		return CmdChat, args
	case "login":
		return CmdLogin, args
	case "logout":
		return CmdLogout, args
	case "status", "s":
		return CmdStatus, args
	case "config":
		pos := parser.Positional()
		if len(pos) > 0 {
			args.ConfigKey = pos[0]
		}
		if len(pos) > 1 {
			args.ConfigVal = pos[1]
		}
		return CmdConfig, args
	case "lock":
		return CmdLock, args
	case "sessions", "session":
		return CmdSessions, args
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdWord)
		return CmdHelp, args
	}
}

// HandleVersion prints version info.
func HandleVersion() {
	PrintVersion()
}

// HandleHelp prints usage.
func HandleHelp() {
	PrintUsage()
}
