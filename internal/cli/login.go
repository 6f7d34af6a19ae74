// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - session establishment and teardown.
//
// Command: login
// Short:   Sign in to the Solace backend and store the session token
//
// The token is stored encrypted at rest; see internal/session.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/session"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// loginTimeout bounds the login round-trip.
const loginTimeout = 30 * time.Second

// HandleLogin runs the login command.
func HandleLogin(args Args) {
	if !IsTTY() {
		fmt.Fprintln(os.Stderr, "login requires an interactive terminal")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	manager := session.NewManager(cfg.API.BaseURL, config.Dir())

	if manager.Authenticated() && !args.Confirm {
		fmt.Println(styles.RenderInfo("already signed in; use --confirm to sign in again"))
		return
	}

	fmt.Print("email: ")
	reader := bufio.NewReader(os.Stdin)
	email, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		os.Exit(1)
	}
	email = strings.TrimSpace(email)

	password, err := ReadPassword("password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()

	result, err := manager.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			fmt.Fprintln(os.Stderr, styles.RenderError("sign-in failed: wrong email or password"))
		} else {
			fmt.Fprintln(os.Stderr, styles.RenderError("sign-in failed: "+err.Error()))
		}
		os.Exit(1)
	}

	fmt.Println(styles.RenderSuccess("signed in as " + result.UserID))
	if !args.Quiet {
		fmt.Println(styles.RenderInfo("session expires " + result.ExpiresAt.Format("Jan 2, 3:04 PM")))
	}
}

// HandleLogout clears the stored session.
func HandleLogout(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	manager := session.NewManager(cfg.API.BaseURL, config.Dir())

	if err := manager.Logout(); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError("logout: "+err.Error()))
		os.Exit(1)
	}
	fmt.Println(styles.RenderSuccess("signed out"))
}
