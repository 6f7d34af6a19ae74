// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// lock.go - wallet app-lock management.
//
// SECURITY: passphrase is argon2id-hashed; TOTP secret never prints
// after enrollment.
//
// Command: lock
// Short:   Manage the passphrase guarding the wallet screen
//
// Examples:
//   solace lock set          Enroll a passphrase
//   solace lock totp         Add a TOTP second factor
//   solace lock off          Remove the lock (requires passphrase)
//   solace lock status       Show enrollment state

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/session"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// HandleLock runs the lock command.
func HandleLock(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	lock := session.NewAppLock(filepath.Join(config.Dir(), "lock.json"),
		time.Duration(cfg.Lock.RelockMinutes)*time.Minute)

	switch args.Subcommand {
	case "", "status":
		lockStatus(lock, cfg)

	case "set":
		requireTTY()
		pass, err := ReadPassword("new passphrase: ")
		exitOn(err)
		again, err := ReadPassword("repeat: ")
		exitOn(err)
		if pass != again {
			fmt.Fprintln(os.Stderr, styles.RenderError("passphrases do not match"))
			os.Exit(1)
		}
		exitOn(lock.Enroll(pass))
		cfg.Lock.Enabled = true
		exitOn(cfg.Save())
		fmt.Println(styles.RenderSuccess("wallet lock enrolled"))

	case "totp":
		requireTTY()
		pass, err := ReadPassword("passphrase: ")
		exitOn(err)
		account := "solace"
		manager := session.NewManager(cfg.API.BaseURL, config.Dir())
		if id := manager.UserID(); id != "" {
			account = id
		}
		url, err := lock.EnrollTOTP(pass, account)
		exitOn(err)
		cfg.Lock.TOTPEnabled = true
		exitOn(cfg.Save())
		fmt.Println(styles.RenderSuccess("TOTP enrolled - add this URL to your authenticator now:"))
		fmt.Println(url)
		fmt.Println(styles.RenderWarning("it will not be shown again"))

	case "off", "remove":
		requireTTY()
		pass, err := ReadPassword("passphrase: ")
		exitOn(err)
		exitOn(lock.Remove(pass))
		cfg.Lock.Enabled = false
		cfg.Lock.TOTPEnabled = false
		exitOn(cfg.Save())
		fmt.Println(styles.RenderSuccess("wallet lock removed"))

	default:
		fmt.Fprintf(os.Stderr, "unknown lock subcommand %q\n", args.Subcommand)
		os.Exit(2)
	}
}

func lockStatus(lock *session.AppLock, cfg *config.Config) {
	if !lock.Enrolled() {
		fmt.Println("wallet lock: off (solace lock set)")
		return
	}
	fmt.Println(styles.RenderStatus(true, "wallet lock enrolled"))
	if lock.TOTPEnabled() {
		fmt.Println(styles.RenderStatus(true, "TOTP second factor enabled"))
	}
	fmt.Printf("relocks after %d minutes idle\n", cfg.Lock.RelockMinutes)
}

func requireTTY() {
	if !IsTTY() {
		fmt.Fprintln(os.Stderr, "this command requires an interactive terminal")
		os.Exit(2)
	}
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(1)
	}
}
