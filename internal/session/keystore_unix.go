//go:build !windows
// +build !windows

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"os"
)

// restrictPermissions enforces owner-only access on the key file.
func restrictPermissions(path string) error {
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to restrict key permissions: %w", err)
	}
	return nil
}
