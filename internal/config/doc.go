// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// solace client.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation. File locations in order of precedence:
//   - path set via SOLACE_CONFIG
//   - ~/.solace/config.toml
//   - built-in defaults
package config
