// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the offline conversation cache.
//
// Conversations and their messages are kept in a local SQLite database
// so recent history survives restarts and is readable without a network
// connection. The backend remains the source of truth; this cache only
// mirrors what the client has seen.
package storage
