// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the solace
// client: conversations and messages (including in-flight streaming
// state), and the wellness domain records the backend owns and this
// client merely displays: wallet balances, transactions, user profile,
// and behavioral insight metrics.
package model
