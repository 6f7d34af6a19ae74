// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package screens holds the non-chat tabs: wallet, profile, insights,
// and settings. Each is a Bubble Tea sub-model with the same shape:
// fetch on focus, refresh on `r`, render bound server records. Data is
// server-owned; the only local mutation is the settings screen writing
// preferences back to the config file.
package screens
