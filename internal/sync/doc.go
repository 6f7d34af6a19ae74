// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sync subscribes to the backend's server-sent event feed and
// forwards update notifications (wallet, profile, insight metrics) to
// the UI. It is a thin consumer: reconnect with backoff, decode, fan
// out. No state is kept here beyond the connection itself.
package sync
