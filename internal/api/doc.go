// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the REST client for the solace wellness
// backend: wallet, profile, and behavioral insight endpoints, plus the
// batch client that coalesces queued calls into a single request.
//
// The backend owns all of this data. The client is a thin, typed wrapper:
// auth header, client-side rate limiting, retry with backoff, JSON
// decoding into internal/model types. Nothing here interprets the data.
package api
