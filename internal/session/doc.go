// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the authenticated backend session and the
// optional local app lock.
//
// The auth token is held encrypted at rest (AES-GCM under a random
// master key kept in a restricted keystore file) so a copied home
// directory does not leak a usable credential. The app lock is a local
// passphrase (argon2id) with optional TOTP second factor that gates the
// wallet screen; it is purely client-side and independent of backend
// auth.
package session
