// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation screen: the message
// transcript, the composer, and the streaming pipeline that moves
// tokens from the companion API into the terminal at a bounded frame
// rate.
//
// The screen is a self-contained Bubble Tea model. The parent program
// forwards messages to Update and composes View into its layout. All
// network and disk work happens inside tea.Cmd functions so the update
// loop never blocks.
package chat
