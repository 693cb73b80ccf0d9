// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat manages the conversation collection for the active
// identity and runs the request/response exchange with the completion
// backend.
//
// The manager never surfaces backend failures to the conversation: a
// failed completion is substituted with a fixed fallback reply so every
// user message is always answered by exactly one assistant message.
package chat
