// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the chatai application:
// atomic file writes for crash-safe persistence and rune-aware string
// truncation for titles and previews.
package util
