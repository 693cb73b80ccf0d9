// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity manages the current user session: login, registration,
// guest access, logout, and restoring a persisted identity on startup.
//
// Credential verification is pluggable through the Verifier interface.
// The default verifier accepts any credentials after a short simulated
// delay, which matches the local-first deployment where there is no
// account backend to call.
package identity
