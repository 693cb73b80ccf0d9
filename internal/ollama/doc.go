// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for the local Ollama generate API.
//
// The client issues a single non-streaming POST to /api/generate per call
// and never retries. Failures are reported as typed *ClientError values so
// callers can distinguish an unreachable server (ErrNotRunning), a timeout
// (ErrTimeout), a malformed or non-2xx reply (ErrTypeInvalidResponse), and
// a well-formed reply with no response text (ErrEmptyResponse).
//
// # Usage
//
//	client := ollama.NewClient()
//	text, err := client.Generate(ctx, "llama3.2:1b", prompt)
//	if ollama.IsNotRunning(err) {
//	    // substitute fallback text
//	}
package ollama
