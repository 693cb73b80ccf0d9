// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// CREDENTIAL VERIFICATION
// =============================================================================

// ErrInvalidCredentials is returned by a Verifier that rejects a login
// or registration attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks credentials before an identity is established.
// Implementations may call out to a real backend; the default accepts
// everything after a simulated round-trip.
type Verifier interface {
	Verify(ctx context.Context, email, password string) error
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, email, password string) error

// Verify implements Verifier.
func (f VerifierFunc) Verify(ctx context.Context, email, password string) error {
	return f(ctx, email, password)
}

// DefaultLoginDelay is the simulated latency of the mock verifier.
const DefaultLoginDelay = 800 * time.Millisecond

// mockVerifier accepts any credentials after a fixed delay. It honors
// context cancellation so a closing UI does not hang on it.
type mockVerifier struct {
	delay time.Duration
}

// NewMockVerifier returns a Verifier that accepts all credentials after
// the given delay. A zero delay verifies immediately.
func NewMockVerifier(delay time.Duration) Verifier {
	return &mockVerifier{delay: delay}
}

func (v *mockVerifier) Verify(ctx context.Context, email, password string) error {
	if v.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(v.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
