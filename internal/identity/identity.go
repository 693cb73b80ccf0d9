// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity owns the current user of the system and its lifecycle.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// IDENTITY TYPE
// =============================================================================

// Identity is the record representing the current user. It is immutable
// once created; logout destroys it rather than mutating it.
type Identity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	IsGuest bool   `json:"isGuest"`
}

// NewUserIdentity synthesizes an authenticated identity. The display name
// falls back to the part of the email before the @ when name is empty.
func NewUserIdentity(name, email string) *Identity {
	if name == "" {
		name = emailLocalPart(email)
	}
	return &Identity{
		ID:    "user-" + uuid.NewString(),
		Name:  name,
		Email: email,
	}
}

// NewGuestIdentity synthesizes a guest identity.
func NewGuestIdentity() *Identity {
	return &Identity{
		ID:      "guest-" + uuid.NewString(),
		Name:    "Guest User",
		IsGuest: true,
	}
}

// emailLocalPart returns everything before the first @.
func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// =============================================================================
// STATUS TYPE
// =============================================================================

// Status describes who is using the system.
type Status int

const (
	StatusAnonymous Status = iota
	StatusAuthenticated
	StatusGuest
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusGuest:
		return "guest"
	default:
		return "anonymous"
	}
}
