// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"

	"github.com/chatai-dev/chatai-tui/internal/model"
)

// =============================================================================
// STORAGE KEYS
// =============================================================================

// IdentityKey is the fixed global key for the persisted identity record.
// It is deliberately not scoped: only one identity is remembered across
// process restarts at a time.
const IdentityKey = "user"

// conversationsKeyPrefix scopes a conversation collection to one identity.
const conversationsKeyPrefix = "chat_conversations_"

// ConversationsKey returns the storage key for the conversation collection
// belonging to the identity with the given ID.
func ConversationsKey(identityID string) string {
	return conversationsKeyPrefix + identityID
}

// =============================================================================
// CONVERSATION CODEC
// =============================================================================

// EncodeConversations serializes the whole collection to JSON. Timestamps
// are encoded as RFC 3339 with nanoseconds, so a round-trip reproduces them
// exactly.
func EncodeConversations(conversations []*model.Conversation) (string, error) {
	data, err := json.Marshal(conversations)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeConversations deserializes a stored collection. Callers treat a
// decode error as "nothing saved" rather than a fatal failure.
func DecodeConversations(value string) ([]*model.Conversation, error) {
	var conversations []*model.Conversation
	if err := json.Unmarshal([]byte(value), &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}
