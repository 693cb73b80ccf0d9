// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the placeholder title for a conversation before the first
// user message sets a real one.
const DefaultTitle = "New conversation"

// WelcomeMessage is the assistant greeting that seeds every new conversation.
const WelcomeMessage = "Hello! I'm your AI assistant. How can I help you today?"

// TitleMaxLen is the maximum number of runes of the first user message used
// as the conversation title before a continuation marker is appended.
const TitleMaxLen = 30

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered thread of messages with a title and
// creation/update timestamps.
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewConversation creates a new conversation seeded with the assistant
// welcome message and the placeholder title.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		Title:     DefaultTitle,
		Messages:  []*Message{NewAssistantMessage(WelcomeMessage)},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the conversation and refreshes UpdatedAt.
// Messages are append-only; nothing is ever edited or reordered.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AddUserMessage creates and appends a user message. If this is the first
// user message in the conversation, the title is derived from it.
func (c *Conversation) AddUserMessage(content string) *Message {
	first := c.FirstUserMessage() == nil
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	if first {
		c.Title = DeriveTitle(content)
	}
	return msg
}

// AddAssistantMessage creates and appends an assistant message.
func (c *Conversation) AddAssistantMessage(content string) *Message {
	msg := NewAssistantMessage(content)
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// FirstUserMessage returns the earliest user message, or nil if none exists.
func (c *Conversation) FirstUserMessage() *Message {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			return msg
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsFresh reports whether the conversation is untouched: it contains exactly
// its initial assistant welcome message and no user message yet.
func (c *Conversation) IsFresh() bool {
	return len(c.Messages) == 1 && c.Messages[0].Role == RoleAssistant
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// DeriveTitle builds a conversation title from the first user message:
// the message verbatim when it fits, otherwise the first TitleMaxLen runes
// followed by a continuation marker.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= TitleMaxLen {
		return content
	}
	return string(runes[:TitleMaxLen]) + "..."
}

// =============================================================================
// PROMPT BUILDING
// =============================================================================

// BuildPrompt renders the full conversation into a completion prompt.
// Every message becomes a "<Label>: <content>" line in chronological order,
// followed by a trailing "Assistant:" cue for the model to continue from.
func (c *Conversation) BuildPrompt() string {
	var sb strings.Builder
	for _, msg := range c.Messages {
		sb.WriteString(msg.Role.PromptLabel())
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("Assistant:")
	return sb.String()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	return "conv-" + uuid.NewString()
}
