// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_PromptLabel(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "Human"},
		{RoleAssistant, "Assistant"},
		{RoleSystem, "Assistant"},
	}

	for _, tt := range tests {
		if got := tt.role.PromptLabel(); got != tt.want {
			t.Errorf("PromptLabel(%s) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.ID == "" {
		t.Error("Expected non-empty ID")
	}
	if !strings.HasPrefix(msg.ID, "msg-") {
		t.Errorf("ID should start with 'msg-', got %q", msg.ID)
	}
	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, RoleUser)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want %q", msg.Content, "hello")
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("This is a fairly long message that needs truncating")

	preview := msg.Preview(20)
	if len([]rune(preview)) != 20 {
		t.Errorf("Preview length = %d, want 20", len([]rune(preview)))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview should end with '...', got %q", preview)
	}

	short := NewUserMessage("short")
	if got := short.Preview(20); got != "short" {
		t.Errorf("Preview of short message = %q, want %q", got, "short")
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestNewConversation(t *testing.T) {
	conv := NewConversation()

	if !strings.HasPrefix(conv.ID, "conv-") {
		t.Errorf("ID should start with 'conv-', got %q", conv.ID)
	}
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", conv.Title, DefaultTitle)
	}
	if conv.MessageCount() != 1 {
		t.Fatalf("MessageCount = %d, want 1", conv.MessageCount())
	}
	if conv.Messages[0].Role != RoleAssistant {
		t.Errorf("Seed message role = %q, want assistant", conv.Messages[0].Role)
	}
	if conv.Messages[0].Content != WelcomeMessage {
		t.Errorf("Seed message content = %q, want welcome message", conv.Messages[0].Content)
	}
	if !conv.IsFresh() {
		t.Error("New conversation should be fresh")
	}
}

func TestConversation_AddUserMessage_SetsTitleOnce(t *testing.T) {
	conv := NewConversation()

	conv.AddUserMessage("What is the capital of France?")
	if conv.Title != "What is the capital of France?" {
		t.Errorf("Title = %q, want first user message verbatim", conv.Title)
	}

	// A later user message must not change the title.
	conv.AddUserMessage("And of Germany?")
	if conv.Title != "What is the capital of France?" {
		t.Errorf("Title changed on second user message: %q", conv.Title)
	}
}

func TestConversation_AddMessage_AppendOnlyOrdering(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("one")
	conv.AddAssistantMessage("two")
	conv.AddUserMessage("three")

	if conv.MessageCount() != 4 {
		t.Fatalf("MessageCount = %d, want 4", conv.MessageCount())
	}

	for i := 1; i < len(conv.Messages); i++ {
		if conv.Messages[i].Timestamp.Before(conv.Messages[i-1].Timestamp) {
			t.Errorf("message %d timestamp precedes message %d", i, i-1)
		}
	}
}

func TestConversation_AddMessage_RefreshesUpdatedAt(t *testing.T) {
	conv := NewConversation()
	before := conv.UpdatedAt

	time.Sleep(time.Millisecond)
	conv.AddUserMessage("hi")

	if !conv.UpdatedAt.After(before) {
		t.Error("UpdatedAt should advance on message append")
	}
}

func TestConversation_IsFresh(t *testing.T) {
	conv := NewConversation()
	if !conv.IsFresh() {
		t.Error("seeded conversation should be fresh")
	}

	conv.AddUserMessage("hello")
	if conv.IsFresh() {
		t.Error("conversation with a user message should not be fresh")
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short verbatim", "Hello", "Hello"},
		{"exactly thirty", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"truncated", strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
		{"unicode", strings.Repeat("é", 35), strings.Repeat("é", 30) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.content); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestConversation_BuildPrompt(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("Hi there")

	prompt := conv.BuildPrompt()

	want := "Assistant: " + WelcomeMessage + "\nHuman: Hi there\nAssistant:"
	if prompt != want {
		t.Errorf("BuildPrompt() = %q, want %q", prompt, want)
	}
}

func TestConversation_BuildPrompt_SystemLabeledAssistant(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(NewSystemMessage("note"))

	prompt := conv.BuildPrompt()
	if !strings.Contains(prompt, "Assistant: note\n") {
		t.Errorf("system message should carry the Assistant label, got %q", prompt)
	}
}

func TestConversation_FirstUserMessage(t *testing.T) {
	conv := NewConversation()
	if conv.FirstUserMessage() != nil {
		t.Error("expected no user message in a fresh conversation")
	}

	conv.AddUserMessage("first")
	conv.AddUserMessage("second")

	got := conv.FirstUserMessage()
	if got == nil || got.Content != "first" {
		t.Errorf("FirstUserMessage = %v, want content %q", got, "first")
	}
}
