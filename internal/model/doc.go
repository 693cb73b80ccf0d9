// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations and their message threads.
//
// # Key Types
//
//   - Conversation: An ordered thread of messages with title and timestamps
//   - Message: A single turn authored by the user, assistant, or system
//   - Role: Message role enumeration (user, assistant, system)
//
// # Usage
//
// Create a new conversation and append a message:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("Hello!")
//	prompt := conv.BuildPrompt()
package model
