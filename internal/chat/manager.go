// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/chatai-dev/chatai-tui/internal/model"
	"github.com/chatai-dev/chatai-tui/internal/ollama"
	"github.com/chatai-dev/chatai-tui/internal/storage"
)

// =============================================================================
// CONSTANTS AND ERRORS
// =============================================================================

const (
	// FallbackUnreachable is substituted for the assistant reply when the
	// backend cannot be reached at all.
	FallbackUnreachable = "I'm currently unable to connect to my AI backend. This could be because Ollama is not running locally or there's a connection issue. Please make sure Ollama is running at http://localhost:11434 with the appropriate model installed."

	// FallbackEmpty is substituted when the backend answered but produced
	// no completion text.
	FallbackEmpty = "I couldn't generate a response. Please try again."

	// DefaultGenerateTimeout bounds a single completion request.
	DefaultGenerateTimeout = 60 * time.Second
)

// ErrBusy is returned by Send while a previous generation is still in
// flight.
var ErrBusy = errors.New("a response is already being generated")

// ErrConversationNotFound is returned by Select and Delete for an
// unknown conversation id.
var ErrConversationNotFound = errors.New("conversation not found")

// =============================================================================
// COMPLETION CLIENT
// =============================================================================

// CompletionClient produces one assistant completion for a prompt.
// *ollama.Client satisfies it; tests substitute fakes.
type CompletionClient interface {
	Generate(ctx context.Context, modelName, prompt string) (string, error)
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the conversation collection for the active identity: the
// ordered list (newest created first), the current selection, and the
// single in-flight exchange with the completion backend.
//
// All methods are safe for concurrent use.
type Manager struct {
	mu            sync.Mutex
	store         storage.Store
	client        CompletionClient
	modelName     string
	timeout       time.Duration
	identityID    string
	conversations []*model.Conversation
	currentID     string
	generating    bool
	cancel        context.CancelFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithModel overrides the completion model name.
func WithModel(name string) Option {
	return func(m *Manager) { m.modelName = name }
}

// WithTimeout overrides the per-request generation timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewManager creates a manager with no active identity. Call SetIdentity
// before using the conversation operations.
func NewManager(store storage.Store, client CompletionClient, opts ...Option) *Manager {
	// An empty model name defers to the client's configured default.
	m := &Manager{
		store:   store,
		client:  client,
		timeout: DefaultGenerateTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetIdentity switches the manager to the given identity and loads its
// persisted conversations. A missing or unparseable record starts a
// fresh collection with one new conversation. An empty id clears all
// state and discards the in-memory collection.
func (m *Manager) SetIdentity(identityID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.identityID = identityID
	m.conversations = nil
	m.currentID = ""
	if identityID == "" {
		return
	}

	raw, ok, err := m.store.Get(storage.ConversationsKey(identityID))
	if err == nil && ok {
		if convs, derr := storage.DecodeConversations(raw); derr == nil && len(convs) > 0 {
			m.conversations = convs
			m.currentID = convs[0].ID
			return
		}
	}

	// Nothing saved, or the record is corrupt: start over.
	conv := model.NewConversation()
	m.conversations = []*model.Conversation{conv}
	m.currentID = conv.ID
	m.persistLocked()
}

// Conversations returns the collection in order, newest created first.
func (m *Manager) Conversations() []*model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Conversation, len(m.conversations))
	copy(out, m.conversations)
	return out
}

// Current returns the selected conversation, or nil when there is none.
func (m *Manager) Current() *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked()
}

// Summary identifies a conversation in list displays.
type Summary struct {
	ID    string
	Title string
}

// Summaries returns id/title pairs for the collection in order. Unlike
// Conversations, the result shares no mutable state with the manager, so
// it is safe to render while an exchange is appending messages.
func (m *Manager) Summaries() []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Summary, len(m.conversations))
	for i, c := range m.conversations {
		out[i] = Summary{ID: c.ID, Title: c.Title}
	}
	return out
}

// CurrentID returns the id of the selected conversation, or "".
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// Messages returns a copy of the current conversation's message list.
// Individual messages are immutable once appended.
func (m *Manager) Messages() []*model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.currentLocked()
	if cur == nil {
		return nil
	}
	out := make([]*model.Message, len(cur.Messages))
	copy(out, cur.Messages)
	return out
}

// HasActiveNewChat reports whether the current conversation is still
// untouched, holding only the seeded welcome message.
func (m *Manager) HasActiveNewChat() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.currentLocked()
	return cur != nil && cur.IsFresh()
}

// IsGenerating reports whether a completion request is in flight.
func (m *Manager) IsGenerating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generating
}

// NewConversation creates a conversation, makes it current, and returns
// it. Without an identity it returns nil. While the current conversation
// is still untouched no new one is created; the current one is returned
// instead, so mashing "new chat" cannot pile up empty conversations.
func (m *Manager) NewConversation() *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.identityID == "" {
		return nil
	}
	if cur := m.currentLocked(); cur != nil && cur.IsFresh() {
		return cur
	}

	conv := model.NewConversation()
	m.conversations = append([]*model.Conversation{conv}, m.conversations...)
	m.currentID = conv.ID
	m.persistLocked()
	return conv
}

// Select makes the conversation with the given id current.
func (m *Manager) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.conversations {
		if c.ID == id {
			m.currentID = id
			return nil
		}
	}
	return ErrConversationNotFound
}

// Delete removes the conversation with the given id. When the current
// conversation is deleted the next remaining one is promoted, or a fresh
// one is created; an active identity never ends up with zero
// conversations.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, c := range m.conversations {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrConversationNotFound
	}

	m.conversations = append(m.conversations[:idx], m.conversations[idx+1:]...)

	if m.currentID == id {
		if len(m.conversations) > 0 {
			m.currentID = m.conversations[0].ID
		} else {
			conv := model.NewConversation()
			m.conversations = []*model.Conversation{conv}
			m.currentID = conv.ID
		}
	}

	m.persistLocked()
	return nil
}

// Send appends the user message to the current conversation, requests
// one completion, and appends the assistant reply. Backend failures are
// absorbed: the reply is substituted with a fixed fallback text and the
// exchange still completes. Trimmed-empty content, a missing identity,
// or a missing current conversation make Send a silent no-op.
//
// Only one exchange may be in flight; overlapping calls get ErrBusy.
func (m *Manager) Send(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)

	m.mu.Lock()
	cur := m.currentLocked()
	if content == "" || m.identityID == "" || cur == nil {
		m.mu.Unlock()
		return nil
	}
	if m.generating {
		m.mu.Unlock()
		return ErrBusy
	}

	cur.AddUserMessage(content)
	m.persistLocked()

	prompt := cur.BuildPrompt()
	convID := cur.ID

	genCtx, cancel := context.WithTimeout(ctx, m.timeout)
	m.generating = true
	m.cancel = cancel
	m.mu.Unlock()

	reply, err := m.client.Generate(genCtx, m.modelName, prompt)
	cancel()
	if err != nil {
		if ollama.IsEmptyResponse(err) {
			reply = FallbackEmpty
		} else {
			reply = FallbackUnreachable
		}
	}

	m.mu.Lock()
	m.generating = false
	m.cancel = nil
	// The conversation may have been deleted mid-flight; drop the reply
	// rather than resurrecting it.
	for _, c := range m.conversations {
		if c.ID == convID {
			c.AddAssistantMessage(reply)
			m.persistLocked()
			break
		}
	}
	m.mu.Unlock()
	return nil
}

// CancelGeneration aborts the in-flight completion request, if any. The
// exchange still completes with the fallback reply.
func (m *Manager) CancelGeneration() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// currentLocked must be called with m.mu held.
func (m *Manager) currentLocked() *model.Conversation {
	for _, c := range m.conversations {
		if c.ID == m.currentID {
			return c
		}
	}
	return nil
}

// persistLocked writes the collection for the active identity. Storage
// failures never interrupt the exchange in progress; the in-memory state
// stays authoritative until the next successful write.
func (m *Manager) persistLocked() {
	if m.identityID == "" {
		return
	}
	raw, err := storage.EncodeConversations(m.conversations)
	if err != nil {
		return
	}
	_ = m.store.Set(storage.ConversationsKey(m.identityID), raw)
}
