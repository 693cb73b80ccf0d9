// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatai-dev/chatai-tui/internal/model"
	"github.com/chatai-dev/chatai-tui/internal/ollama"
	"github.com/chatai-dev/chatai-tui/internal/storage"
)

// fakeClient is a scripted CompletionClient. When block is non-nil each
// Generate call waits on it (or the context) before returning.
type fakeClient struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   chan struct{}
	prompts []string
	models  []string
}

func (f *fakeClient) Generate(ctx context.Context, modelName, prompt string) (string, error) {
	f.mu.Lock()
	f.models = append(f.models, modelName)
	f.prompts = append(f.prompts, prompt)
	block := f.block
	reply, err := f.reply, f.err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return reply, err
}

func (f *fakeClient) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func newTestManager(t *testing.T, client CompletionClient, opts ...Option) (*Manager, storage.Store) {
	t.Helper()
	store, err := storage.NewFileStoreWithDir(t.TempDir())
	require.NoError(t, err)
	m := NewManager(store, client, opts...)
	return m, store
}

func persistedConversations(t *testing.T, store storage.Store, identityID string) []*model.Conversation {
	t.Helper()
	raw, ok, err := store.Get(storage.ConversationsKey(identityID))
	require.NoError(t, err)
	require.True(t, ok)
	convs, err := storage.DecodeConversations(raw)
	require.NoError(t, err)
	return convs
}

func TestSetIdentityInitializesFreshCollection(t *testing.T) {
	m, store := newTestManager(t, &fakeClient{})

	m.SetIdentity("user-1")

	convs := m.Conversations()
	require.Len(t, convs, 1)
	cur := m.Current()
	require.NotNil(t, cur)
	assert.Equal(t, convs[0].ID, cur.ID)
	assert.Equal(t, model.DefaultTitle, cur.Title)
	assert.True(t, m.HasActiveNewChat())
	require.Len(t, cur.Messages, 1)
	assert.Equal(t, model.WelcomeMessage, cur.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, cur.Messages[0].Role)

	// The fresh collection is written through immediately.
	saved := persistedConversations(t, store, "user-1")
	require.Len(t, saved, 1)
	assert.Equal(t, cur.ID, saved[0].ID)
}

func TestSetIdentityRestoresPersistedCollection(t *testing.T) {
	client := &fakeClient{reply: "Hi!"}
	m, store := newTestManager(t, client)
	m.SetIdentity("user-1")
	require.NoError(t, m.Send(context.Background(), "Hello"))
	want := m.Current()

	// A new manager over the same store sees the same collection.
	other := NewManager(store, client)
	other.SetIdentity("user-1")

	convs := other.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, want.ID, convs[0].ID)
	assert.Equal(t, "Hello", convs[0].Title)
	assert.Equal(t, 3, convs[0].MessageCount())
	cur := other.Current()
	require.NotNil(t, cur)
	assert.Equal(t, want.ID, cur.ID)
}

func TestSetIdentityDiscardsCorruptRecord(t *testing.T) {
	m, store := newTestManager(t, &fakeClient{})
	require.NoError(t, store.Set(storage.ConversationsKey("user-1"), "{broken"))

	m.SetIdentity("user-1")

	convs := m.Conversations()
	require.Len(t, convs, 1)
	assert.True(t, m.HasActiveNewChat())
}

func TestSetIdentityEmptyClearsState(t *testing.T) {
	m, _ := newTestManager(t, &fakeClient{})
	m.SetIdentity("user-1")
	require.NotNil(t, m.Current())

	m.SetIdentity("")

	assert.Nil(t, m.Current())
	assert.Empty(t, m.Conversations())
	assert.False(t, m.HasActiveNewChat())
}

func TestNewConversationRequiresIdentity(t *testing.T) {
	m, _ := newTestManager(t, &fakeClient{})
	assert.Nil(t, m.NewConversation())
	assert.Empty(t, m.Conversations())
}

func TestNewConversationReusesUntouchedCurrent(t *testing.T) {
	m, _ := newTestManager(t, &fakeClient{})
	m.SetIdentity("user-1")
	first := m.Current()

	got := m.NewConversation()

	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	assert.Len(t, m.Conversations(), 1)
}

func TestNewConversationPrependsAfterActivity(t *testing.T) {
	m, _ := newTestManager(t, &fakeClient{reply: "Hi!"})
	m.SetIdentity("user-1")
	first := m.Current()
	require.NoError(t, m.Send(context.Background(), "Hello"))

	second := m.NewConversation()

	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
	convs := m.Conversations()
	require.Len(t, convs, 2)
	assert.Equal(t, second.ID, convs[0].ID, "newest conversation goes first")
	assert.Equal(t, second.ID, m.Current().ID)
	assert.True(t, m.HasActiveNewChat())
}

func TestSelect(t *testing.T) {
	m, _ := newTestManager(t, &fakeClient{reply: "Hi!"})
	m.SetIdentity("user-1")
	first := m.Current()
	require.NoError(t, m.Send(context.Background(), "Hello"))
	m.NewConversation()

	require.NoError(t, m.Select(first.ID))
	assert.Equal(t, first.ID, m.Current().ID)

	assert.ErrorIs(t, m.Select("conv-missing"), ErrConversationNotFound)
}

func TestSendAppendsExchange(t *testing.T) {
	client := &fakeClient{reply: "Hi! How can I help?"}
	m, store := newTestManager(t, client)
	m.SetIdentity("user-1")

	require.NoError(t, m.Send(context.Background(), "  Hello  "))

	cur := m.Current()
	require.Equal(t, 3, cur.MessageCount())
	assert.Equal(t, model.RoleUser, cur.Messages[1].Role)
	assert.Equal(t, "Hello", cur.Messages[1].Content)
	assert.Equal(t, model.RoleAssistant, cur.Messages[2].Role)
	assert.Equal(t, "Hi! How can I help?", cur.Messages[2].Content)
	assert.Equal(t, "Hello", cur.Title)
	assert.False(t, m.HasActiveNewChat())
	assert.False(t, m.IsGenerating())

	wantPrompt := "Assistant: " + model.WelcomeMessage + "\nHuman: Hello\nAssistant:"
	assert.Equal(t, wantPrompt, client.lastPrompt())

	saved := persistedConversations(t, store, "user-1")
	require.Len(t, saved, 1)
	assert.Equal(t, 3, saved[0].MessageCount())
}

func TestSendSilentNoOps(t *testing.T) {
	client := &fakeClient{reply: "Hi!"}
	m, _ := newTestManager(t, client)

	// No identity yet.
	require.NoError(t, m.Send(context.Background(), "Hello"))
	assert.Empty(t, client.prompts)

	// Blank content.
	m.SetIdentity("user-1")
	require.NoError(t, m.Send(context.Background(), "   "))
	assert.Empty(t, client.prompts)
	assert.Equal(t, 1, m.Current().MessageCount())
}

func TestSendSubstitutesUnreachableFallback(t *testing.T) {
	client := &fakeClient{err: errors.New("dial tcp: connection refused")}
	m, _ := newTestManager(t, client)
	m.SetIdentity("guest-1")

	require.NoError(t, m.Send(context.Background(), "Hello"))

	cur := m.Current()
	require.Equal(t, 3, cur.MessageCount())
	assert.Equal(t, FallbackUnreachable, cur.Messages[2].Content)
	assert.Equal(t, model.RoleAssistant, cur.Messages[2].Role)
	assert.Equal(t, "Hello", cur.Title)
	assert.False(t, m.HasActiveNewChat())
	assert.False(t, m.IsGenerating())
}

func TestSendSubstitutesEmptyResponseFallback(t *testing.T) {
	client := &fakeClient{err: ollama.ErrEmptyResponse}
	m, _ := newTestManager(t, client)
	m.SetIdentity("user-1")

	require.NoError(t, m.Send(context.Background(), "Hello"))

	cur := m.Current()
	require.Equal(t, 3, cur.MessageCount())
	assert.Equal(t, FallbackEmpty, cur.Messages[2].Content)
}

func TestSendRejectsOverlap(t *testing.T) {
	block := make(chan struct{})
	client := &fakeClient{reply: "Hi!", block: block}
	m, _ := newTestManager(t, client)
	m.SetIdentity("user-1")

	done := make(chan error, 1)
	go func() {
		done <- m.Send(context.Background(), "first")
	}()

	require.Eventually(t, m.IsGenerating, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, m.Send(context.Background(), "second"), ErrBusy)

	close(block)
	require.NoError(t, <-done)

	cur := m.Current()
	// first + reply only; the rejected send added nothing.
	assert.Equal(t, 3, cur.MessageCount())
}

func TestCancelGeneration(t *testing.T) {
	client := &fakeClient{reply: "Hi!", block: make(chan struct{})}
	m, _ := newTestManager(t, client)
	m.SetIdentity("user-1")

	done := make(chan error, 1)
	go func() {
		done <- m.Send(context.Background(), "Hello")
	}()

	require.Eventually(t, m.IsGenerating, time.Second, 5*time.Millisecond)
	m.CancelGeneration()
	require.NoError(t, <-done)

	cur := m.Current()
	require.Equal(t, 3, cur.MessageCount())
	assert.Equal(t, FallbackUnreachable, cur.Messages[2].Content)
	assert.False(t, m.IsGenerating())
}

func TestSendTimeout(t *testing.T) {
	client := &fakeClient{reply: "Hi!", block: make(chan struct{})}
	m, _ := newTestManager(t, client, WithTimeout(20*time.Millisecond))
	m.SetIdentity("user-1")

	require.NoError(t, m.Send(context.Background(), "Hello"))

	cur := m.Current()
	require.Equal(t, 3, cur.MessageCount())
	assert.Equal(t, FallbackUnreachable, cur.Messages[2].Content)
}

func TestDeletePromotesNextConversation(t *testing.T) {
	m, _ := newTestManager(t, &fakeClient{reply: "Hi!"})
	m.SetIdentity("user-1")
	first := m.Current()
	require.NoError(t, m.Send(context.Background(), "Hello"))
	second := m.NewConversation()

	require.NoError(t, m.Delete(second.ID))

	convs := m.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, first.ID, m.Current().ID)
}

func TestDeleteLastConversationCreatesFresh(t *testing.T) {
	m, store := newTestManager(t, &fakeClient{reply: "Hi!"})
	m.SetIdentity("user-1")
	first := m.Current()
	require.NoError(t, m.Send(context.Background(), "Hello"))

	require.NoError(t, m.Delete(first.ID))

	convs := m.Conversations()
	require.Len(t, convs, 1)
	assert.NotEqual(t, first.ID, convs[0].ID)
	assert.True(t, m.HasActiveNewChat())

	saved := persistedConversations(t, store, "user-1")
	require.Len(t, saved, 1)
	assert.Equal(t, convs[0].ID, saved[0].ID)
}

func TestDeleteNonCurrentKeepsSelection(t *testing.T) {
	m, _ := newTestManager(t, &fakeClient{reply: "Hi!"})
	m.SetIdentity("user-1")
	first := m.Current()
	require.NoError(t, m.Send(context.Background(), "Hello"))
	second := m.NewConversation()

	require.NoError(t, m.Delete(first.ID))

	assert.Equal(t, second.ID, m.Current().ID)
	assert.ErrorIs(t, m.Delete("conv-missing"), ErrConversationNotFound)
}
