// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/chatai-dev/chatai-tui/internal/storage"
)

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// Notifier receives transient user-facing notifications, toast style.
// A nil notifier is valid and silently drops them.
type Notifier interface {
	Notify(title, description string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title, description string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(title, description string) {
	f(title, description)
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager tracks the current identity, persists it across restarts, and
// drives the login, registration, guest, and logout flows.
//
// All methods are safe for concurrent use. State-change callbacks are
// invoked without the manager lock held.
type Manager struct {
	mu       sync.Mutex
	store    storage.Store
	verifier Verifier
	notifier Notifier
	current  *Identity
	loading  bool
	onChange func(*Identity)
}

// Option configures a Manager.
type Option func(*Manager)

// WithVerifier replaces the default mock verifier.
func WithVerifier(v Verifier) Option {
	return func(m *Manager) { m.verifier = v }
}

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// NewManager creates a manager backed by the given store and restores
// any persisted identity. A malformed or missing record starts the
// manager anonymous; restore failures never block startup.
func NewManager(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		verifier: NewMockVerifier(DefaultLoginDelay),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.restore()
	return m
}

// restore loads the persisted identity, if any. Corrupt records are
// discarded so a bad write cannot wedge the login screen.
func (m *Manager) restore() {
	raw, ok, err := m.store.Get(storage.IdentityKey)
	if err != nil || !ok {
		return
	}
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		_ = m.store.Delete(storage.IdentityKey)
		return
	}
	m.current = &id
}

// SetOnChange registers a callback fired whenever the current identity
// changes. The new identity is passed; nil means logged out.
func (m *Manager) SetOnChange(fn func(*Identity)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Current returns the current identity, or nil when anonymous.
func (m *Manager) Current() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Status reports who is using the system.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.current == nil:
		return StatusAnonymous
	case m.current.IsGuest:
		return StatusGuest
	default:
		return StatusAuthenticated
	}
}

// IsLoading reports whether a login or registration is in flight.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Login verifies the credentials and establishes an authenticated
// identity. Empty inputs are ignored without error or notification.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	m.setLoading(true)
	defer m.setLoading(false)

	if err := m.verifier.Verify(ctx, email, password); err != nil {
		m.notify("Login failed", "Please check your credentials and try again.")
		return err
	}

	id := NewUserIdentity("", email)
	if err := m.establish(id); err != nil {
		m.notify("Login failed", "Please check your credentials and try again.")
		return err
	}
	m.notify("Logged in successfully", "Welcome back, "+id.Name+"!")
	return nil
}

// Register verifies the credentials and establishes an authenticated
// identity carrying the given display name. Empty inputs are ignored
// without error or notification.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil
	}

	m.setLoading(true)
	defer m.setLoading(false)

	if err := m.verifier.Verify(ctx, email, password); err != nil {
		m.notify("Registration failed", "Please try again.")
		return err
	}

	id := NewUserIdentity(name, email)
	if err := m.establish(id); err != nil {
		m.notify("Registration failed", "Please try again.")
		return err
	}
	m.notify("Account created", "Welcome to ChatAI, "+id.Name+"!")
	return nil
}

// ContinueAsGuest establishes a guest identity. Unlike login, this is
// immediate: no verification and no simulated latency.
func (m *Manager) ContinueAsGuest() error {
	id := NewGuestIdentity()
	if err := m.establish(id); err != nil {
		return err
	}
	m.notify("Welcome, Guest!", "You can continue using the chat. Create an account anytime to save your conversations.")
	return nil
}

// Logout destroys the current identity and its persisted record. Safe
// to call when already anonymous.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.current = nil
	fn := m.onChange
	m.mu.Unlock()

	err := m.store.Delete(storage.IdentityKey)

	if fn != nil {
		fn(nil)
	}
	m.notify("Logged out", "You have been successfully logged out.")
	return err
}

// establish persists the identity, then makes it current. Persistence
// failures abandon the operation with prior state intact.
func (m *Manager) establish(id *Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	if err := m.store.Set(storage.IdentityKey, string(raw)); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = id
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(id)
	}
	return nil
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

func (m *Manager) notify(title, description string) {
	if m.notifier != nil {
		m.notifier.Notify(title, description)
	}
}
