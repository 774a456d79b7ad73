package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

// Credentials is the read/write view of the stored access credential that
// screens and services depend on.
type Credentials interface {
	Read(ctx context.Context) (string, bool)
	Write(ctx context.Context, value string)
}

// CredentialStore persists the access credential in one browser-scoped slot.
// Storage failures never surface to callers: they are logged and the store
// behaves as if the slot were empty. A store constructed without a backend or
// without a scope is unavailable and always reads as empty.
//
// The store keeps a write-through copy so a Write is observed by the next
// Read on the same store even when the backend write failed.
type CredentialStore struct {
	backend driven.SlotStore
	scope   string
	logger  *slog.Logger

	mu     sync.Mutex
	cached *string
}

// NewCredentialStore binds a store to the browser session identified by scope.
func NewCredentialStore(backend driven.SlotStore, scope string, logger *slog.Logger) *CredentialStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialStore{
		backend: backend,
		scope:   scope,
		logger:  logger,
	}
}

// Available reports whether the store is bound to a backend and a session.
func (s *CredentialStore) Available() bool {
	return s.backend != nil && s.scope != ""
}

// Read returns the trimmed credential, or ("", false) when none is usable.
func (s *CredentialStore) Read(ctx context.Context) (string, bool) {
	if !s.Available() {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return present(*s.cached)
	}

	value, err := s.backend.Get(ctx, s.scope, model.AccessTokenSlot)
	if err != nil {
		s.logger.Warn("credential read failed", "error", err)
		return "", false
	}
	value = strings.TrimSpace(value)
	s.cached = &value
	return present(value)
}

// Write stores the trimmed value. An empty or whitespace-only value clears
// the slot.
func (s *CredentialStore) Write(ctx context.Context, value string) {
	if !s.Available() {
		return
	}

	value = strings.TrimSpace(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = &value

	var err error
	if value == "" {
		err = s.backend.Delete(ctx, s.scope, model.AccessTokenSlot)
	} else {
		err = s.backend.Set(ctx, s.scope, model.AccessTokenSlot, value)
	}
	if err != nil {
		s.logger.Warn("credential write failed", "cleared", value == "", "error", err)
	}
}

// Clear removes the credential.
func (s *CredentialStore) Clear(ctx context.Context) {
	s.Write(ctx, "")
}

func present(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	return value, true
}
