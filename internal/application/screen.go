package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
	"github.com/ericfisherdev/dongdong-admin/internal/metrics"
)

// ScreenState is the lifecycle state of a guarded screen.
type ScreenState int

const (
	// ScreenPending is the state before Mount.
	ScreenPending ScreenState = iota
	// ScreenActive means a credential was present and results may be applied.
	ScreenActive
	// ScreenLeft is terminal: the screen redirected or was unmounted.
	ScreenLeft
)

func (s ScreenState) String() string {
	switch s {
	case ScreenActive:
		return "active"
	case ScreenLeft:
		return "left"
	default:
		return "pending"
	}
}

// Redirect reasons recorded on the session redirect counter.
const (
	RedirectNoCredential    = "no_credential"
	RedirectUnauthenticated = "unauthenticated"
	RedirectLogout          = "logout"
)

// Navigator moves the operator to the login page.
type Navigator interface {
	ToLogin()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

// ToLogin calls f.
func (f NavigatorFunc) ToLogin() { f() }

// FetchFunc loads a screen's data.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// View is a point-in-time copy of a screen for rendering.
type View[T any] struct {
	State  ScreenState
	Data   T
	Loaded bool
	// Err is the message to display for the last failed fetch.
	Err string
}

// Screen applies the session guard to one page: no fetch runs without a
// credential, an Unauthenticated failure clears the credential and leaves
// for the login page exactly once, and results that arrive after the screen
// was left or superseded by a newer fetch are dropped.
type Screen[T any] struct {
	creds  Credentials
	nav    Navigator
	logger *slog.Logger

	mu         sync.Mutex
	state      ScreenState
	generation uint64
	redirected bool
	data       T
	loaded     bool
	errMsg     string
}

// NewScreen creates a pending screen.
func NewScreen[T any](creds Credentials, nav Navigator, logger *slog.Logger) *Screen[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen[T]{creds: creds, nav: nav, logger: logger}
}

// Mount checks for a credential and runs the initial fetch. Without a
// credential the screen leaves for login and fetch is never called.
// Mount is a no-op once the screen has left the pending state.
func (s *Screen[T]) Mount(ctx context.Context, fetch FetchFunc[T]) {
	s.mu.Lock()
	if s.state != ScreenPending {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if _, ok := s.creds.Read(ctx); !ok {
		s.leave(RedirectNoCredential)
		return
	}

	s.mu.Lock()
	if s.state != ScreenPending {
		s.mu.Unlock()
		return
	}
	s.state = ScreenActive
	s.mu.Unlock()

	s.run(ctx, fetch)
}

// Reload runs fetch again while the screen is active. Any fetch still in
// flight is superseded.
func (s *Screen[T]) Reload(ctx context.Context, fetch FetchFunc[T]) {
	s.run(ctx, fetch)
}

// Unmount moves the screen to its terminal state without navigating.
func (s *Screen[T]) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ScreenLeft
	s.generation++
}

// Logout clears the credential and leaves for login immediately,
// regardless of any fetch in flight.
func (s *Screen[T]) Logout(ctx context.Context) {
	s.creds.Write(ctx, "")
	s.leave(RedirectLogout)
}

// Snapshot returns the current view.
func (s *Screen[T]) Snapshot() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View[T]{
		State:  s.state,
		Data:   s.data,
		Loaded: s.loaded,
		Err:    s.errMsg,
	}
}

func (s *Screen[T]) run(ctx context.Context, fetch FetchFunc[T]) {
	s.mu.Lock()
	if s.state != ScreenActive {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	data, err := fetch(ctx)

	s.mu.Lock()
	if s.state != ScreenActive || gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding stale screen result", "generation", gen)
		return
	}

	if model.IsUnauthenticated(err) {
		first := s.markLeft()
		s.mu.Unlock()
		s.creds.Write(ctx, "")
		s.navigate(first, RedirectUnauthenticated)
		return
	}
	defer s.mu.Unlock()

	if err != nil {
		s.errMsg = UserMessage(err, "Failed to load.")
		return
	}
	s.data = data
	s.loaded = true
	s.errMsg = ""
}

// leave moves to the terminal state and navigates to login once.
func (s *Screen[T]) leave(reason string) {
	s.mu.Lock()
	first := s.markLeft()
	s.mu.Unlock()
	s.navigate(first, reason)
}

// markLeft must be called with s.mu held. It reports whether this is the
// first transition that owes a redirect.
func (s *Screen[T]) markLeft() bool {
	s.state = ScreenLeft
	s.generation++
	first := !s.redirected
	s.redirected = true
	return first
}

func (s *Screen[T]) navigate(first bool, reason string) {
	if !first {
		return
	}
	metrics.SessionRedirectsTotal.WithLabelValues(reason).Inc()
	s.logger.Info("redirecting to login", "reason", reason)
	s.nav.ToLogin()
}
