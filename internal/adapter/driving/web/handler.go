// Package web implements the HTML console driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/dongdong-admin/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/dongdong-admin/internal/application"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

// Options tunes session cookies.
type Options struct {
	SessionTTL    time.Duration
	SecureCookies bool
}

// Handler is the web console driving adapter that serves HTML via templ components.
type Handler struct {
	auth          *application.AuthService
	console       *application.ConsoleService
	slots         driven.SlotStore
	sessionTTL    time.Duration
	secureCookies bool
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. slots may be
// nil, in which case every page behaves as signed out.
func NewHandler(
	auth *application.AuthService,
	console *application.ConsoleService,
	slots driven.SlotStore,
	opts Options,
	logger *slog.Logger,
) *Handler {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Handler{
		auth:          auth,
		console:       console,
		slots:         slots,
		sessionTTL:    ttl,
		secureCookies: opts.SecureCookies,
		logger:        logger,
	}
}

func (h *Handler) shell(w http.ResponseWriter, r *http.Request, title, subtitle, errMsg string) vm.Shell {
	return vm.Shell{
		Title:    title,
		Subtitle: subtitle,
		Nav:      navFor(r.URL.Path),
		CSRF:     h.csrfToken(w, r),
		Err:      errMsg,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) forbidCSRF(w http.ResponseWriter, r *http.Request) {
	h.logger.Warn("csrf validation failed", "path", r.URL.Path)
	http.Error(w, "invalid CSRF token", http.StatusForbidden)
}
