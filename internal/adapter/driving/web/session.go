package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/dongdong-admin/internal/application"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

const sessionCookieName = "ddadmin_session"

// sessionScope returns the browser session ID carried by r, or "" when the
// request has no well-formed session cookie.
func sessionScope(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// startSession issues a fresh session ID. Signing in always rotates the ID so
// a planted cookie never becomes authenticated.
func (h *Handler) startSession(w http.ResponseWriter) string {
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
	return id
}

// credentials binds a credential store to the request's browser session.
// Without a session the store is unavailable and reads as signed out.
func (h *Handler) credentials(r *http.Request) *application.CredentialStore {
	return application.NewCredentialStore(h.slots, sessionScope(r), h.logger)
}

var _ driven.CredentialSource = (*application.CredentialStore)(nil)
