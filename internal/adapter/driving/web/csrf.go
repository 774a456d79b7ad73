package web

import (
	"crypto/rand"
	"crypto/subtle"
	"net/http"
)

// Double-submit CSRF: the token lives in a cookie and is echoed by every
// form (or the X-CSRF-Token header on HTMX requests).
const (
	csrfCookieName  = "ddadmin_csrf"
	csrfFormField   = "csrf_token"
	csrfHeader      = "X-CSRF-Token"
	maxCSRFTokenLen = 128
)

// csrfToken returns the token for this browser, issuing one when the cookie
// is missing or malformed.
func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(csrfCookieName); err == nil && usableCSRFToken(cookie.Value) {
		return cookie.Value
	}
	return h.issueCSRFToken(w)
}

// issueCSRFToken sets a fresh token cookie that lives as long as a session.
func (h *Handler) issueCSRFToken(w http.ResponseWriter) string {
	token := rand.Text()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secureCookies,
	})
	return token
}

// validCSRF reports whether the submitted token matches the cookie.
func validCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil || !usableCSRFToken(cookie.Value) {
		return false
	}

	submitted := r.Header.Get(csrfHeader)
	if submitted == "" {
		submitted = r.PostFormValue(csrfFormField)
	}
	return submitted != "" && subtle.ConstantTimeCompare([]byte(submitted), []byte(cookie.Value)) == 1
}

func usableCSRFToken(token string) bool {
	return token != "" && len(token) <= maxCSRFTokenLen
}
