package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// BackendOrigin strips a trailing /api/v1 from the configured backend URL so
// proxied paths keep their own prefix.
func BackendOrigin(apiURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(apiURL))
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", apiURL)
	}
	u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), "/api/v1")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// NewProxy forwards same-origin /api/v1 and /uploads requests to the backend.
func NewProxy(apiURL string, logger *slog.Logger) (http.Handler, error) {
	origin, err := BackendOrigin(apiURL)
	if err != nil {
		return nil, err
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(origin)
			pr.SetXForwarded()
			stripConsoleCookies(pr.Out)
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("backend proxy failed", "path", r.URL.Path, "error", err)
			http.Error(w, "bad gateway", http.StatusBadGateway)
		},
	}, nil
}

// stripConsoleCookies drops the console's own session and CSRF cookies so
// the backend only sees cookies it issued.
func stripConsoleCookies(r *http.Request) {
	cookies := r.Cookies()
	if len(cookies) == 0 {
		return
	}
	kept := make([]string, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == sessionCookieName || c.Name == csrfCookieName {
			continue
		}
		kept = append(kept, c.Name+"="+c.Value)
	}
	r.Header.Del("Cookie")
	if len(kept) > 0 {
		r.Header.Set("Cookie", strings.Join(kept, "; "))
	}
}
