package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all console pages on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)

	mux.HandleFunc("GET /dashboard", h.Dashboard)
	mux.HandleFunc("GET /users", h.Users)
	mux.HandleFunc("GET /users/{id}", h.User)
	mux.HandleFunc("GET /caregivers", h.Caregivers)
	mux.HandleFunc("GET /care-requests", h.CareRequests)
	mux.HandleFunc("GET /matches", h.Matches)
	mux.HandleFunc("GET /matches/{id}", h.Match)
	mux.HandleFunc("GET /reports", h.Reports)
	mux.HandleFunc("GET /settings/password", h.PasswordPage)
	mux.HandleFunc("POST /settings/password", h.ChangePassword)
}

// RegisterProxyRoutes mounts the same-origin backend proxy.
func RegisterProxyRoutes(mux *http.ServeMux, proxy http.Handler) {
	mux.Handle("/api/v1/", proxy)
	mux.Handle("/uploads/", proxy)
}
