package web

import (
	"context"
	"net/http"

	"github.com/ericfisherdev/dongdong-admin/internal/application"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

// guard runs fetch behind the session guard for one page request. It
// returns ok=false when the response has already been handled: either the
// operator was redirected to login or the client went away.
func guard[T any](h *Handler, w http.ResponseWriter, r *http.Request, fetch application.FetchFunc[T]) (application.View[T], bool) {
	creds := h.credentials(r)
	redirected := false
	nav := application.NavigatorFunc(func() {
		redirected = true
		redirectToLogin(w, r)
	})

	screen := application.NewScreen[T](creds, nav, h.logger)
	stop := context.AfterFunc(r.Context(), screen.Unmount)
	defer stop()

	screen.Mount(driven.WithCredentials(r.Context(), creds), fetch)

	view := screen.Snapshot()
	if redirected || view.State != application.ScreenActive {
		return view, false
	}
	return view, true
}

// redirectToLogin sends the browser to the login page. HTMX requests get an
// HX-Redirect header so the whole page navigates instead of swapping a fragment.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/login")
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
