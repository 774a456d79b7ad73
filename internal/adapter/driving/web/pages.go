package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	vm "github.com/ericfisherdev/dongdong-admin/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/dongdong-admin/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/dongdong-admin/internal/application"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
)

const maxListLimit = 200

// Root sends signed-in operators to the dashboard and everyone else to login.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.credentials(r).Read(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	redirectToLogin(w, r)
}

// LoginPage renders the sign-in form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", templates.Login(vm.LoginPage{
		CSRF: h.csrfToken(w, r),
	}))
}

// Login signs in. The credential is bound to a freshly issued session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !validCSRF(r) {
		h.forbidCSRF(w, r)
		return
	}

	form := application.LoginForm{
		ID:       r.FormValue("id"),
		Password: r.FormValue("password"),
	}

	// Drop whatever the previous session held before rotating.
	h.credentials(r).Clear(r.Context())
	creds := application.NewCredentialStore(h.slots, h.startSession(w), h.logger)

	if _, err := h.auth.Login(r.Context(), creds, form); err != nil {
		h.render(w, r, "login", templates.Login(vm.LoginPage{
			CSRF: h.csrfToken(w, r),
			ID:   strings.TrimSpace(form.ID),
			Err:  application.UserMessage(err, "Login failed."),
		}))
		return
	}

	h.issueCSRFToken(w)
	redirect(w, r, "/dashboard")
}

// Logout clears the credential and returns to the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if !validCSRF(r) {
		h.forbidCSRF(w, r)
		return
	}

	nav := application.NavigatorFunc(func() { redirectToLogin(w, r) })
	application.NewScreen[struct{}](h.credentials(r), nav, h.logger).Logout(r.Context())
}

// Dashboard renders the headline counts.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, ok := guard(h, w, r, h.console.Dashboard)
	if !ok {
		return
	}
	h.render(w, r, "dashboard", templates.Dashboard(vm.DashboardPage{
		Shell:  h.shell(w, r, "Dashboard", "", view.Err),
		Cards:  toDashboardCards(view.Data),
		Loaded: view.Loaded,
	}))
}

// Users renders the user list.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	view, ok := guard(h, w, r, func(ctx context.Context) (model.ListResult[model.User], error) {
		return h.console.Users(ctx, q)
	})
	if !ok {
		return
	}
	h.render(w, r, "users", templates.List(vm.ListPage{
		Shell:  h.shell(w, r, "Users", totalSubtitle(view.Data.Total), view.Err),
		Search: &vm.Search{Action: "/users", Query: q.Q, Placeholder: "Search name or email"},
		Table:  toUsersTable(view.Data.Items),
		Loaded: view.Loaded,
	}))
}

// User renders one user.
func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	view, ok := guard(h, w, r, func(ctx context.Context) (model.Record, error) {
		return h.console.User(ctx, id)
	})
	if !ok {
		return
	}
	cards, patients := toUserDetail(view.Data)
	h.render(w, r, "user", templates.UserDetail(vm.UserDetailPage{
		Shell:    h.shell(w, r, "User detail", "#"+id, view.Err),
		Cards:    cards,
		Patients: patients,
		Loaded:   view.Loaded,
	}))
}

// Caregivers renders the caregiver list.
func (h *Handler) Caregivers(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	view, ok := guard(h, w, r, func(ctx context.Context) (model.ListResult[model.Caregiver], error) {
		return h.console.Caregivers(ctx, q)
	})
	if !ok {
		return
	}
	h.render(w, r, "caregivers", templates.List(vm.ListPage{
		Shell:  h.shell(w, r, "Caregivers", totalSubtitle(view.Data.Total), view.Err),
		Search: &vm.Search{Action: "/caregivers", Query: q.Q, Placeholder: "Search name or phone"},
		Table:  toCaregiversTable(view.Data.Items),
		Loaded: view.Loaded,
	}))
}

// CareRequests renders the care request list.
func (h *Handler) CareRequests(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	view, ok := guard(h, w, r, func(ctx context.Context) (model.ListResult[model.Record], error) {
		return h.console.CareRequests(ctx, q)
	})
	if !ok {
		return
	}
	h.render(w, r, "care-requests", templates.List(vm.ListPage{
		Shell:  h.shell(w, r, "Care requests", totalSubtitle(view.Data.Total), view.Err),
		Table:  toCareRequestsTable(view.Data.Items),
		Loaded: view.Loaded,
	}))
}

// Matches renders the match list.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	view, ok := guard(h, w, r, func(ctx context.Context) (model.ListResult[model.Match], error) {
		return h.console.Matches(ctx, q)
	})
	if !ok {
		return
	}
	h.render(w, r, "matches", templates.List(vm.ListPage{
		Shell:  h.shell(w, r, "Matches", totalSubtitle(view.Data.Total), view.Err),
		Table:  toMatchesTable(view.Data.Items),
		Loaded: view.Loaded,
	}))
}

// Match renders one match.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	view, ok := guard(h, w, r, func(ctx context.Context) (application.MatchDetail, error) {
		return h.console.Match(ctx, id)
	})
	if !ok {
		return
	}
	h.render(w, r, "match", templates.MatchDetail(vm.MatchDetailPage{
		Shell:  h.shell(w, r, "Match detail", "#"+id, view.Err),
		JSON:   view.Data.Pretty,
		Loaded: view.Loaded,
	}))
}

// Reports renders the report list.
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	view, ok := guard(h, w, r, func(ctx context.Context) (model.ListResult[model.Record], error) {
		return h.console.Reports(ctx, q)
	})
	if !ok {
		return
	}
	h.render(w, r, "reports", templates.List(vm.ListPage{
		Shell:  h.shell(w, r, "Reports", totalSubtitle(view.Data.Total), view.Err),
		Table:  toReportsTable(view.Data.Items),
		Loaded: view.Loaded,
	}))
}

// PasswordPage renders the change-password form.
func (h *Handler) PasswordPage(w http.ResponseWriter, r *http.Request) {
	view, ok := guard(h, w, r, func(context.Context) (struct{}, error) {
		return struct{}{}, nil
	})
	if !ok {
		return
	}
	h.render(w, r, "password", templates.Password(vm.PasswordPage{
		Shell: h.shell(w, r, "Change password", "", view.Err),
	}))
}

// ChangePassword submits the change-password form.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !validCSRF(r) {
		h.forbidCSRF(w, r)
		return
	}

	form := application.PasswordForm{
		Current: r.FormValue("current_password"),
		Next:    r.FormValue("new_password"),
	}
	view, ok := guard(h, w, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.auth.ChangePassword(ctx, form)
	})
	if !ok {
		return
	}

	page := vm.PasswordPage{Shell: h.shell(w, r, "Change password", "", view.Err)}
	if view.Loaded {
		page.OK = "Password changed."
	}
	h.render(w, r, "password", templates.Password(page))
}

// listQuery reads q, page and limit from the URL, falling back to the
// console defaults for anything missing or out of range.
func listQuery(r *http.Request) model.ListQuery {
	q := model.DefaultListQuery()
	values := r.URL.Query()
	q.Q = strings.TrimSpace(values.Get("q"))
	if n, err := strconv.Atoi(values.Get("page")); err == nil && n > 0 {
		q.Page = n
	}
	if n, err := strconv.Atoi(values.Get("limit")); err == nil && n > 0 && n <= maxListLimit {
		q.Limit = n
	}
	return q
}
