package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

const testCSRF = "csrf-test-token"

// signedIn returns a session scope holding token.
func signedIn(t *testing.T, slots *memSlots, token string) string {
	t.Helper()
	scope := uuid.NewString()
	require.NoError(t, slots.Set(context.Background(), scope, model.AccessTokenSlot, token))
	return scope
}

func get(mux http.Handler, path, scope string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if scope != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: scope})
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func postForm(mux http.Handler, path, scope string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRF})
	if scope != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: scope})
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func csrfCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			return c
		}
	}
	return nil
}

func TestRoot(t *testing.T) {
	mux, slots := newTestMux(&fakeAPI{})

	rec := get(mux, "/", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = get(mux, "/", signedIn(t, slots, "tok"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestGuard_NoSessionRedirectsWithoutFetching(t *testing.T) {
	api := &fakeAPI{}
	mux, _ := newTestMux(api)

	for _, path := range []string{"/dashboard", "/users", "/users/7", "/caregivers", "/care-requests", "/matches", "/matches/3", "/reports", "/settings/password"} {
		t.Run(path, func(t *testing.T) {
			rec := get(mux, path, "")
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
		})
	}
	assert.Equal(t, 0, api.callCount())
}

func TestGuard_MalformedSessionCookieIsSignedOut(t *testing.T) {
	api := &fakeAPI{}
	mux, _ := newTestMux(api)

	rec := get(mux, "/users", "not-a-uuid")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, api.callCount())
}

func TestGuard_HTMXRedirect(t *testing.T) {
	mux, _ := newTestMux(&fakeAPI{})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
}

func TestUsers_RendersWithSessionCredential(t *testing.T) {
	total := 3
	var gotQuery model.ListQuery
	var gotToken string
	api := &fakeAPI{
		listUsers: func(ctx context.Context, q model.ListQuery) (model.ListResult[model.User], error) {
			gotQuery = q
			if src, ok := driven.CredentialsFrom(ctx); ok {
				gotToken, _ = src.Read(ctx)
			}
			return model.ListResult[model.User]{
				Items: []model.User{{ID: 12, Name: "Kim Minji", Email: "k***@x.io", Role: "USER", CreatedAt: "2025-01-02T03:04:05Z"}},
				Total: &total,
				Shape: model.ShapeEnvelopeItems,
			}, nil
		},
	}
	mux, slots := newTestMux(api)

	rec := get(mux, "/users?q=kim&page=2", signedIn(t, slots, "tok-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-1", gotToken)
	assert.Equal(t, model.ListQuery{Q: "kim", Page: 2, Limit: 50}, gotQuery)

	body := rec.Body.String()
	assert.Contains(t, body, "Kim Minji")
	assert.Contains(t, body, "total: 3")
	assert.Contains(t, body, "2025-01-02")
	assert.Contains(t, body, `href="/users/12"`)
	assert.Contains(t, body, `<a href="/users" class="nav-item active" aria-current="page">`)
	assert.Contains(t, body, `value="kim"`)
}

func TestUsers_UnauthenticatedClearsSession(t *testing.T) {
	api := &fakeAPI{
		listUsers: func(context.Context, model.ListQuery) (model.ListResult[model.User], error) {
			return model.EmptyList[model.User](), &model.APIError{Kind: model.KindUnauthenticated, Status: http.StatusUnauthorized}
		},
	}
	mux, slots := newTestMux(api)
	scope := signedIn(t, slots, "tok")

	rec := get(mux, "/users", scope)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Empty(t, slots.token(scope))
}

func TestUsers_ErrorShowsBanner(t *testing.T) {
	api := &fakeAPI{
		listUsers: func(context.Context, model.ListQuery) (model.ListResult[model.User], error) {
			return model.EmptyList[model.User](), &model.APIError{Kind: model.KindServerRejected, Status: 500, Message: "database offline"}
		},
	}
	mux, slots := newTestMux(api)
	scope := signedIn(t, slots, "tok")

	rec := get(mux, "/users", scope)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "database offline")
	assert.Equal(t, "tok", slots.token(scope))
}

func TestDashboard(t *testing.T) {
	api := &fakeAPI{
		count: func(_ context.Context, r model.Resource) (*int, error) {
			n := len(r)
			return &n, nil
		},
	}
	mux, slots := newTestMux(api)

	rec := get(mux, "/dashboard", signedIn(t, slots, "tok"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Care requests")
	assert.Contains(t, body, `<div class="stat-value">13</div>`)
	assert.Contains(t, body, `<a href="/dashboard" class="nav-item active" aria-current="page">`)
}

func TestUserDetail(t *testing.T) {
	var gotID string
	api := &fakeAPI{
		getUser: func(_ context.Context, id string) (model.Record, error) {
			gotID = id
			return model.Record{
				"id":               float64(7),
				"name":             "Lee",
				"caregiverProfile": nil,
				"patients": []any{
					map[string]any{"id": float64(1), "name": "Grandma Park", "birthDate": "1940-05-01"},
				},
			}, nil
		},
	}
	mux, slots := newTestMux(api)

	rec := get(mux, "/users/7", signedIn(t, slots, "tok"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", gotID)
	body := rec.Body.String()
	assert.Contains(t, body, "Grandma Park")
	assert.Contains(t, body, `<a href="/users" class="nav-item active" aria-current="page">`)
}

func TestMatchDetail(t *testing.T) {
	api := &fakeAPI{
		getMatch: func(context.Context, string) (model.Record, error) {
			return model.Record{"id": float64(3), "note": "<b>x</b>"}, nil
		},
	}
	mux, slots := newTestMux(api)

	rec := get(mux, "/matches/3", signedIn(t, slots, "tok"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "&lt;b&gt;x&lt;/b&gt;")
	assert.NotContains(t, body, "<b>x</b>")
}

func TestLogin_Success(t *testing.T) {
	var gotEmail string
	api := &fakeAPI{
		login: func(_ context.Context, email, _ string) (*model.LoginResult, error) {
			gotEmail = email
			return &model.LoginResult{AccessToken: "fresh", Account: model.LoginAccount{Role: "ADMIN"}}, nil
		},
	}
	mux, slots := newTestMux(api)
	oldScope := signedIn(t, slots, "stale")

	rec := postForm(mux, "/login", oldScope, url.Values{
		"csrf_token": {testCSRF},
		"id":         {" admin "},
		"password":   {"secret"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Equal(t, "admin@dongdong.admin", gotEmail)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.NotEqual(t, oldScope, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "fresh", slots.token(cookie.Value))
	assert.Empty(t, slots.token(oldScope))

	rotated := csrfCookie(rec)
	require.NotNil(t, rotated, "login rotates the CSRF token")
	assert.NotEqual(t, testCSRF, rotated.Value)
	assert.True(t, rotated.HttpOnly)
}

func TestLogin_NonAdminIsRejected(t *testing.T) {
	api := &fakeAPI{
		login: func(context.Context, string, string) (*model.LoginResult, error) {
			return &model.LoginResult{AccessToken: "tok", Account: model.LoginAccount{Role: "USER"}}, nil
		},
	}
	mux, slots := newTestMux(api)

	rec := postForm(mux, "/login", "", url.Values{
		"csrf_token": {testCSRF},
		"id":         {"someone"},
		"password":   {"pw"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ADMIN role required")
	assert.Contains(t, rec.Body.String(), `value="someone"`)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, slots.token(cookie.Value))
}

func TestLogin_MissingFields(t *testing.T) {
	api := &fakeAPI{}
	mux, _ := newTestMux(api)

	rec := postForm(mux, "/login", "", url.Values{"csrf_token": {testCSRF}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "is required.")
	assert.Equal(t, 0, api.callCount())
}

func TestLogin_CSRFMismatch(t *testing.T) {
	api := &fakeAPI{}
	mux, _ := newTestMux(api)

	rec := postForm(mux, "/login", "", url.Values{
		"csrf_token": {"wrong"},
		"id":         {"admin"},
		"password":   {"pw"},
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, api.callCount())
}

func TestCSRF_HeaderAndCookieRules(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		form   string
		want   bool
	}{
		{"form matches", testCSRF, "", testCSRF, true},
		{"header matches", testCSRF, testCSRF, "", true},
		{"header wins over form", testCSRF, "wrong", testCSRF, false},
		{"no cookie", "", "", testCSRF, false},
		{"nothing submitted", testCSRF, "", "", false},
		{"overlong cookie", strings.Repeat("a", maxCSRFTokenLen+1), "", strings.Repeat("a", maxCSRFTokenLen+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			if tt.form != "" {
				form.Set(csrfFormField, tt.form)
			}
			req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrfHeader, tt.header)
			}
			assert.Equal(t, tt.want, validCSRF(req))
		})
	}
}

func TestLoginPage_ReusesExistingCSRFCookie(t *testing.T) {
	mux, _ := newTestMux(&fakeAPI{})
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRF})
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Nil(t, csrfCookie(rec))
	assert.Contains(t, rec.Body.String(), `name="csrf_token" value="`+testCSRF+`"`)
}

func TestLoginPage_SetsCSRFCookie(t *testing.T) {
	mux, _ := newTestMux(&fakeAPI{})

	rec := get(mux, "/login", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)
	assert.Contains(t, rec.Body.String(), `name="csrf_token" value="`+token+`"`)
}

func TestLogout(t *testing.T) {
	mux, slots := newTestMux(&fakeAPI{})
	scope := signedIn(t, slots, "tok")

	rec := postForm(mux, "/logout", scope, url.Values{"csrf_token": {testCSRF}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Empty(t, slots.token(scope))
}

func TestLogout_RequiresCSRF(t *testing.T) {
	mux, slots := newTestMux(&fakeAPI{})
	scope := signedIn(t, slots, "tok")

	rec := postForm(mux, "/logout", scope, url.Values{})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "tok", slots.token(scope))
}

func TestChangePassword(t *testing.T) {
	var gotCurrent, gotNext string
	api := &fakeAPI{
		changePassword: func(_ context.Context, current, next string) error {
			gotCurrent, gotNext = current, next
			return nil
		},
	}
	mux, slots := newTestMux(api)

	rec := postForm(mux, "/settings/password", signedIn(t, slots, "tok"), url.Values{
		"csrf_token":       {testCSRF},
		"current_password": {"old-pass"},
		"new_password":     {"new-pass"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "old-pass", gotCurrent)
	assert.Equal(t, "new-pass", gotNext)
	assert.Contains(t, rec.Body.String(), "Password changed.")
}

func TestChangePassword_TooShort(t *testing.T) {
	api := &fakeAPI{}
	mux, slots := newTestMux(api)

	rec := postForm(mux, "/settings/password", signedIn(t, slots, "tok"), url.Values{
		"csrf_token":       {testCSRF},
		"current_password": {"old-pass"},
		"new_password":     {"abc"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New password must be at least 6 characters.")
	assert.NotContains(t, rec.Body.String(), "Password changed.")
	assert.Equal(t, 0, api.callCount())
}

func TestChangePassword_UnauthenticatedSignsOut(t *testing.T) {
	api := &fakeAPI{
		changePassword: func(context.Context, string, string) error {
			return &model.APIError{Kind: model.KindUnauthenticated, Status: http.StatusUnauthorized}
		},
	}
	mux, slots := newTestMux(api)
	scope := signedIn(t, slots, "tok")

	rec := postForm(mux, "/settings/password", scope, url.Values{
		"csrf_token":       {testCSRF},
		"current_password": {"old-pass"},
		"new_password":     {"new-pass"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Empty(t, slots.token(scope))
}

func TestStaticAssets(t *testing.T) {
	mux, _ := newTestMux(&fakeAPI{})

	rec := get(mux, "/static/app.css", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".nav-item")
}

func TestActiveSection(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/dashboard", "/dashboard"},
		{"/dashboard/extra", ""},
		{"/users", "/users"},
		{"/users/42", "/users"},
		{"/usersx", ""},
		{"/care-requests", "/care-requests"},
		{"/matches/9", "/matches"},
		{"/settings/password", "/settings/password"},
		{"/login", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, activeSection(tt.path))
		})
	}
}

func TestNavFor_MarksOneItem(t *testing.T) {
	items := navFor("/caregivers")
	active := 0
	for _, item := range items {
		if item.Active {
			active++
			assert.Equal(t, "/caregivers", item.Path)
		}
	}
	assert.Equal(t, 1, active)
	assert.False(t, navSections[2].Active)
}

func TestListQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  model.ListQuery
	}{
		{"defaults", "", model.ListQuery{Page: 1, Limit: 50}},
		{"trimmed search", "q=%20lee%20", model.ListQuery{Q: "lee", Page: 1, Limit: 50}},
		{"paging", "page=3&limit=20", model.ListQuery{Page: 3, Limit: 20}},
		{"invalid paging", "page=-1&limit=abc", model.ListQuery{Page: 1, Limit: 50}},
		{"limit too large", "limit=5000", model.ListQuery{Page: 1, Limit: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users?"+tt.query, nil)
			assert.Equal(t, tt.want, listQuery(req))
		})
	}
}
