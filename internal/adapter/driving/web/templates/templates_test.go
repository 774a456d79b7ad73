package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vm "github.com/ericfisherdev/dongdong-admin/internal/adapter/driving/web/viewmodel"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestList_EscapesCellText(t *testing.T) {
	html := render(t, List(vm.ListPage{
		Shell:  vm.Shell{Title: "Users"},
		Loaded: true,
		Table: vm.Table{
			Columns: []string{"Name"},
			Rows:    []vm.Row{{Cells: []vm.Cell{{Text: "<script>alert(1)</script>"}}}},
		},
	}))

	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestList_DropsUnsafeLinks(t *testing.T) {
	html := render(t, List(vm.ListPage{
		Shell:  vm.Shell{Title: "Users"},
		Loaded: true,
		Table: vm.Table{
			Columns: []string{"Link"},
			Rows:    []vm.Row{{Cells: []vm.Cell{{Text: "x", Href: "javascript:alert(1)"}}}},
		},
	}))

	assert.NotContains(t, html, "javascript:")
}

func TestList_EmptyTable(t *testing.T) {
	html := render(t, List(vm.ListPage{
		Shell:  vm.Shell{Title: "Reports"},
		Loaded: true,
		Table:  vm.Table{Columns: []string{"A", "B", "C"}, Empty: "No results."},
	}))

	assert.Contains(t, html, `colspan="3"`)
	assert.Contains(t, html, "No results.")
}

func TestList_NotLoadedHidesTable(t *testing.T) {
	html := render(t, List(vm.ListPage{
		Shell:  vm.Shell{Title: "Users", Err: "Could not reach the server."},
		Search: &vm.Search{Action: "/users", Query: "lee"},
		Table:  vm.Table{Columns: []string{"Name"}},
	}))

	assert.Contains(t, html, "Could not reach the server.")
	assert.Contains(t, html, `value="lee"`)
	assert.NotContains(t, html, "<table>")
}

func TestShell_RendersNavAndLogout(t *testing.T) {
	html := render(t, Dashboard(vm.DashboardPage{
		Shell: vm.Shell{
			Title: "Dashboard",
			CSRF:  "tok",
			Nav: []vm.NavItem{
				{Label: "Dashboard", Path: "/dashboard", Active: true},
				{Label: "Users", Path: "/users"},
			},
		},
	}))

	assert.Contains(t, html, `<a href="/dashboard" class="nav-item active" aria-current="page">Dashboard</a>`)
	assert.Contains(t, html, `<a href="/users" class="nav-item">Users</a>`)
	assert.Contains(t, html, `action="/logout"`)
	assert.Contains(t, html, `name="csrf_token" value="tok"`)
}

func TestLogin_KeepsID(t *testing.T) {
	html := render(t, Login(vm.LoginPage{CSRF: "c", ID: `a"b`, Err: "ADMIN role required"}))

	assert.Contains(t, html, `value="a&#34;b"`)
	assert.Contains(t, html, "ADMIN role required")
}

func TestUserDetail_Cards(t *testing.T) {
	html := render(t, UserDetail(vm.UserDetailPage{
		Shell:  vm.Shell{Title: "User detail"},
		Loaded: true,
		Cards: []vm.Card{
			{Title: "Profile", Items: []vm.KV{{Key: "name", Value: "Lee"}, {Key: "phone", Value: ""}}},
			{Title: "Caregiver profile", Empty: "None"},
		},
		Patients: vm.Table{Columns: []string{"ID"}, Empty: "None"},
	}))

	assert.Contains(t, html, "Lee")
	assert.Contains(t, html, "Caregiver profile")
	assert.Contains(t, html, "None")
}

func TestLayout_DocumentAndTitle(t *testing.T) {
	html := render(t, Login(vm.LoginPage{CSRF: "c"}))

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>Sign in · DongDong Admin</title>")
	assert.Contains(t, html, `<link rel="stylesheet" href="/static/app.css">`)
	assert.True(t, strings.HasSuffix(html, "</body></html>"))
}

func TestList_CellLinksAndDashes(t *testing.T) {
	html := render(t, List(vm.ListPage{
		Shell:  vm.Shell{Title: "Users"},
		Loaded: true,
		Table: vm.Table{
			Columns: []string{"ID", "Phone"},
			Rows:    []vm.Row{{Cells: []vm.Cell{{Text: "12", Href: "/users/12"}, {Text: ""}}}},
		},
	}))

	assert.Contains(t, html, `<td><a href="/users/12">12</a></td><td>—</td>`)
	assert.NotContains(t, html, `class="empty"`)
}

func TestPassword_OKBanner(t *testing.T) {
	html := render(t, Password(vm.PasswordPage{Shell: vm.Shell{Title: "Password", CSRF: "tok"}, OK: "Password changed."}))

	assert.Contains(t, html, `<div class="alert alert-ok" role="status">Password changed.</div>`)
	assert.Contains(t, html, `minlength="6"`)
	assert.Equal(t, 2, strings.Count(html, `name="csrf_token" value="tok"`), "logout and password forms")
}

func TestMatchDetail_EscapesJSON(t *testing.T) {
	html := render(t, MatchDetail(vm.MatchDetailPage{
		Shell:  vm.Shell{Title: "Match"},
		Loaded: true,
		JSON:   `{"note": "<b>x</b>"}`,
	}))

	assert.Contains(t, html, `<pre class="json">{&#34;note&#34;: &#34;&lt;b&gt;x&lt;/b&gt;&#34;}</pre>`)
}

func TestRender_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Dashboard(vm.DashboardPage{Shell: vm.Shell{Title: "Dashboard"}}).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
}
