// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// NavItem is one entry of the console navigation.
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

// Shell holds what every authenticated page needs around its content.
type Shell struct {
	Title    string
	Subtitle string
	Nav      []NavItem
	CSRF     string
	// Err is shown above the content when the last fetch failed.
	Err string
}

// Cell is one table cell. When Href is set the text renders as a link.
type Cell struct {
	Text string
	Href string
}

// Row is one table row.
type Row struct {
	Cells []Cell
}

// Table is a list screen's result table.
type Table struct {
	Columns []string
	Rows    []Row
	Empty   string
}

// Search is the search box shown above a list.
type Search struct {
	Action      string
	Query       string
	Placeholder string
}

// ListPage is a list screen.
type ListPage struct {
	Shell  Shell
	Search *Search
	Table  Table
	Loaded bool
}

// StatCard is one headline number on the dashboard.
type StatCard struct {
	Label string
	Value string
	Href  string
}

// DashboardPage is the dashboard screen.
type DashboardPage struct {
	Shell  Shell
	Cards  []StatCard
	Loaded bool
}

// KV is a labelled value.
type KV struct {
	Key   string
	Value string
}

// Card is a titled group of labelled values.
type Card struct {
	Title string
	Items []KV
	// Empty is shown when Items is empty.
	Empty string
}

// UserDetailPage is the user detail screen.
type UserDetailPage struct {
	Shell    Shell
	Cards    []Card
	Patients Table
	Loaded   bool
}

// MatchDetailPage is the match detail screen.
type MatchDetailPage struct {
	Shell  Shell
	JSON   string
	Loaded bool
}

// LoginPage is the sign-in form.
type LoginPage struct {
	CSRF string
	ID   string
	Err  string
}

// PasswordPage is the change-password form.
type PasswordPage struct {
	Shell Shell
	OK    string
}
