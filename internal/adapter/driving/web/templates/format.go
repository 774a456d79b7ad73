// Package templates holds the console's templ components. Edit the .templ
// sources and run `go tool templ generate`; the _templ.go files are generated.
package templates

// orDash renders an empty value as a dash so table cells never collapse.
func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
