package web

import (
	"strings"

	vm "github.com/ericfisherdev/dongdong-admin/internal/adapter/driving/web/viewmodel"
)

var navSections = []vm.NavItem{
	{Label: "Dashboard", Path: "/dashboard"},
	{Label: "Users", Path: "/users"},
	{Label: "Caregivers", Path: "/caregivers"},
	{Label: "Care requests", Path: "/care-requests"},
	{Label: "Matches", Path: "/matches"},
	{Label: "Reports", Path: "/reports"},
	{Label: "Change password", Path: "/settings/password"},
}

// activeSection returns the nav path to highlight for path. An exact match
// wins; otherwise detail pages highlight their parent list. The dashboard
// only ever matches exactly.
func activeSection(path string) string {
	for _, item := range navSections {
		if path == item.Path {
			return item.Path
		}
	}
	for _, item := range navSections {
		if item.Path != "/dashboard" && strings.HasPrefix(path, item.Path+"/") {
			return item.Path
		}
	}
	return ""
}

func navFor(path string) []vm.NavItem {
	active := activeSection(path)
	items := make([]vm.NavItem, len(navSections))
	for i, item := range navSections {
		item.Active = item.Path == active
		items[i] = item
	}
	return items
}
