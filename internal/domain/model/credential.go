package model

import "time"

// AccessTokenSlot is the slot name holding the admin bearer token within a
// browser session scope.
const AccessTokenSlot = "dd_admin_access_token"

// CredentialSlot is one persisted value in browser-scoped durable storage.
// Scope identifies the browser session; Name identifies the slot within it.
type CredentialSlot struct {
	Scope     string
	Name      string
	Value     string
	UpdatedAt time.Time
}
