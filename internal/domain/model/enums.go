package model

// Role is the backend-assigned role of an account.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleUser      Role = "USER"
	RoleCaregiver Role = "CAREGIVER"
)

// Resource names an admin list endpoint under /admin.
type Resource string

const (
	ResourceUsers        Resource = "users"
	ResourceCaregivers   Resource = "caregivers"
	ResourceCareRequests Resource = "care-requests"
	ResourceMatches      Resource = "matches"
	ResourceReports      Resource = "reports"
)

// Path returns the endpoint path relative to the API base, e.g. "/admin/users".
func (r Resource) Path() string {
	return "/admin/" + string(r)
}

// ListShape tags which backend envelope a list payload arrived in.
type ListShape string

const (
	ShapeItems         ListShape = "items"          // {items: [...]}
	ShapeData          ListShape = "data"           // {data: [...]}
	ShapeRows          ListShape = "rows"           // {rows: [...]}
	ShapeEnvelopeItems ListShape = "envelope.items" // {data: {items: [...]}}
	ShapeEnvelopeData  ListShape = "envelope.data"  // {data: {data: [...]}}
	ShapeEnvelopeRows  ListShape = "envelope.rows"  // {data: {rows: [...]}}
	ShapeEmpty         ListShape = "empty"          // object with no list field but a total
	ShapeUnknown       ListShape = "unknown"        // nothing recognizable
)

// Recognized reports whether the payload matched one of the known envelopes.
func (s ListShape) Recognized() bool {
	return s != ShapeUnknown && s != ""
}
