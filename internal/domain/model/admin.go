package model

import (
	"fmt"
	"strings"
)

// ListQuery holds the paging and search parameters shared by admin list endpoints.
type ListQuery struct {
	Q     string
	Page  int
	Limit int
}

// DefaultListQuery mirrors the console's default page: first page, 50 rows.
func DefaultListQuery() ListQuery {
	return ListQuery{Page: 1, Limit: 50}
}

// User is a row from /admin/users.
type User struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Provider         string `json:"provider"`
	Role             string `json:"role"`
	CreatedAt        string `json:"createdAt"`
	CaregiverProfile bool   `json:"caregiverProfile"`
	PatientsCount    int    `json:"patientsCount"`
}

// Caregiver is a row from /admin/caregivers.
type Caregiver struct {
	ID          int64   `json:"id"`
	OwnerUserID int64   `json:"ownerUserId"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	IsVerified  bool    `json:"isVerified"`
	IsAvailable bool    `json:"isAvailable"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	CreatedAt   string  `json:"createdAt"`
}

// Match is a row from /admin/matches.
type Match struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	RequestID     string `json:"requestId"`
	CaregiverID   *int64 `json:"caregiverId"`
	CaregiverName string `json:"caregiverName"`
	PatientID     string `json:"patientId"`
	PatientName   string `json:"patientName"`
	CreatedAt     string `json:"createdAt"`
	AcceptedAt    string `json:"acceptedAt"`
	CompletedAt   string `json:"completedAt"`
}

// Record is a loosely typed row for endpoints whose field names vary between
// backend versions (camelCase and snake_case both occur).
type Record map[string]any

// Field returns the first non-empty value among keys, formatted as a string.
// It returns "" when none of the keys hold a value.
func (r Record) Field(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch tv := v.(type) {
		case string:
			s = tv
		case float64:
			if tv == float64(int64(tv)) {
				s = fmt.Sprintf("%d", int64(tv))
			} else {
				s = fmt.Sprintf("%g", tv)
			}
		default:
			s = fmt.Sprint(tv)
		}
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// LoginAccount is the account summary returned alongside a login token.
type LoginAccount struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Role     string `json:"role"`
}

// LoginResult is the decoded body of POST /auth/login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Account      LoginAccount
}

// DashboardStats holds the collection sizes shown on the dashboard.
// A nil field means the backend did not report a total.
type DashboardStats struct {
	Users        *int
	Caregivers   *int
	CareRequests *int
	Matches      *int
}

// Object returns the nested object at key, or nil when absent or not an object.
func (r Record) Object(key string) Record {
	if m, ok := r[key].(map[string]any); ok {
		return Record(m)
	}
	return nil
}

// Records returns the objects in the array at key, skipping non-object entries.
func (r Record) Records(key string) []Record {
	arr, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}
