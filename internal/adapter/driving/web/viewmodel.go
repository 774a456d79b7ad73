package web

import (
	"fmt"
	"net/url"
	"strconv"

	vm "github.com/ericfisherdev/dongdong-admin/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
)

const emptyList = "No results."

func totalSubtitle(total *int) string {
	if total == nil {
		return "total: —"
	}
	return "total: " + strconv.Itoa(*total)
}

func countText(n *int) string {
	if n == nil {
		return "—"
	}
	return strconv.Itoa(*n)
}

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// day keeps the YYYY-MM-DD prefix of a timestamp.
func day(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

// stamp keeps the date and time of a timestamp, without zone or fraction.
func stamp(ts string) string {
	if len(ts) > 19 {
		return ts[:19]
	}
	return ts
}

func detailPath(base string, id int64) string {
	return base + "/" + url.PathEscape(strconv.FormatInt(id, 10))
}

func toDashboardCards(stats model.DashboardStats) []vm.StatCard {
	return []vm.StatCard{
		{Label: "Users", Value: countText(stats.Users), Href: "/users"},
		{Label: "Caregivers", Value: countText(stats.Caregivers), Href: "/caregivers"},
		{Label: "Care requests", Value: countText(stats.CareRequests), Href: "/care-requests"},
		{Label: "Matches", Value: countText(stats.Matches), Href: "/matches"},
	}
}

func toUsersTable(users []model.User) vm.Table {
	t := vm.Table{
		Columns: []string{"ID", "Name", "Email (masked)", "Provider", "Role", "Patients", "Caregiver", "Joined", ""},
		Rows:    make([]vm.Row, 0, len(users)),
		Empty:   emptyList,
	}
	for _, u := range users {
		t.Rows = append(t.Rows, vm.Row{Cells: []vm.Cell{
			{Text: strconv.FormatInt(u.ID, 10)},
			{Text: u.Name},
			{Text: u.Email},
			{Text: u.Provider},
			{Text: u.Role},
			{Text: strconv.Itoa(u.PatientsCount)},
			{Text: yn(u.CaregiverProfile)},
			{Text: day(u.CreatedAt)},
			{Text: "Detail", Href: detailPath("/users", u.ID)},
		}})
	}
	return t
}

func toCaregiversTable(caregivers []model.Caregiver) vm.Table {
	t := vm.Table{
		Columns: []string{"ID", "Owner user", "Name", "Phone (masked)", "Verified", "Available", "Rating", "Reviews", "Joined"},
		Rows:    make([]vm.Row, 0, len(caregivers)),
		Empty:   emptyList,
	}
	for _, c := range caregivers {
		t.Rows = append(t.Rows, vm.Row{Cells: []vm.Cell{
			{Text: strconv.FormatInt(c.ID, 10)},
			{Text: strconv.FormatInt(c.OwnerUserID, 10), Href: detailPath("/users", c.OwnerUserID)},
			{Text: c.Name},
			{Text: c.Phone},
			{Text: yn(c.IsVerified)},
			{Text: yn(c.IsAvailable)},
			{Text: strconv.FormatFloat(c.Rating, 'f', -1, 64)},
			{Text: strconv.Itoa(c.ReviewCount)},
			{Text: day(c.CreatedAt)},
		}})
	}
	return t
}

func toCareRequestsTable(rows []model.Record) vm.Table {
	t := vm.Table{
		Columns: []string{"ID", "Status", "Care type", "Location", "Start", "End", "Created"},
		Rows:    make([]vm.Row, 0, len(rows)),
		Empty:   emptyList,
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, vm.Row{Cells: []vm.Cell{
			{Text: r.Field("id")},
			{Text: r.Field("status")},
			{Text: r.Field("careType", "care_type")},
			{Text: r.Field("location")},
			{Text: day(r.Field("startDate", "start_date"))},
			{Text: day(r.Field("endDate", "end_date"))},
			{Text: day(r.Field("createdAt", "created_at"))},
		}})
	}
	return t
}

func toMatchesTable(matches []model.Match) vm.Table {
	t := vm.Table{
		Columns: []string{"ID", "Status", "Request", "Caregiver", "Patient", "Created", ""},
		Rows:    make([]vm.Row, 0, len(matches)),
		Empty:   emptyList,
	}
	for _, m := range matches {
		caregiver := ""
		if m.CaregiverName != "" {
			id := "?"
			if m.CaregiverID != nil {
				id = strconv.FormatInt(*m.CaregiverID, 10)
			}
			caregiver = fmt.Sprintf("%s (#%s)", m.CaregiverName, id)
		}
		patient := ""
		if m.PatientName != "" {
			patient = fmt.Sprintf("%s (%s)", m.PatientName, m.PatientID)
		}
		t.Rows = append(t.Rows, vm.Row{Cells: []vm.Cell{
			{Text: strconv.FormatInt(m.ID, 10)},
			{Text: m.Status},
			{Text: m.RequestID},
			{Text: caregiver},
			{Text: patient},
			{Text: day(m.CreatedAt)},
			{Text: "Detail", Href: detailPath("/matches", m.ID)},
		}})
	}
	return t
}

func toReportsTable(rows []model.Record) vm.Table {
	t := vm.Table{
		Columns: []string{"ID", "Status", "Type", "Created"},
		Rows:    make([]vm.Row, 0, len(rows)),
		Empty:   emptyList,
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, vm.Row{Cells: []vm.Cell{
			{Text: r.Field("id")},
			{Text: r.Field("status")},
			{Text: r.Field("type", "reportType")},
			{Text: day(r.Field("createdAt", "created_at"))},
		}})
	}
	return t
}

// toUserDetail builds the profile cards and patient table of a user record.
func toUserDetail(rec model.Record) ([]vm.Card, vm.Table) {
	basic := vm.Card{Title: "Profile", Items: []vm.KV{
		{Key: "id", Value: rec.Field("id")},
		{Key: "name", Value: rec.Field("name")},
		{Key: "email", Value: rec.Field("email")},
		{Key: "role", Value: rec.Field("role")},
		{Key: "provider", Value: rec.Field("provider")},
		{Key: "createdAt", Value: stamp(rec.Field("createdAt"))},
	}}

	caregiver := vm.Card{Title: "Caregiver profile", Empty: "None"}
	if p := rec.Object("caregiverProfile"); p != nil {
		caregiver.Items = []vm.KV{
			{Key: "id", Value: p.Field("id")},
			{Key: "name", Value: p.Field("name")},
			{Key: "phone", Value: p.Field("phone")},
			{Key: "isVerified", Value: p.Field("isVerified")},
			{Key: "isAvailable", Value: p.Field("isAvailable")},
			{Key: "rating", Value: p.Field("rating")},
			{Key: "reviewCount", Value: p.Field("reviewCount")},
		}
	}

	patients := rec.Records("patients")
	t := vm.Table{
		Columns: []string{"ID", "Name", "Birth date", "Gender", "Created"},
		Rows:    make([]vm.Row, 0, len(patients)),
		Empty:   "None",
	}
	for _, p := range patients {
		t.Rows = append(t.Rows, vm.Row{Cells: []vm.Cell{
			{Text: p.Field("id")},
			{Text: p.Field("name")},
			{Text: p.Field("birthDate")},
			{Text: p.Field("gender")},
			{Text: day(p.Field("createdAt"))},
		}})
	}

	return []vm.Card{basic, caregiver}, t
}
