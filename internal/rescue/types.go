package rescue

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Pet statuses reported by the backend.
const (
	PetAvailable = "available"
	PetInFoster  = "in_foster"
	PetPending   = "pending"
	PetAdopted   = "adopted"
)

// Application statuses.
const (
	ApplicationSubmitted   = "submitted"
	ApplicationUnderReview = "under_review"
	ApplicationApproved    = "approved"
	ApplicationRejected    = "rejected"
)

// Task priorities and statuses.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

// TokenResponse mirrors POST /auth/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Pet mirrors the pet payload.
type Pet struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Species  string `json:"species"`
	Breed    string `json:"breed,omitempty"`
	Status   string `json:"status"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// BreedLabel returns the breed or "Mixed" when unknown.
func (p Pet) BreedLabel() string {
	if b := strings.TrimSpace(p.Breed); b != "" {
		return b
	}
	return "Mixed"
}

// Application mirrors an adoption or foster application.
type Application struct {
	ID            int64  `json:"id"`
	Type          string `json:"type"`
	ApplicantName string `json:"applicant_name,omitempty"`
	Status        string `json:"status"`
}

// Applicant returns the applicant name or a placeholder.
func (a Application) Applicant() string {
	if n := strings.TrimSpace(a.ApplicantName); n != "" {
		return n
	}
	return "Applicant"
}

// Task mirrors an organization task.
type Task struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	DueDate  string `json:"due_date,omitempty"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

// MedicalRecord mirrors a veterinary record for a pet.
type MedicalRecord struct {
	ID          int64  `json:"id"`
	Description string `json:"description,omitempty"`
	Note        string `json:"note,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// Title picks the best available headline for the record.
func (m MedicalRecord) Title() string {
	if d := strings.TrimSpace(m.Description); d != "" {
		return d
	}
	if n := strings.TrimSpace(m.Note); n != "" {
		return n
	}
	return "Medical Record"
}

// ParsedCreatedAt returns CreatedAt as time.Time, zero when unparseable.
func (m MedicalRecord) ParsedCreatedAt() time.Time {
	return parseTime(m.CreatedAt)
}

// Organization is the one mutable entity: edited locally, written back whole.
type Organization struct {
	Name                string `json:"name"`
	LogoURL             string `json:"logo_url"`
	PrimaryContactEmail string `json:"primary_contact_email"`
}

// SettingsEnvelope mirrors GET and PUT /settings.
type SettingsEnvelope struct {
	Organization Organization `json:"organization"`
}

// PortalSummary mirrors /portal/me.
type PortalSummary struct {
	MyApplications []Application `json:"my_applications"`
	MyFosterPets   []Pet         `json:"my_foster_pets"`
	MyTasks        []Task        `json:"my_tasks"`
}

// MonthlyCount is one point of /stats/adoptions_by_month.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// StatusCount is one bucket of /stats/pets_by_status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DonationsSummary mirrors /stats/donations_summary. The total is kept raw
// because the backend has been seen to send numbers, strings and null.
type DonationsSummary struct {
	TotalDonations json.RawMessage `json:"total_donations,omitempty"`
}

// Total coerces the donation total to a number, defaulting to 0.
func (d DonationsSummary) Total() float64 {
	raw := bytes.TrimSpace(d.TotalDonations)
	if len(raw) == 0 {
		return 0
	}
	var value float64
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		value = parsed
	default:
		if err := json.Unmarshal(raw, &value); err != nil {
			return 0
		}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

const naiveTimestampLayout = "2006-01-02T15:04:05"

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	// Naive timestamps without an offset; fractional seconds parse implicitly.
	if t, err := time.ParseInLocation(naiveTimestampLayout, value, time.Local); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
