package model

import "time"

// Case statuses.
const (
	CaseOpen       = "open"
	CaseInProgress = "in_progress"
	CaseResolved   = "resolved"
)

// Case tracks a worker's health matter from intake to resolution, optionally
// linked to the incident that triggered it and owned by a clinician.
type Case struct {
	ID             int        `db:"id" json:"id"`
	WorkerID       int        `db:"worker_id" json:"worker_id"`
	IncidentID     *int       `db:"incident_id" json:"incident_id"`
	ClinicianID    *int       `db:"clinician_id" json:"clinician_id"`
	Title          string     `db:"title" json:"title"`
	Status         string     `db:"status" json:"status"`
	ResolutionNote *string    `db:"resolution_note" json:"resolution_note"`
	ResolvedAt     *time.Time `db:"resolved_at" json:"resolved_at"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// ValidCaseTransition reports whether a case may move between the two statuses.
func ValidCaseTransition(from, to string) bool {
	switch from {
	case CaseOpen:
		return to == CaseInProgress || to == CaseResolved
	case CaseInProgress:
		return to == CaseResolved
	default:
		return false
	}
}

// RehabPlan is the rehabilitation plan attached to a case.
type RehabPlan struct {
	ID         int        `db:"id" json:"id"`
	CaseID     int        `db:"case_id" json:"case_id"`
	Plan       string     `db:"plan" json:"plan"`
	ReviewDate *time.Time `db:"review_date" json:"review_date"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
