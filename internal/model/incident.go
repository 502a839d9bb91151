package model

import "time"

// Incident statuses, in workflow order.
const (
	IncidentReported    = "reported"
	IncidentUnderReview = "under_review"
	IncidentActioned    = "actioned"
	IncidentClosed      = "closed"
)

// Incident severities.
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeveritySerious  = "serious"
	SeverityCritical = "critical"
)

type Incident struct {
	ID            int       `db:"id" json:"id"`
	WorkerID      int       `db:"worker_id" json:"worker_id"`
	OccurredAt    time.Time `db:"occurred_at" json:"occurred_at"`
	Location      string    `db:"location" json:"location"`
	Severity      string    `db:"severity" json:"severity"`
	Description   string    `db:"description" json:"description"`
	Status        string    `db:"status" json:"status"`
	AttachmentURL *string   `db:"attachment_url" json:"attachment_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ValidIncidentTransition reports whether an incident may move between the two
// statuses. Reopening is not allowed.
func ValidIncidentTransition(from, to string) bool {
	switch from {
	case IncidentReported:
		return to == IncidentUnderReview || to == IncidentClosed
	case IncidentUnderReview:
		return to == IncidentActioned || to == IncidentClosed
	case IncidentActioned:
		return to == IncidentClosed
	default:
		return false
	}
}
