package model

import "time"

// CheckIn statuses. "missed" rows are inserted by the daily sweep for workers
// who were rostered on but never submitted.
const (
	CheckInSubmitted = "submitted"
	CheckInMissed    = "missed"
)

type CheckIn struct {
	ID             int       `db:"id" json:"id"`
	WorkerID       int       `db:"worker_id" json:"worker_id"`
	CheckInDate    time.Time `db:"checkin_date" json:"checkin_date"`
	Status         string    `db:"status" json:"status"`
	ReadinessScore int       `db:"readiness_score" json:"readiness_score"`
	Fatigued       bool      `db:"fatigued" json:"fatigued"`
	InPain         bool      `db:"in_pain" json:"in_pain"`
	Note           *string   `db:"note" json:"note"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
