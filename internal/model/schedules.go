package model

import "time"

// ScheduleRule is one roster entry for a worker: either a single dated shift
// (scheduled_date set) or a weekly recurrence (day_of_week set, 0=Sunday),
// optionally bounded by an inclusive effective/expiry window. The columns are
// nullable in Postgres; validation happens in the schedule package.
type ScheduleRule struct {
	ID            int        `db:"id" json:"id"`
	WorkerID      int        `db:"worker_id" json:"worker_id"`
	ScheduledDate *time.Time `db:"scheduled_date" json:"scheduled_date"`
	DayOfWeek     *int       `db:"day_of_week" json:"day_of_week"`
	EffectiveDate *time.Time `db:"effective_date" json:"effective_date"`
	ExpiryDate    *time.Time `db:"expiry_date" json:"expiry_date"`
	CreatedBy     int        `db:"created_by" json:"created_by"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
