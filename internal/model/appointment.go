package model

import "time"

// Appointment statuses.
const (
	AppointmentBooked    = "booked"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	ID          int       `db:"id" json:"id"`
	CaseID      int       `db:"case_id" json:"case_id"`
	ClinicianID int       `db:"clinician_id" json:"clinician_id"`
	StartsAt    time.Time `db:"starts_at" json:"starts_at"`
	Duration    int       `db:"duration_minutes" json:"duration_minutes"`
	Status      string    `db:"status" json:"status"`
	Note        *string   `db:"note" json:"note"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
