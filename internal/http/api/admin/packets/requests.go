package packets

import "time"

// CreateScheduleRuleRequest carries one roster entry. Exactly one of
// scheduled_date / day_of_week must be present; dates are YYYY-MM-DD.
type CreateScheduleRuleRequest struct {
	ScheduledDate *string `json:"scheduled_date"`
	DayOfWeek     *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	EffectiveDate *string `json:"effective_date"`
	ExpiryDate    *string `json:"expiry_date"`
}

type WorkerDaysQuery struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

type UpdateIncidentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=under_review actioned closed"`
}

type ListIncidentsQuery struct {
	WorkerID int    `form:"worker_id"`
	Status   string `form:"status" binding:"omitempty,oneof=reported under_review actioned closed"`
	Severity string `form:"severity" binding:"omitempty,oneof=minor moderate serious critical"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

type CreateCaseRequest struct {
	WorkerID    int    `json:"worker_id" binding:"required"`
	IncidentID  *int   `json:"incident_id"`
	ClinicianID *int   `json:"clinician_id"`
	Title       string `json:"title" binding:"required"`
}

type UpdateCaseStatusRequest struct {
	Status         string  `json:"status" binding:"required,oneof=in_progress resolved"`
	ResolutionNote *string `json:"resolution_note"`
}

type UpsertRehabPlanRequest struct {
	Plan       string  `json:"plan" binding:"required"`
	ReviewDate *string `json:"review_date"`
}

type CreateAppointmentRequest struct {
	CaseID          int       `json:"case_id" binding:"required"`
	StartsAt        time.Time `json:"starts_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=5,max=480"`
	Note            *string   `json:"note"`
}

type AppointmentsQuery struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

type ComplianceQuery struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}
