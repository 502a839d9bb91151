package packets

// ScheduleRuleResponse flattens the nullable date columns to YYYY-MM-DD
// strings for the roster editor.
type ScheduleRuleResponse struct {
	ID            int     `json:"id"`
	WorkerID      int     `json:"worker_id"`
	ScheduledDate *string `json:"scheduled_date"`
	DayOfWeek     *int    `json:"day_of_week"`
	EffectiveDate *string `json:"effective_date"`
	ExpiryDate    *string `json:"expiry_date"`
	CreatedAt     string  `json:"created_at"`
}

type CaseResponse struct {
	ID             int     `json:"id"`
	WorkerID       int     `json:"worker_id"`
	IncidentID     *int    `json:"incident_id"`
	ClinicianID    *int    `json:"clinician_id"`
	Title          string  `json:"title"`
	Status         string  `json:"status"`
	ResolutionNote *string `json:"resolution_note"`
	ResolvedAt     *string `json:"resolved_at"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type RehabPlanResponse struct {
	ID         int     `json:"id"`
	CaseID     int     `json:"case_id"`
	Plan       string  `json:"plan"`
	ReviewDate *string `json:"review_date"`
	UpdatedAt  string  `json:"updated_at"`
}

type AppointmentResponse struct {
	ID              int     `json:"id"`
	CaseID          int     `json:"case_id"`
	ClinicianID     int     `json:"clinician_id"`
	StartsAt        string  `json:"starts_at"`
	DurationMinutes int     `json:"duration_minutes"`
	Status          string  `json:"status"`
	Note            *string `json:"note"`
}

// DashboardResponse aggregates the executive overview numbers.
type DashboardResponse struct {
	OpenCases           int              `json:"open_cases"`
	IncidentsBySeverity []LabelCount     `json:"incidents_by_severity"`
	IncidentsByStatus   []LabelCount     `json:"incidents_by_status"`
	Compliance          []ComplianceItem `json:"compliance"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type ComplianceItem struct {
	Date      string `json:"date"`
	Submitted int    `json:"submitted"`
	Missed    int    `json:"missed"`
}
