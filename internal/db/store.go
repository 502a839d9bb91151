// Package db exposes a Store interface that is passed to API modules and
// background jobs, backed by PostgreSQL via sqlx.
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/torchlight-safety/warden/internal/model"
)

// IncidentFilter narrows ListIncidents. Zero values mean "any".
type IncidentFilter struct {
	WorkerID int
	Status   string
	Severity string
	Limit    int
	Offset   int
}

// CheckInCompliance is one day of the compliance chart: how many workers were
// expected to check in, and how many did.
type CheckInCompliance struct {
	Date      string `db:"d" json:"date"`
	Submitted int    `db:"submitted" json:"submitted"`
	Missed    int    `db:"missed" json:"missed"`
}

// StatusCount is a generic label/count aggregate for charts.
type StatusCount struct {
	Label string `db:"label" json:"label"`
	Count int    `db:"count" json:"count"`
}

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string, role string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error
	ListWorkers() ([]model.User, error)

	// schedule rule functions
	CreateScheduleRule(workerID int, scheduledDate *time.Time, dayOfWeek *int, effectiveDate, expiryDate *time.Time, createdBy int) (model.ScheduleRule, error)
	GetScheduleRule(ruleID int) (model.ScheduleRule, error)
	ListScheduleRules(workerID int) ([]model.ScheduleRule, error)
	DeleteScheduleRule(ruleID int) error

	// check-in functions
	CreateCheckIn(workerID int, day time.Time, score int, fatigued, inPain bool, note *string) (model.CheckIn, error)
	GetCheckInForDay(workerID int, day time.Time) (*model.CheckIn, error)
	ListCheckIns(workerID, limit, offset int) ([]model.CheckIn, error)
	MarkCheckInMissed(workerID int, day time.Time) error

	// incident functions
	CreateIncident(workerID int, occurredAt time.Time, location, severity, description string, attachmentURL *string) (model.Incident, error)
	GetIncidentByID(id int) (model.Incident, error)
	ListIncidents(filter IncidentFilter) ([]model.Incident, error)
	UpdateIncidentStatus(id int, status string) error
	SetIncidentAttachment(id int, attachmentURL string) error

	// case functions
	CreateCase(workerID int, incidentID, clinicianID *int, title string) (model.Case, error)
	GetCaseByID(id int) (model.Case, error)
	ListCases(status string) ([]model.Case, error)
	UpdateCaseStatus(id int, status string, resolutionNote *string) error
	UpsertRehabPlan(caseID int, plan string, reviewDate *time.Time) (model.RehabPlan, error)
	GetRehabPlan(caseID int) (*model.RehabPlan, error)

	// appointment functions
	CreateAppointment(caseID, clinicianID int, startsAt time.Time, durationMinutes int, note *string) (model.Appointment, error)
	ListAppointmentsForClinician(clinicianID int, from, to time.Time) ([]model.Appointment, error)
	UpdateAppointmentStatus(id int, status string) error

	// analytics functions
	CheckInComplianceByDay(from, to time.Time) ([]CheckInCompliance, error)
	IncidentCountsBySeverity() ([]StatusCount, error)
	IncidentCountsByStatus() ([]StatusCount, error)
	OpenCaseCount() (int, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(database *sqlx.DB) Store {
	if database == nil {
		database = DB
	}
	return &pgStore{db: database}
}
