// Package dbtest provides an in-memory Store for handler and job tests, so
// they run without PostgreSQL.
package dbtest

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/model"
)

type FakeStore struct {
	mu sync.Mutex

	nextID       int
	Users        []model.User
	Rules        []model.ScheduleRule
	CheckIns     []model.CheckIn
	Incidents    []model.Incident
	Cases        []model.Case
	Plans        []model.RehabPlan
	Appointments []model.Appointment
}

var _ db.Store = (*FakeStore)(nil)

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (f *FakeStore) id() int {
	f.nextID++
	return f.nextID
}

// user functions

func (f *FakeStore) CreateUser(email, hashedPassword string, name *string, role string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := model.User{
		ID:             f.id(),
		Email:          email,
		HashedPassword: hashedPassword,
		Name:           name,
		Role:           role,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.Users = append(f.Users, u)
	return u.ID, nil
}

func (f *FakeStore) GetUserByEmail(email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Users {
		if f.Users[i].Email == email {
			u := f.Users[i]
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *FakeStore) GetUserByID(id int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Users {
		if f.Users[i].ID == id {
			u := f.Users[i]
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *FakeStore) UpdateUserProfile(id int, email string, name *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Users {
		if f.Users[i].ID == id {
			f.Users[i].Email = email
			f.Users[i].Name = name
			f.Users[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return errors.New("no such user")
}

func (f *FakeStore) ListWorkers() ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.Users {
		if u.Role == model.RoleWorker {
			out = append(out, u)
		}
	}
	return out, nil
}

// schedule rule functions

func (f *FakeStore) CreateScheduleRule(workerID int, scheduledDate *time.Time, dayOfWeek *int, effectiveDate, expiryDate *time.Time, createdBy int) (model.ScheduleRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := model.ScheduleRule{
		ID:            f.id(),
		WorkerID:      workerID,
		ScheduledDate: scheduledDate,
		DayOfWeek:     dayOfWeek,
		EffectiveDate: effectiveDate,
		ExpiryDate:    expiryDate,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.Rules = append(f.Rules, r)
	return r, nil
}

func (f *FakeStore) GetScheduleRule(ruleID int) (model.ScheduleRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Rules {
		if r.ID == ruleID {
			return r, nil
		}
	}
	return model.ScheduleRule{}, sql.ErrNoRows
}

func (f *FakeStore) ListScheduleRules(workerID int) ([]model.ScheduleRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ScheduleRule
	for _, r := range f.Rules {
		if r.WorkerID == workerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeStore) DeleteScheduleRule(ruleID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.Rules {
		if r.ID == ruleID {
			f.Rules = append(f.Rules[:i], f.Rules[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// check-in functions

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (f *FakeStore) CreateCheckIn(workerID int, day time.Time, score int, fatigued, inPain bool, note *string) (model.CheckIn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := model.CheckIn{
		ID:             f.id(),
		WorkerID:       workerID,
		CheckInDate:    day,
		Status:         model.CheckInSubmitted,
		ReadinessScore: score,
		Fatigued:       fatigued,
		InPain:         inPain,
		Note:           note,
		CreatedAt:      time.Now(),
	}
	f.CheckIns = append(f.CheckIns, c)
	return c, nil
}

func (f *FakeStore) GetCheckInForDay(workerID int, day time.Time) (*model.CheckIn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.CheckIns {
		if f.CheckIns[i].WorkerID == workerID && sameDay(f.CheckIns[i].CheckInDate, day) {
			c := f.CheckIns[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *FakeStore) ListCheckIns(workerID, limit, offset int) ([]model.CheckIn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.CheckIn
	for _, c := range f.CheckIns {
		if c.WorkerID == workerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeStore) MarkCheckInMissed(workerID int, day time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.CheckIns {
		if c.WorkerID == workerID && sameDay(c.CheckInDate, day) {
			return nil
		}
	}
	f.CheckIns = append(f.CheckIns, model.CheckIn{
		ID:          f.id(),
		WorkerID:    workerID,
		CheckInDate: day,
		Status:      model.CheckInMissed,
		CreatedAt:   time.Now(),
	})
	return nil
}

// incident functions

func (f *FakeStore) CreateIncident(workerID int, occurredAt time.Time, location, severity, description string, attachmentURL *string) (model.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in := model.Incident{
		ID:            f.id(),
		WorkerID:      workerID,
		OccurredAt:    occurredAt,
		Location:      location,
		Severity:      severity,
		Description:   description,
		Status:        model.IncidentReported,
		AttachmentURL: attachmentURL,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.Incidents = append(f.Incidents, in)
	return in, nil
}

func (f *FakeStore) GetIncidentByID(id int) (model.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, in := range f.Incidents {
		if in.ID == id {
			return in, nil
		}
	}
	return model.Incident{}, sql.ErrNoRows
}

func (f *FakeStore) ListIncidents(filter db.IncidentFilter) ([]model.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Incident
	for _, in := range f.Incidents {
		if filter.WorkerID != 0 && in.WorkerID != filter.WorkerID {
			continue
		}
		if filter.Status != "" && in.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && in.Severity != filter.Severity {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

func (f *FakeStore) UpdateIncidentStatus(id int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Incidents {
		if f.Incidents[i].ID == id {
			f.Incidents[i].Status = status
			f.Incidents[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *FakeStore) SetIncidentAttachment(id int, attachmentURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Incidents {
		if f.Incidents[i].ID == id {
			f.Incidents[i].AttachmentURL = &attachmentURL
			return nil
		}
	}
	return sql.ErrNoRows
}

// case functions

func (f *FakeStore) CreateCase(workerID int, incidentID, clinicianID *int, title string) (model.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := model.Case{
		ID:          f.id(),
		WorkerID:    workerID,
		IncidentID:  incidentID,
		ClinicianID: clinicianID,
		Title:       title,
		Status:      model.CaseOpen,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.Cases = append(f.Cases, c)
	return c, nil
}

func (f *FakeStore) GetCaseByID(id int) (model.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Cases {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Case{}, sql.ErrNoRows
}

func (f *FakeStore) ListCases(status string) ([]model.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Case
	for _, c := range f.Cases {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeStore) UpdateCaseStatus(id int, status string, resolutionNote *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Cases {
		if f.Cases[i].ID == id {
			f.Cases[i].Status = status
			if resolutionNote != nil {
				f.Cases[i].ResolutionNote = resolutionNote
			}
			if status == model.CaseResolved {
				now := time.Now()
				f.Cases[i].ResolvedAt = &now
			}
			f.Cases[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *FakeStore) UpsertRehabPlan(caseID int, plan string, reviewDate *time.Time) (model.RehabPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Plans {
		if f.Plans[i].CaseID == caseID {
			f.Plans[i].Plan = plan
			f.Plans[i].ReviewDate = reviewDate
			f.Plans[i].UpdatedAt = time.Now()
			return f.Plans[i], nil
		}
	}
	p := model.RehabPlan{
		ID:         f.id(),
		CaseID:     caseID,
		Plan:       plan,
		ReviewDate: reviewDate,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	f.Plans = append(f.Plans, p)
	return p, nil
}

func (f *FakeStore) GetRehabPlan(caseID int) (*model.RehabPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Plans {
		if f.Plans[i].CaseID == caseID {
			p := f.Plans[i]
			return &p, nil
		}
	}
	return nil, nil
}

// appointment functions

func (f *FakeStore) CreateAppointment(caseID, clinicianID int, startsAt time.Time, durationMinutes int, note *string) (model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := model.Appointment{
		ID:          f.id(),
		CaseID:      caseID,
		ClinicianID: clinicianID,
		StartsAt:    startsAt,
		Duration:    durationMinutes,
		Status:      model.AppointmentBooked,
		Note:        note,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.Appointments = append(f.Appointments, a)
	return a, nil
}

func (f *FakeStore) ListAppointmentsForClinician(clinicianID int, from, to time.Time) ([]model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Appointment
	for _, a := range f.Appointments {
		if a.ClinicianID == clinicianID && !a.StartsAt.Before(from) && a.StartsAt.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *FakeStore) UpdateAppointmentStatus(id int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Appointments {
		if f.Appointments[i].ID == id {
			f.Appointments[i].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

// analytics functions

func (f *FakeStore) CheckInComplianceByDay(from, to time.Time) ([]db.CheckInCompliance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byDay := map[string]*db.CheckInCompliance{}
	for _, c := range f.CheckIns {
		if c.CheckInDate.Before(from) || c.CheckInDate.After(to) {
			continue
		}
		key := c.CheckInDate.Format("2006-01-02")
		item, ok := byDay[key]
		if !ok {
			item = &db.CheckInCompliance{Date: key}
			byDay[key] = item
		}
		if c.Status == model.CheckInSubmitted {
			item.Submitted++
		} else {
			item.Missed++
		}
	}
	var out []db.CheckInCompliance
	for _, it := range byDay {
		out = append(out, *it)
	}
	return out, nil
}

func (f *FakeStore) IncidentCountsBySeverity() ([]db.StatusCount, error) {
	return f.countIncidents(func(in model.Incident) string { return in.Severity })
}

func (f *FakeStore) IncidentCountsByStatus() ([]db.StatusCount, error) {
	return f.countIncidents(func(in model.Incident) string { return in.Status })
}

func (f *FakeStore) countIncidents(key func(model.Incident) string) ([]db.StatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, in := range f.Incidents {
		counts[key(in)]++
	}
	var out []db.StatusCount
	for label, n := range counts {
		out = append(out, db.StatusCount{Label: label, Count: n})
	}
	return out, nil
}

func (f *FakeStore) OpenCaseCount() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Cases {
		if c.Status != model.CaseResolved {
			n++
		}
	}
	return n, nil
}
