package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/model"
)

const caseColumns = `id, worker_id, incident_id, clinician_id, title, status, resolution_note, resolved_at, created_at, updated_at`

func (s *pgStore) CreateCase(workerID int, incidentID, clinicianID *int, title string) (model.Case, error) {
	var c model.Case
	const q = `
	INSERT INTO cases (worker_id, incident_id, clinician_id, title, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, now(), now())
	RETURNING ` + caseColumns + `;`
	if err := s.db.Get(&c, q, workerID, incidentID, clinicianID, title, model.CaseOpen); err != nil {
		log.Error().Err(err).Int("worker_id", workerID).Msg("CreateCase failed")
		return model.Case{}, err
	}
	return c, nil
}

func (s *pgStore) GetCaseByID(id int) (model.Case, error) {
	var c model.Case
	if err := s.db.Get(&c, `SELECT `+caseColumns+` FROM cases WHERE id = $1;`, id); err != nil {
		log.Error().Err(err).Int("case_id", id).Msg("GetCaseByID failed")
		return model.Case{}, err
	}
	return c, nil
}

func (s *pgStore) ListCases(status string) ([]model.Case, error) {
	var out []model.Case
	const q = `
	SELECT ` + caseColumns + `
	  FROM cases
	 WHERE ($1 = '' OR status = $1)
	 ORDER BY updated_at DESC;`
	if err := s.db.Select(&out, q, status); err != nil {
		log.Error().Err(err).Msg("ListCases failed")
		return nil, err
	}
	return out, nil
}

// UpdateCaseStatus moves a case to the given status; resolved_at is stamped
// when the new status is resolved.
func (s *pgStore) UpdateCaseStatus(id int, status string, resolutionNote *string) error {
	const q = `
	UPDATE cases
	   SET status = $2,
	       resolution_note = COALESCE($3, resolution_note),
	       resolved_at = CASE WHEN $2 = 'resolved' THEN now() ELSE resolved_at END,
	       updated_at = now()
	 WHERE id = $1;`
	_, err := s.db.Exec(q, id, status, resolutionNote)
	if err != nil {
		log.Error().Err(err).Int("case_id", id).Str("status", status).Msg("UpdateCaseStatus failed")
	}
	return err
}

// UpsertRehabPlan creates or replaces the single rehab plan of a case.
func (s *pgStore) UpsertRehabPlan(caseID int, plan string, reviewDate *time.Time) (model.RehabPlan, error) {
	var p model.RehabPlan
	const q = `
	INSERT INTO rehab_plans (case_id, plan, review_date, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	ON CONFLICT (case_id) DO UPDATE
	   SET plan = EXCLUDED.plan, review_date = EXCLUDED.review_date, updated_at = now()
	RETURNING id, case_id, plan, review_date, created_at, updated_at;`
	if err := s.db.Get(&p, q, caseID, plan, reviewDate); err != nil {
		log.Error().Err(err).Int("case_id", caseID).Msg("UpsertRehabPlan failed")
		return model.RehabPlan{}, err
	}
	return p, nil
}

// GetRehabPlan returns nil, nil when the case has no plan yet.
func (s *pgStore) GetRehabPlan(caseID int) (*model.RehabPlan, error) {
	var p model.RehabPlan
	err := s.db.Get(&p, `SELECT id, case_id, plan, review_date, created_at, updated_at FROM rehab_plans WHERE case_id = $1;`, caseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Int("case_id", caseID).Msg("GetRehabPlan failed")
		return nil, err
	}
	return &p, nil
}
