package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/model"
)

func (s *pgStore) CreateIncident(workerID int, occurredAt time.Time, location, severity, description string, attachmentURL *string) (model.Incident, error) {
	var in model.Incident
	const q = `
	INSERT INTO incidents
	  (worker_id, occurred_at, location, severity, description, status, attachment_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	RETURNING id, worker_id, occurred_at, location, severity, description, status, attachment_url, created_at, updated_at;`
	if err := s.db.Get(&in, q, workerID, occurredAt, location, severity, description, model.IncidentReported, attachmentURL); err != nil {
		log.Error().Err(err).Int("worker_id", workerID).Msg("CreateIncident failed")
		return model.Incident{}, err
	}
	return in, nil
}

func (s *pgStore) GetIncidentByID(id int) (model.Incident, error) {
	var in model.Incident
	const q = `
	SELECT id, worker_id, occurred_at, location, severity, description, status, attachment_url, created_at, updated_at
	  FROM incidents
	 WHERE id = $1;`
	if err := s.db.Get(&in, q, id); err != nil {
		log.Error().Err(err).Int("incident_id", id).Msg("GetIncidentByID failed")
		return model.Incident{}, err
	}
	return in, nil
}

// ListIncidents applies the filter's non-zero fields. Results are newest first.
func (s *pgStore) ListIncidents(filter IncidentFilter) ([]model.Incident, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	const q = `
	SELECT id, worker_id, occurred_at, location, severity, description, status, attachment_url, created_at, updated_at
	  FROM incidents
	 WHERE ($1 = 0 OR worker_id = $1)
	   AND ($2 = '' OR status = $2)
	   AND ($3 = '' OR severity = $3)
	 ORDER BY occurred_at DESC
	 LIMIT $4 OFFSET $5;`
	var out []model.Incident
	if err := s.db.Select(&out, q, filter.WorkerID, filter.Status, filter.Severity, limit, filter.Offset); err != nil {
		log.Error().Err(err).Msg("ListIncidents failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) SetIncidentAttachment(id int, attachmentURL string) error {
	_, err := s.db.Exec(`UPDATE incidents SET attachment_url = $2, updated_at = now() WHERE id = $1;`, id, attachmentURL)
	if err != nil {
		log.Error().Err(err).Int("incident_id", id).Msg("SetIncidentAttachment failed")
	}
	return err
}

func (s *pgStore) UpdateIncidentStatus(id int, status string) error {
	_, err := s.db.Exec(`UPDATE incidents SET status = $2, updated_at = now() WHERE id = $1;`, id, status)
	if err != nil {
		log.Error().Err(err).Int("incident_id", id).Str("status", status).Msg("UpdateIncidentStatus failed")
	}
	return err
}
