package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/model"
)

func (s *pgStore) CreateScheduleRule(
	workerID int,
	scheduledDate *time.Time,
	dayOfWeek *int,
	effectiveDate, expiryDate *time.Time,
	createdBy int,
) (model.ScheduleRule, error) {
	var r model.ScheduleRule
	const q = `
	INSERT INTO schedule_rules
	  (worker_id, scheduled_date, day_of_week, effective_date, expiry_date, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	RETURNING id, worker_id, scheduled_date, day_of_week, effective_date, expiry_date, created_by, created_at, updated_at;`
	if err := s.db.Get(&r, q, workerID, scheduledDate, dayOfWeek, effectiveDate, expiryDate, createdBy); err != nil {
		log.Error().Err(err).Int("worker_id", workerID).Msg("CreateScheduleRule failed")
		return model.ScheduleRule{}, err
	}
	return r, nil
}

func (s *pgStore) GetScheduleRule(ruleID int) (model.ScheduleRule, error) {
	var r model.ScheduleRule
	const q = `
	SELECT id, worker_id, scheduled_date, day_of_week, effective_date, expiry_date, created_by, created_at, updated_at
	  FROM schedule_rules
	 WHERE id = $1;`
	if err := s.db.Get(&r, q, ruleID); err != nil {
		log.Error().Err(err).Int("rule_id", ruleID).Msg("GetScheduleRule failed")
		return model.ScheduleRule{}, err
	}
	return r, nil
}

func (s *pgStore) ListScheduleRules(workerID int) ([]model.ScheduleRule, error) {
	var out []model.ScheduleRule
	const q = `
	SELECT id, worker_id, scheduled_date, day_of_week, effective_date, expiry_date, created_by, created_at, updated_at
	  FROM schedule_rules
	 WHERE worker_id = $1
	 ORDER BY id;`
	if err := s.db.Select(&out, q, workerID); err != nil {
		log.Error().Err(err).Int("worker_id", workerID).Msg("ListScheduleRules failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) DeleteScheduleRule(ruleID int) error {
	_, err := s.db.Exec(`DELETE FROM schedule_rules WHERE id = $1;`, ruleID)
	if err != nil {
		log.Error().Err(err).Int("rule_id", ruleID).Msg("DeleteScheduleRule failed")
	}
	return err
}
