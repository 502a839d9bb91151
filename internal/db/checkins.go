package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/model"
)

func (s *pgStore) CreateCheckIn(workerID int, day time.Time, score int, fatigued, inPain bool, note *string) (model.CheckIn, error) {
	var c model.CheckIn
	const q = `
	INSERT INTO checkins
	  (worker_id, checkin_date, status, readiness_score, fatigued, in_pain, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	RETURNING id, worker_id, checkin_date, status, readiness_score, fatigued, in_pain, note, created_at;`
	if err := s.db.Get(&c, q, workerID, day, model.CheckInSubmitted, score, fatigued, inPain, note); err != nil {
		log.Error().Err(err).Int("worker_id", workerID).Msg("CreateCheckIn failed")
		return model.CheckIn{}, err
	}
	return c, nil
}

// GetCheckInForDay returns nil, nil when the worker has no check-in row for
// the given day.
func (s *pgStore) GetCheckInForDay(workerID int, day time.Time) (*model.CheckIn, error) {
	var c model.CheckIn
	const q = `
	SELECT id, worker_id, checkin_date, status, readiness_score, fatigued, in_pain, note, created_at
	  FROM checkins
	 WHERE worker_id = $1 AND checkin_date = $2;`
	err := s.db.Get(&c, q, workerID, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Int("worker_id", workerID).Msg("GetCheckInForDay failed")
		return nil, err
	}
	return &c, nil
}

func (s *pgStore) ListCheckIns(workerID, limit, offset int) ([]model.CheckIn, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	var out []model.CheckIn
	const q = `
	SELECT id, worker_id, checkin_date, status, readiness_score, fatigued, in_pain, note, created_at
	  FROM checkins
	 WHERE worker_id = $1
	 ORDER BY checkin_date DESC
	 LIMIT $2 OFFSET $3;`
	if err := s.db.Select(&out, q, workerID, limit, offset); err != nil {
		log.Error().Err(err).Int("worker_id", workerID).Msg("ListCheckIns failed")
		return nil, err
	}
	return out, nil
}

// MarkCheckInMissed inserts a "missed" marker row for a rostered day that
// passed without a submission. A duplicate day is a no-op.
func (s *pgStore) MarkCheckInMissed(workerID int, day time.Time) error {
	const q = `
	INSERT INTO checkins (worker_id, checkin_date, status, readiness_score, fatigued, in_pain, note, created_at)
	VALUES ($1, $2, $3, 0, false, false, NULL, now())
	ON CONFLICT (worker_id, checkin_date) DO NOTHING;`
	_, err := s.db.Exec(q, workerID, day, model.CheckInMissed)
	if err != nil {
		log.Error().Err(err).Int("worker_id", workerID).Msg("MarkCheckInMissed failed")
	}
	return err
}
