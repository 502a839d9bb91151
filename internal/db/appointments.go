package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/model"
)

func (s *pgStore) CreateAppointment(caseID, clinicianID int, startsAt time.Time, durationMinutes int, note *string) (model.Appointment, error) {
	var a model.Appointment
	const q = `
	INSERT INTO appointments (case_id, clinician_id, starts_at, duration_minutes, status, note, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	RETURNING id, case_id, clinician_id, starts_at, duration_minutes, status, note, created_at, updated_at;`
	if err := s.db.Get(&a, q, caseID, clinicianID, startsAt, durationMinutes, model.AppointmentBooked, note); err != nil {
		log.Error().Err(err).Int("case_id", caseID).Msg("CreateAppointment failed")
		return model.Appointment{}, err
	}
	return a, nil
}

func (s *pgStore) ListAppointmentsForClinician(clinicianID int, from, to time.Time) ([]model.Appointment, error) {
	var out []model.Appointment
	const q = `
	SELECT id, case_id, clinician_id, starts_at, duration_minutes, status, note, created_at, updated_at
	  FROM appointments
	 WHERE clinician_id = $1 AND starts_at >= $2 AND starts_at < $3
	 ORDER BY starts_at;`
	if err := s.db.Select(&out, q, clinicianID, from, to); err != nil {
		log.Error().Err(err).Int("clinician_id", clinicianID).Msg("ListAppointmentsForClinician failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateAppointmentStatus(id int, status string) error {
	_, err := s.db.Exec(`UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1;`, id, status)
	if err != nil {
		log.Error().Err(err).Int("appointment_id", id).Str("status", status).Msg("UpdateAppointmentStatus failed")
	}
	return err
}
