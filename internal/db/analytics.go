package db

import (
	"time"

	"github.com/rs/zerolog/log"
)

// CheckInComplianceByDay aggregates submitted vs missed check-ins per day for
// the dashboard compliance chart.
func (s *pgStore) CheckInComplianceByDay(from, to time.Time) ([]CheckInCompliance, error) {
	var out []CheckInCompliance
	const q = `
	SELECT to_char(checkin_date, 'YYYY-MM-DD') AS d,
	       count(*) FILTER (WHERE status = 'submitted') AS submitted,
	       count(*) FILTER (WHERE status = 'missed')    AS missed
	  FROM checkins
	 WHERE checkin_date >= $1 AND checkin_date <= $2
	 GROUP BY checkin_date
	 ORDER BY checkin_date;`
	if err := s.db.Select(&out, q, from, to); err != nil {
		log.Error().Err(err).Msg("CheckInComplianceByDay failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) IncidentCountsBySeverity() ([]StatusCount, error) {
	var out []StatusCount
	const q = `
	SELECT severity AS label, count(*) AS count
	  FROM incidents
	 GROUP BY severity
	 ORDER BY count DESC;`
	if err := s.db.Select(&out, q); err != nil {
		log.Error().Err(err).Msg("IncidentCountsBySeverity failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) IncidentCountsByStatus() ([]StatusCount, error) {
	var out []StatusCount
	const q = `
	SELECT status AS label, count(*) AS count
	  FROM incidents
	 GROUP BY status
	 ORDER BY count DESC;`
	if err := s.db.Select(&out, q); err != nil {
		log.Error().Err(err).Msg("IncidentCountsByStatus failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) OpenCaseCount() (int, error) {
	var n int
	if err := s.db.Get(&n, `SELECT count(*) FROM cases WHERE status <> 'resolved';`); err != nil {
		log.Error().Err(err).Msg("OpenCaseCount failed")
		return 0, err
	}
	return n, nil
}
