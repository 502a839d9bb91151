// Package jobs runs the scheduled background work: the end-of-day sweep that
// records missed check-ins and warms the next-scheduled-day cache.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/redis"
	"github.com/torchlight-safety/warden/internal/schedule"
)

type Sweeper struct {
	cronEngine *cron.Cron
	store      db.Store
	sweepSpec  string
}

func NewSweeper(store db.Store, sweepSpec string) *Sweeper {
	return &Sweeper{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		store:      store,
		sweepSpec:  sweepSpec,
	}
}

// Start registers the cron entries and launches the engine.
func (s *Sweeper) Start() error {
	_, err := s.cronEngine.AddFunc(s.sweepSpec, func() {
		log.Info().Msg("daily check-in sweep triggered")
		s.RunDailySweep(context.Background(), time.Now())
	})
	if err != nil {
		return err
	}
	s.cronEngine.Start()
	log.Info().Str("spec", s.sweepSpec).Msg("check-in sweeper started")
	return nil
}

// Stop halts the cron engine, waiting for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
}

// RunDailySweep walks every worker's roster for the given day. Workers who
// were rostered on and never submitted get a "missed" marker row, and each
// worker's next scheduled date is recomputed into the cache. Failures on one
// worker never block the rest of the sweep.
func (s *Sweeper) RunDailySweep(ctx context.Context, now time.Time) {
	workers, err := s.store.ListWorkers()
	if err != nil {
		log.Error().Err(err).Msg("sweep aborted: could not list workers")
		return
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	missed := 0
	for _, w := range workers {
		rows, err := s.store.ListScheduleRules(w.ID)
		if err != nil {
			log.Error().Err(err).Int("worker_id", w.ID).Msg("sweep: could not load rules")
			continue
		}
		rules, clean := schedule.FromModels(rows)
		if !clean {
			log.Warn().Int("worker_id", w.ID).Msg("sweep: skipped malformed schedule rules")
		}

		today := schedule.ExpandRange(rules, day, day)
		if today.Contains(day.Format(schedule.DateLayout)) {
			checkin, err := s.store.GetCheckInForDay(w.ID, day)
			if err != nil {
				log.Error().Err(err).Int("worker_id", w.ID).Msg("sweep: could not load check-in")
				continue
			}
			if checkin == nil {
				if err := s.store.MarkCheckInMissed(w.ID, day); err == nil {
					missed++
				}
			}
		}

		if next, ok := schedule.NextMatch(rules, day, 0); ok {
			redis.SetNextScheduled(ctx, w.ID, next)
		} else {
			redis.InvalidateNextScheduled(ctx, w.ID)
		}
	}
	log.Info().Int("workers", len(workers)).Int("missed", missed).Msg("daily check-in sweep finished")
}
