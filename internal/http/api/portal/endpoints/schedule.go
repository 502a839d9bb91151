package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/http/api"
	"github.com/torchlight-safety/warden/internal/http/api/portal/packets"
	"github.com/torchlight-safety/warden/internal/model"
	"github.com/torchlight-safety/warden/internal/redis"
	"github.com/torchlight-safety/warden/internal/schedule"
)

type ScheduleController struct {
	store db.Store
}

func NewScheduleController(store db.Store) *ScheduleController {
	return &ScheduleController{store: store}
}

// ScheduleModule mounts the worker's read-only roster views.
func ScheduleModule(store db.Store) api.Module {
	ctl := NewScheduleController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedule/days", ctl.scheduledDays)
		c.GET("/schedule/next", ctl.nextScheduled)
	})
}

func (sc *ScheduleController) loadRules(workerID int) ([]schedule.Rule, *api.APIError) {
	rows, err := sc.store.ListScheduleRules(workerID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load schedule"}
	}
	rules, clean := schedule.FromModels(rows)
	if !clean {
		log.Warn().Int("worker_id", workerID).Msg("skipped malformed schedule rules")
	}
	return rules, nil
}

// GET /schedule/days?from=2025-01-01&to=2025-01-31
func (sc *ScheduleController) scheduledDays(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var query packets.ScheduleDaysQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	// cap the scan so a bad range cannot walk years of days
	if query.To.Sub(query.From) > 366*24*time.Hour {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "range must not exceed one year"}
	}

	rules, apiErr := sc.loadRules(user.ID)
	if apiErr != nil {
		return nil, apiErr
	}

	days := schedule.ExpandRange(rules, query.From, query.To)
	return packets.ScheduleDaysResponse{Days: days.Sorted()}, nil
}

// GET /schedule/next
func (sc *ScheduleController) nextScheduled(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if cached := redis.GetNextScheduled(ctx, user.ID); cached != "" {
		display, err := schedule.FormatDisplay(cached)
		if err == nil {
			return packets.NextScheduledResponse{Date: cached, Display: display, Found: true}, nil
		}
		// fall through and recompute on a corrupt cache entry
		redis.InvalidateNextScheduled(ctx, user.ID)
	}

	rules, apiErr := sc.loadRules(user.ID)
	if apiErr != nil {
		return nil, apiErr
	}

	next, ok := schedule.NextMatch(rules, time.Now(), 0)
	if !ok {
		return packets.NextScheduledResponse{Found: false}, nil
	}

	display, err := schedule.FormatDisplay(next)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to format date"}
	}

	redis.SetNextScheduled(ctx, user.ID, next)
	return packets.NextScheduledResponse{Date: next, Display: display, Found: true}, nil
}
