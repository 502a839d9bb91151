package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/http/api"
	"github.com/torchlight-safety/warden/internal/http/api/admin/packets"
	"github.com/torchlight-safety/warden/internal/model"
	"github.com/torchlight-safety/warden/internal/redis"
	"github.com/torchlight-safety/warden/internal/schedule"
)

type ScheduleAdminController struct {
	store db.Store
}

func NewScheduleAdminController(store db.Store) *ScheduleAdminController {
	return &ScheduleAdminController{store: store}
}

// ScheduleAdminModule mounts roster management for supervisors: rule CRUD per
// worker plus the expanded calendar view.
func ScheduleAdminModule(store db.Store) api.Module {
	ctl := NewScheduleAdminController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/workers/:id/schedule", ctl.listRules)
		c.POST("/workers/:id/schedule", ctl.createRule)
		c.DELETE("/workers/:id/schedule/:rule_id", ctl.deleteRule)
		c.GET("/workers/:id/schedule/days", ctl.workerDays)
	})
}

func ruleResponse(r model.ScheduleRule) packets.ScheduleRuleResponse {
	fmtDate := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format(schedule.DateLayout)
		return &s
	}
	return packets.ScheduleRuleResponse{
		ID:            r.ID,
		WorkerID:      r.WorkerID,
		ScheduledDate: fmtDate(r.ScheduledDate),
		DayOfWeek:     r.DayOfWeek,
		EffectiveDate: fmtDate(r.EffectiveDate),
		ExpiryDate:    fmtDate(r.ExpiryDate),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

func workerParam(ctx *gin.Context) (int, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, &api.APIError{Code: http.StatusBadRequest, Message: "invalid worker id"}
	}
	return id, nil
}

// lookupWorker rejects ids that do not belong to a worker account.
func (sc *ScheduleAdminController) lookupWorker(workerID int) *api.APIError {
	worker, err := sc.store.GetUserByID(workerID)
	if err != nil {
		return &api.APIError{Code: http.StatusNotFound, Message: "worker not found"}
	}
	if worker.Role != model.RoleWorker {
		return &api.APIError{Code: http.StatusBadRequest, Message: "user is not a worker"}
	}
	return nil
}

func (sc *ScheduleAdminController) listRules(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	workerID, apiErr := workerParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if apiErr := sc.lookupWorker(workerID); apiErr != nil {
		return nil, apiErr
	}

	list, err := sc.store.ListScheduleRules(workerID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list schedule rules"}
	}

	response := make([]packets.ScheduleRuleResponse, 0, len(list))
	for _, it := range list {
		response = append(response, ruleResponse(it))
	}
	return response, nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(schedule.DateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (sc *ScheduleAdminController) createRule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	workerID, apiErr := workerParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if apiErr := sc.lookupWorker(workerID); apiErr != nil {
		return nil, apiErr
	}

	var request packets.CreateScheduleRuleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	scheduledDate, err := parseDatePtr(request.ScheduledDate)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "scheduled_date must be YYYY-MM-DD"}
	}
	effectiveDate, err := parseDatePtr(request.EffectiveDate)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "effective_date must be YYYY-MM-DD"}
	}
	expiryDate, err := parseDatePtr(request.ExpiryDate)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "expiry_date must be YYYY-MM-DD"}
	}
	if effectiveDate != nil && expiryDate != nil && expiryDate.Before(*effectiveDate) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "expiry_date must not precede effective_date"}
	}

	// reject ambiguous rules at the boundary instead of letting them become
	// silent never-matching rows
	candidate := model.ScheduleRule{
		WorkerID:      workerID,
		ScheduledDate: scheduledDate,
		DayOfWeek:     request.DayOfWeek,
		EffectiveDate: effectiveDate,
		ExpiryDate:    expiryDate,
	}
	if _, err := schedule.FromModel(candidate); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	rule, err := sc.store.CreateScheduleRule(workerID, scheduledDate, request.DayOfWeek, effectiveDate, expiryDate, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create schedule rule"}
	}

	redis.InvalidateNextScheduled(ctx, workerID)
	return ruleResponse(rule), nil
}

func (sc *ScheduleAdminController) deleteRule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	workerID, apiErr := workerParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	ruleID, err := strconv.Atoi(ctx.Param("rule_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid rule id"}
	}

	rule, err := sc.store.GetScheduleRule(ruleID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "rule not found"}
	}
	if rule.WorkerID != workerID {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "rule not found"}
	}

	if err := sc.store.DeleteScheduleRule(ruleID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete schedule rule"}
	}

	log.Info().Int("rule_id", ruleID).Int("worker_id", workerID).Int("by", user.ID).Msg("schedule rule deleted")
	redis.InvalidateNextScheduled(ctx, workerID)
	return gin.H{"message": "deleted"}, nil
}

// workerDays expands a worker's rules over a date range for the roster
// calendar.
func (sc *ScheduleAdminController) workerDays(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	workerID, apiErr := workerParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var query packets.WorkerDaysQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if query.To.Sub(query.From) > 366*24*time.Hour {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "range must not exceed one year"}
	}

	rows, err := sc.store.ListScheduleRules(workerID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load schedule"}
	}
	rules, clean := schedule.FromModels(rows)
	if !clean {
		log.Warn().Int("worker_id", workerID).Msg("skipped malformed schedule rules")
	}

	days := schedule.ExpandRange(rules, query.From, query.To)
	return gin.H{"days": days.Sorted()}, nil
}
