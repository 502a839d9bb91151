package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/events"
	"github.com/torchlight-safety/warden/internal/http/api"
	"github.com/torchlight-safety/warden/internal/http/api/portal/packets"
	"github.com/torchlight-safety/warden/internal/model"
	"github.com/torchlight-safety/warden/internal/schedule"
)

type CheckInController struct {
	store db.Store
}

func NewCheckInController(store db.Store) *CheckInController {
	return &CheckInController{store: store}
}

// CheckInModule mounts the worker's daily readiness check-in endpoints.
func CheckInModule(store db.Store) api.Module {
	ctl := NewCheckInController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/checkins", ctl.submitCheckIn)
		c.GET("/checkins", ctl.listCheckIns)
		c.GET("/checkins/today", ctl.todayStatus)
	})
}

func checkInResponse(c model.CheckIn) packets.CheckInResponse {
	return packets.CheckInResponse{
		ID:             c.ID,
		Date:           c.CheckInDate.Format(schedule.DateLayout),
		Status:         c.Status,
		ReadinessScore: c.ReadinessScore,
		Fatigued:       c.Fatigued,
		InPain:         c.InPain,
		Note:           c.Note,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

// today returns the current calendar date at UTC midnight, matching how
// checkin_date is stored.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (cc *CheckInController) submitCheckIn(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.SubmitCheckInRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	day := today()
	if existing, err := cc.store.GetCheckInForDay(user.ID, day); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not check existing check-in"}
	} else if existing != nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "already checked in today"}
	}

	checkin, err := cc.store.CreateCheckIn(user.ID, day, request.ReadinessScore, request.Fatigued, request.InPain, request.Note)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create check-in"}
	}

	events.Publish(events.TopicCheckIns, events.CheckInEvent{
		WorkerID:       user.ID,
		Date:           checkin.CheckInDate.Format(schedule.DateLayout),
		ReadinessScore: checkin.ReadinessScore,
		Fatigued:       checkin.Fatigued,
		InPain:         checkin.InPain,
		At:             time.Now(),
	})

	return checkInResponse(checkin), nil
}

func (cc *CheckInController) listCheckIns(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var query packets.ListCheckInsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	list, err := cc.store.ListCheckIns(user.ID, query.Limit, query.Offset)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list check-ins"}
	}

	response := make([]packets.CheckInResponse, 0, len(list))
	for _, it := range list {
		response = append(response, checkInResponse(it))
	}
	return response, nil
}

// todayStatus tells the portal whether the worker is rostered on today and
// whether a check-in already exists for the day.
func (cc *CheckInController) todayStatus(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	day := today()

	rows, err := cc.store.ListScheduleRules(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load schedule"}
	}
	rules, clean := schedule.FromModels(rows)
	if !clean {
		log.Warn().Int("worker_id", user.ID).Msg("skipped malformed schedule rules")
	}

	dateStr := day.Format(schedule.DateLayout)
	scheduled := schedule.ExpandRange(rules, day, day).Contains(dateStr)

	response := packets.TodayResponse{Date: dateStr, Scheduled: scheduled}

	checkin, err := cc.store.GetCheckInForDay(user.ID, day)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load check-in"}
	}
	if checkin != nil {
		r := checkInResponse(*checkin)
		response.CheckIn = &r
	}
	return response, nil
}
