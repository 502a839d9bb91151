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
	"github.com/torchlight-safety/warden/internal/schedule"
)

type CaseController struct {
	store db.Store
}

func NewCaseController(store db.Store) *CaseController {
	return &CaseController{store: store}
}

// CaseModule mounts case management for clinicians and WHS staff.
func CaseModule(store db.Store) api.Module {
	ctl := NewCaseController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/cases", ctl.listCases)
		c.POST("/cases", ctl.createCase)
		c.GET("/cases/:id", ctl.getCase)
		c.PATCH("/cases/:id/status", ctl.updateStatus)
		c.GET("/cases/:id/rehab_plan", ctl.getRehabPlan)
		c.PUT("/cases/:id/rehab_plan", ctl.upsertRehabPlan)
	})
}

func caseResponse(c model.Case) packets.CaseResponse {
	var resolvedAt *string
	if c.ResolvedAt != nil {
		s := c.ResolvedAt.Format(time.RFC3339)
		resolvedAt = &s
	}
	return packets.CaseResponse{
		ID:             c.ID,
		WorkerID:       c.WorkerID,
		IncidentID:     c.IncidentID,
		ClinicianID:    c.ClinicianID,
		Title:          c.Title,
		Status:         c.Status,
		ResolutionNote: c.ResolutionNote,
		ResolvedAt:     resolvedAt,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
}

func caseParam(ctx *gin.Context) (int, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, &api.APIError{Code: http.StatusBadRequest, Message: "invalid case id"}
	}
	return id, nil
}

func (cc *CaseController) listCases(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	status := ctx.Query("status")
	switch status {
	case "", model.CaseOpen, model.CaseInProgress, model.CaseResolved:
	default:
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid status filter"}
	}

	list, err := cc.store.ListCases(status)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list cases"}
	}

	response := make([]packets.CaseResponse, 0, len(list))
	for _, it := range list {
		response = append(response, caseResponse(it))
	}
	return response, nil
}

func (cc *CaseController) createCase(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateCaseRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	worker, err := cc.store.GetUserByID(request.WorkerID)
	if err != nil || worker.Role != model.RoleWorker {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "worker not found"}
	}
	if request.IncidentID != nil {
		incident, err := cc.store.GetIncidentByID(*request.IncidentID)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "incident not found"}
		}
		if incident.WorkerID != request.WorkerID {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "incident belongs to another worker"}
		}
	}
	if request.ClinicianID != nil {
		clinician, err := cc.store.GetUserByID(*request.ClinicianID)
		if err != nil || clinician.Role != model.RoleClinician {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "clinician not found"}
		}
	}

	created, err := cc.store.CreateCase(request.WorkerID, request.IncidentID, request.ClinicianID, request.Title)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create case"}
	}
	return caseResponse(created), nil
}

func (cc *CaseController) getCase(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := caseParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	c, err := cc.store.GetCaseByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "case not found"}
	}
	return caseResponse(c), nil
}

func (cc *CaseController) updateStatus(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := caseParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateCaseStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	c, err := cc.store.GetCaseByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "case not found"}
	}

	if !model.ValidCaseTransition(c.Status, request.Status) {
		return nil, &api.APIError{
			Code:    http.StatusConflict,
			Message: "cannot move case from " + c.Status + " to " + request.Status,
		}
	}
	if request.Status == model.CaseResolved && request.ResolutionNote == nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "resolution_note required to resolve"}
	}

	if err := cc.store.UpdateCaseStatus(id, request.Status, request.ResolutionNote); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update case"}
	}

	log.Info().Int("case_id", id).Str("from", c.Status).Str("to", request.Status).Int("by", user.ID).Msg("case status updated")
	return gin.H{"message": "updated"}, nil
}

func (cc *CaseController) getRehabPlan(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := caseParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if _, err := cc.store.GetCaseByID(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "case not found"}
	}

	plan, err := cc.store.GetRehabPlan(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load rehab plan"}
	}
	if plan == nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no rehab plan for case"}
	}
	return rehabPlanResponse(*plan), nil
}

func rehabPlanResponse(p model.RehabPlan) packets.RehabPlanResponse {
	var review *string
	if p.ReviewDate != nil {
		s := p.ReviewDate.Format(schedule.DateLayout)
		review = &s
	}
	return packets.RehabPlanResponse{
		ID:         p.ID,
		CaseID:     p.CaseID,
		Plan:       p.Plan,
		ReviewDate: review,
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

func (cc *CaseController) upsertRehabPlan(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := caseParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpsertRehabPlanRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	c, err := cc.store.GetCaseByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "case not found"}
	}
	if c.Status == model.CaseResolved {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "case is resolved"}
	}

	reviewDate, err := parseDatePtr(request.ReviewDate)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "review_date must be YYYY-MM-DD"}
	}

	plan, err := cc.store.UpsertRehabPlan(id, request.Plan, reviewDate)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save rehab plan"}
	}
	return rehabPlanResponse(plan), nil
}
