package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/http/api"
	"github.com/torchlight-safety/warden/internal/http/api/admin/packets"
	"github.com/torchlight-safety/warden/internal/model"
)

type AnalyticsController struct {
	store db.Store
}

func NewAnalyticsController(store db.Store) *AnalyticsController {
	return &AnalyticsController{store: store}
}

// AnalyticsModule mounts the executive dashboard aggregates.
func AnalyticsModule(store db.Store) api.Module {
	ctl := NewAnalyticsController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/analytics/dashboard", ctl.dashboard)
	})
}

// GET /analytics/dashboard?from=2025-01-01&to=2025-01-31
func (ac *AnalyticsController) dashboard(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var query packets.ComplianceQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	openCases, err := ac.store.OpenCaseCount()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to count cases"}
	}
	bySeverity, err := ac.store.IncidentCountsBySeverity()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to aggregate incidents"}
	}
	byStatus, err := ac.store.IncidentCountsByStatus()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to aggregate incidents"}
	}
	compliance, err := ac.store.CheckInComplianceByDay(query.From, query.To)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to aggregate check-ins"}
	}

	response := packets.DashboardResponse{OpenCases: openCases}
	for _, it := range bySeverity {
		response.IncidentsBySeverity = append(response.IncidentsBySeverity, packets.LabelCount{Label: it.Label, Count: it.Count})
	}
	for _, it := range byStatus {
		response.IncidentsByStatus = append(response.IncidentsByStatus, packets.LabelCount{Label: it.Label, Count: it.Count})
	}
	for _, it := range compliance {
		response.Compliance = append(response.Compliance, packets.ComplianceItem{Date: it.Date, Submitted: it.Submitted, Missed: it.Missed})
	}
	return response, nil
}
