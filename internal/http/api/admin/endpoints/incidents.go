package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/http/api"
	"github.com/torchlight-safety/warden/internal/http/api/admin/packets"
	"github.com/torchlight-safety/warden/internal/model"
)

type IncidentAdminController struct {
	store db.Store
}

func NewIncidentAdminController(store db.Store) *IncidentAdminController {
	return &IncidentAdminController{store: store}
}

// IncidentAdminModule mounts the staff incident triage endpoints.
func IncidentAdminModule(store db.Store) api.Module {
	ctl := NewIncidentAdminController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/incidents", ctl.listIncidents)
		c.GET("/incidents/:id", ctl.getIncident)
		c.PATCH("/incidents/:id/status", ctl.updateStatus)
	})
}

func (ic *IncidentAdminController) listIncidents(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var query packets.ListIncidentsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	list, err := ic.store.ListIncidents(db.IncidentFilter{
		WorkerID: query.WorkerID,
		Status:   query.Status,
		Severity: query.Severity,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list incidents"}
	}
	return list, nil
}

func (ic *IncidentAdminController) getIncident(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid incident id"}
	}
	incident, err := ic.store.GetIncidentByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "incident not found"}
	}
	return incident, nil
}

func (ic *IncidentAdminController) updateStatus(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid incident id"}
	}

	var request packets.UpdateIncidentStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	incident, err := ic.store.GetIncidentByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "incident not found"}
	}

	if !model.ValidIncidentTransition(incident.Status, request.Status) {
		return nil, &api.APIError{
			Code:    http.StatusConflict,
			Message: "cannot move incident from " + incident.Status + " to " + request.Status,
		}
	}

	if err := ic.store.UpdateIncidentStatus(id, request.Status); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update incident"}
	}

	log.Info().Int("incident_id", id).Str("from", incident.Status).Str("to", request.Status).Int("by", user.ID).Msg("incident status updated")
	return gin.H{"message": "updated"}, nil
}
