package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/events"
	"github.com/torchlight-safety/warden/internal/http/api"
	"github.com/torchlight-safety/warden/internal/http/api/portal/packets"
	"github.com/torchlight-safety/warden/internal/model"
	"github.com/torchlight-safety/warden/internal/storage"
)

type IncidentController struct {
	store       db.Store
	attachments storage.Storage
}

func NewIncidentController(store db.Store, attachments storage.Storage) *IncidentController {
	return &IncidentController{store: store, attachments: attachments}
}

// IncidentModule mounts the worker's incident reporting endpoints.
func IncidentModule(store db.Store, attachments storage.Storage) api.Module {
	ctl := NewIncidentController(store, attachments)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/incidents", ctl.reportIncident)
		c.GET("/incidents", ctl.listOwnIncidents)
		c.POST("/incidents/:id/attachment", ctl.uploadAttachment)
	})
}

func incidentResponse(in model.Incident) packets.IncidentResponse {
	return packets.IncidentResponse{
		ID:            in.ID,
		OccurredAt:    in.OccurredAt.Format(time.RFC3339),
		Location:      in.Location,
		Severity:      in.Severity,
		Description:   in.Description,
		Status:        in.Status,
		AttachmentURL: in.AttachmentURL,
		CreatedAt:     in.CreatedAt.Format(time.RFC3339),
	}
}

func (ic *IncidentController) reportIncident(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ReportIncidentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if request.OccurredAt.After(time.Now()) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "occurred_at cannot be in the future"}
	}

	incident, err := ic.store.CreateIncident(
		user.ID, request.OccurredAt, request.Location, request.Severity, request.Description, nil,
	)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create incident"}
	}

	events.Publish(events.TopicIncidents, events.IncidentEvent{
		IncidentID: incident.ID,
		WorkerID:   incident.WorkerID,
		Severity:   incident.Severity,
		Location:   incident.Location,
		At:         time.Now(),
	})

	return incidentResponse(incident), nil
}

func (ic *IncidentController) listOwnIncidents(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	list, err := ic.store.ListIncidents(db.IncidentFilter{WorkerID: user.ID})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list incidents"}
	}

	response := make([]packets.IncidentResponse, 0, len(list))
	for _, it := range list {
		response = append(response, incidentResponse(it))
	}
	return response, nil
}

// uploadAttachment attaches one file (photo, scanned form) to the worker's own
// incident via multipart form field "file".
func (ic *IncidentController) uploadAttachment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid incident id"}
	}

	incident, err := ic.store.GetIncidentByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "incident not found"}
	}
	if incident.WorkerID != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}

	url, err := ic.attachments.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store attachment"}
	}

	if err := ic.store.SetIncidentAttachment(id, url); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save attachment"}
	}

	return gin.H{"attachment_url": url}, nil
}
