package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/http/api"
	"github.com/torchlight-safety/warden/internal/http/api/admin/packets"
	"github.com/torchlight-safety/warden/internal/model"
)

type AppointmentController struct {
	store db.Store
}

func NewAppointmentController(store db.Store) *AppointmentController {
	return &AppointmentController{store: store}
}

// AppointmentModule mounts the clinician's appointment book.
func AppointmentModule(store db.Store) api.Module {
	ctl := NewAppointmentController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/appointments", ctl.createAppointment)
		c.GET("/appointments", ctl.listAppointments)
		c.PATCH("/appointments/:id/complete", ctl.completeAppointment)
		c.DELETE("/appointments/:id", ctl.cancelAppointment)
	})
}

func appointmentResponse(a model.Appointment) packets.AppointmentResponse {
	return packets.AppointmentResponse{
		ID:              a.ID,
		CaseID:          a.CaseID,
		ClinicianID:     a.ClinicianID,
		StartsAt:        a.StartsAt.Format(time.RFC3339),
		DurationMinutes: a.Duration,
		Status:          a.Status,
		Note:            a.Note,
	}
}

func (ac *AppointmentController) createAppointment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if user.Role != model.RoleClinician {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only clinicians can book appointments"}
	}

	var request packets.CreateAppointmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if request.StartsAt.Before(time.Now()) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "starts_at must be in the future"}
	}

	c, err := ac.store.GetCaseByID(request.CaseID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "case not found"}
	}
	if c.Status == model.CaseResolved {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "case is resolved"}
	}

	appt, err := ac.store.CreateAppointment(request.CaseID, user.ID, request.StartsAt, request.DurationMinutes, request.Note)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create appointment"}
	}
	return appointmentResponse(appt), nil
}

func (ac *AppointmentController) listAppointments(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var query packets.AppointmentsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	list, err := ac.store.ListAppointmentsForClinician(user.ID, query.From, query.To)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list appointments"}
	}

	response := make([]packets.AppointmentResponse, 0, len(list))
	for _, it := range list {
		response = append(response, appointmentResponse(it))
	}
	return response, nil
}

func (ac *AppointmentController) completeAppointment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return ac.setStatus(ctx, user, model.AppointmentCompleted)
}

func (ac *AppointmentController) cancelAppointment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return ac.setStatus(ctx, user, model.AppointmentCancelled)
}

func (ac *AppointmentController) setStatus(ctx *gin.Context, user *model.User, status string) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid appointment id"}
	}

	if err := ac.store.UpdateAppointmentStatus(id, status); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update appointment"}
	}
	return gin.H{"message": status}, nil
}
