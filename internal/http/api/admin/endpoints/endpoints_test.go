package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torchlight-safety/warden/internal/db/dbtest"
	"github.com/torchlight-safety/warden/internal/http/api"
	"github.com/torchlight-safety/warden/internal/http/api/admin/packets"
	"github.com/torchlight-safety/warden/internal/http/middleware"
	"github.com/torchlight-safety/warden/internal/model"
)

const testSecret = "test-secret"

func newAdminRouter(store *dbtest.FakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api/admin",
		Auth:       true,
		SecretKey:  testSecret,
		Store:      store,
		Middleware: []gin.HandlerFunc{middleware.RequireRole(model.RoleSupervisor, model.RoleClinician, model.RoleAdmin)},
	},
		ScheduleAdminModule(store),
		IncidentAdminModule(store),
		CaseModule(store),
		AppointmentModule(store),
		AnalyticsModule(store),
	)
	return r
}

func newUser(t *testing.T, store *dbtest.FakeStore, email, role string) (int, string) {
	t.Helper()
	id, err := store.CreateUser(email, "x", nil, role)
	require.NoError(t, err)
	token, err := middleware.GenerateJWT(id, testSecret)
	require.NoError(t, err)
	return id, token
}

func doJSON(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRoutesRejectWorkers(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	_, workerToken := newUser(t, store, "worker@example.com", model.RoleWorker)

	w := doJSON(r, http.MethodGet, "/api/admin/incidents", workerToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/api/admin/incidents", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateScheduleRule(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	_, token := newUser(t, store, "sup@example.com", model.RoleSupervisor)

	// Sunday is day 0 and must round-trip as such.
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/admin/workers/%d/schedule", workerID), token,
		`{"day_of_week": 0, "effective_date": "2025-01-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp packets.ScheduleRuleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.DayOfWeek)
	assert.Equal(t, 0, *resp.DayOfWeek)
	assert.Nil(t, resp.ScheduledDate)

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/admin/workers/%d/schedule", workerID), token,
		`{"scheduled_date": "2025-03-10"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, store.Rules, 2)
}

func TestCreateScheduleRuleRejectsBadInput(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	staffID, token := newUser(t, store, "sup@example.com", model.RoleSupervisor)

	path := fmt.Sprintf("/api/admin/workers/%d/schedule", workerID)
	for name, body := range map[string]string{
		"neither mode":            `{}`,
		"both modes":              `{"scheduled_date": "2025-03-10", "day_of_week": 2}`,
		"weekday out of range":    `{"day_of_week": 7}`,
		"malformed date":          `{"scheduled_date": "10/03/2025"}`,
		"expiry before effective": `{"day_of_week": 2, "effective_date": "2025-06-01", "expiry_date": "2025-01-01"}`,
	} {
		w := doJSON(r, http.MethodPost, path, token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}

	// target must exist and hold the worker role
	w := doJSON(r, http.MethodPost, "/api/admin/workers/9999/schedule", token, `{"day_of_week": 1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/admin/workers/%d/schedule", staffID), token, `{"day_of_week": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteScheduleRule(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	otherID, _ := newUser(t, store, "other@example.com", model.RoleWorker)
	_, token := newUser(t, store, "sup@example.com", model.RoleSupervisor)

	monday := 1
	rule, err := store.CreateScheduleRule(workerID, nil, &monday, nil, nil, 1)
	require.NoError(t, err)

	// rule id under the wrong worker is treated as absent
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/admin/workers/%d/schedule/%d", otherID, rule.ID), token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/admin/workers/%d/schedule/%d", workerID, rule.ID), token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.Rules)
}

func TestWorkerDays(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	_, token := newUser(t, store, "sup@example.com", model.RoleSupervisor)

	monday := 1
	_, err := store.CreateScheduleRule(workerID, nil, &monday, nil, nil, 1)
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/admin/workers/%d/schedule/days?from=2025-01-01&to=2025-01-31", workerID), token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Days []string `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"2025-01-06", "2025-01-13", "2025-01-20", "2025-01-27"}, resp.Days)
}

func TestIncidentStatusTransitions(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	_, token := newUser(t, store, "sup@example.com", model.RoleSupervisor)

	incident, err := store.CreateIncident(workerID, time.Now().Add(-time.Hour), "dock", model.SeveritySerious, "fell", nil)
	require.NoError(t, err)
	path := fmt.Sprintf("/api/admin/incidents/%d/status", incident.ID)

	// reported cannot jump straight to actioned
	w := doJSON(r, http.MethodPatch, path, token, `{"status": "actioned"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPatch, path, token, `{"status": "under_review"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPatch, path, token, `{"status": "actioned"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPatch, path, token, `{"status": "closed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// closed is terminal
	w = doJSON(r, http.MethodPatch, path, token, `{"status": "under_review"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// "reported" is not a valid target at all
	w = doJSON(r, http.MethodPatch, path, token, `{"status": "reported"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaseLifecycle(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	_, clinToken := newUser(t, store, "dr@example.com", model.RoleClinician)

	incident, err := store.CreateIncident(workerID, time.Now().Add(-time.Hour), "dock", model.SeveritySerious, "fell", nil)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"worker_id": %d, "incident_id": %d, "title": "shoulder strain"}`, workerID, incident.ID)
	w := doJSON(r, http.MethodPost, "/api/admin/cases", clinToken, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created packets.CaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, model.CaseOpen, created.Status)

	statusPath := fmt.Sprintf("/api/admin/cases/%d/status", created.ID)
	w = doJSON(r, http.MethodPatch, statusPath, clinToken, `{"status": "in_progress"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// resolving without a note is rejected
	w = doJSON(r, http.MethodPatch, statusPath, clinToken, `{"status": "resolved"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, statusPath, clinToken, `{"status": "resolved", "resolution_note": "cleared for full duties"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// resolved is terminal
	w = doJSON(r, http.MethodPatch, statusPath, clinToken, `{"status": "in_progress"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateCaseValidation(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	otherID, _ := newUser(t, store, "other@example.com", model.RoleWorker)
	supID, token := newUser(t, store, "sup@example.com", model.RoleSupervisor)

	incident, err := store.CreateIncident(otherID, time.Now().Add(-time.Hour), "dock", model.SeverityMinor, "x", nil)
	require.NoError(t, err)

	for name, body := range map[string]string{
		"unknown worker":          `{"worker_id": 9999, "title": "t"}`,
		"staff as worker":         fmt.Sprintf(`{"worker_id": %d, "title": "t"}`, supID),
		"foreign incident":        fmt.Sprintf(`{"worker_id": %d, "incident_id": %d, "title": "t"}`, workerID, incident.ID),
		"supervisor as clinician": fmt.Sprintf(`{"worker_id": %d, "clinician_id": %d, "title": "t"}`, workerID, supID),
	} {
		w := doJSON(r, http.MethodPost, "/api/admin/cases", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestRehabPlan(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	_, token := newUser(t, store, "dr@example.com", model.RoleClinician)

	c, err := store.CreateCase(workerID, nil, nil, "back strain")
	require.NoError(t, err)
	planPath := fmt.Sprintf("/api/admin/cases/%d/rehab_plan", c.ID)

	w := doJSON(r, http.MethodGet, planPath, token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPut, planPath, token, `{"plan": "light duties two weeks", "review_date": "2025-02-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// upsert replaces the existing plan
	w = doJSON(r, http.MethodPut, planPath, token, `{"plan": "light duties four weeks"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.Plans, 1)
	assert.Equal(t, "light duties four weeks", store.Plans[0].Plan)

	var got packets.RehabPlanResponse
	w = doJSON(r, http.MethodGet, planPath, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "light duties four weeks", got.Plan)

	// once resolved the plan is frozen
	require.NoError(t, store.UpdateCaseStatus(c.ID, model.CaseResolved, nil))
	w = doJSON(r, http.MethodPut, planPath, token, `{"plan": "anything"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAppointments(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	_, supToken := newUser(t, store, "sup@example.com", model.RoleSupervisor)
	clinID, clinToken := newUser(t, store, "dr@example.com", model.RoleClinician)

	c, err := store.CreateCase(workerID, nil, &clinID, "knee injury")
	require.NoError(t, err)

	starts := time.Now().Add(48 * time.Hour).UTC()
	body := fmt.Sprintf(`{"case_id": %d, "starts_at": %q, "duration_minutes": 30}`, c.ID, starts.Format(time.RFC3339))

	// only clinicians book
	w := doJSON(r, http.MethodPost, "/api/admin/appointments", supToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, "/api/admin/appointments", clinToken, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var appt packets.AppointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &appt))
	assert.Equal(t, model.AppointmentBooked, appt.Status)
	assert.Equal(t, clinID, appt.ClinicianID)

	// past start times are rejected
	past := fmt.Sprintf(`{"case_id": %d, "starts_at": %q, "duration_minutes": 30}`, c.ID, time.Now().Add(-time.Hour).UTC().Format(time.RFC3339))
	w = doJSON(r, http.MethodPost, "/api/admin/appointments", clinToken, past)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	from := time.Now().Format("2006-01-02")
	to := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/admin/appointments?from=%s&to=%s", from, to), clinToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []packets.AppointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/admin/appointments/%d/complete", appt.ID), clinToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.AppointmentCompleted, store.Appointments[0].Status)

	// another appointment, then cancel it
	w = doJSON(r, http.MethodPost, "/api/admin/appointments", clinToken, body)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &appt))
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/admin/appointments/%d", appt.ID), clinToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.AppointmentCancelled, store.Appointments[1].Status)
}

func TestAppointmentOnResolvedCase(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	_, clinToken := newUser(t, store, "dr@example.com", model.RoleClinician)

	c, err := store.CreateCase(workerID, nil, nil, "done")
	require.NoError(t, err)
	note := "healed"
	require.NoError(t, store.UpdateCaseStatus(c.ID, model.CaseResolved, &note))

	starts := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"case_id": %d, "starts_at": %q, "duration_minutes": 30}`, c.ID, starts)
	w := doJSON(r, http.MethodPost, "/api/admin/appointments", clinToken, body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDashboard(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAdminRouter(store)
	workerID, _ := newUser(t, store, "worker@example.com", model.RoleWorker)
	_, token := newUser(t, store, "sup@example.com", model.RoleSupervisor)

	_, err := store.CreateIncident(workerID, time.Now().Add(-time.Hour), "dock", model.SeverityMinor, "a", nil)
	require.NoError(t, err)
	_, err = store.CreateIncident(workerID, time.Now().Add(-time.Hour), "dock", model.SeveritySerious, "b", nil)
	require.NoError(t, err)
	_, err = store.CreateCase(workerID, nil, nil, "open case")
	require.NoError(t, err)

	day := time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC)
	_, err = store.CreateCheckIn(workerID, day, 7, false, false, nil)
	require.NoError(t, err)
	require.NoError(t, store.MarkCheckInMissed(2+workerID, day)) // unrelated worker id, still counted

	w := doJSON(r, http.MethodGet, "/api/admin/analytics/dashboard?from=2025-01-01&to=2025-01-31", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp packets.DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.OpenCases)
	assert.Len(t, resp.IncidentsBySeverity, 2)
	require.Len(t, resp.Compliance, 1)
	assert.Equal(t, 1, resp.Compliance[0].Submitted)
	assert.Equal(t, 1, resp.Compliance[0].Missed)

	// missing range params
	w = doJSON(r, http.MethodGet, "/api/admin/analytics/dashboard", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
