package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torchlight-safety/warden/internal/db/dbtest"
	"github.com/torchlight-safety/warden/internal/http/api"
	"github.com/torchlight-safety/warden/internal/http/api/portal/packets"
	"github.com/torchlight-safety/warden/internal/model"
	"github.com/torchlight-safety/warden/internal/storage"
)

func newIncidentRouter(t *testing.T, store *dbtest.FakeStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	attachments := storage.NewLocalStorage(t.TempDir())
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/portal",
		Auth:      true,
		SecretKey: testSecret,
		Store:     store,
	}, IncidentModule(store, attachments))
	return r
}

func TestReportIncident(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newIncidentRouter(t, store)
	workerID, token := newWorker(t, store)

	occurred := time.Now().Add(-2 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"occurred_at": %q, "location": "warehouse B", "severity": "moderate", "description": "slipped on wet floor"}`, occurred)

	w := doJSON(r, http.MethodPost, "/api/portal/incidents", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp packets.IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.IncidentReported, resp.Status)
	assert.Equal(t, "warehouse B", resp.Location)

	require.Len(t, store.Incidents, 1)
	assert.Equal(t, workerID, store.Incidents[0].WorkerID)
}

func TestReportIncidentValidation(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newIncidentRouter(t, store)
	_, token := newWorker(t, store)

	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	for name, body := range map[string]string{
		"missing fields":   `{}`,
		"bad severity":     fmt.Sprintf(`{"occurred_at": %q, "location": "x", "severity": "huge", "description": "y"}`, future),
		"future timestamp": fmt.Sprintf(`{"occurred_at": %q, "location": "x", "severity": "minor", "description": "y"}`, future),
	} {
		w := doJSON(r, http.MethodPost, "/api/portal/incidents", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestListOwnIncidentsOnly(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newIncidentRouter(t, store)
	workerID, token := newWorker(t, store)
	otherID, err := store.CreateUser("other@example.com", "x", nil, model.RoleWorker)
	require.NoError(t, err)

	_, err = store.CreateIncident(workerID, time.Now().Add(-time.Hour), "dock", model.SeverityMinor, "mine", nil)
	require.NoError(t, err)
	_, err = store.CreateIncident(otherID, time.Now().Add(-time.Hour), "dock", model.SeverityMinor, "theirs", nil)
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/api/portal/incidents", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp []packets.IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "mine", resp[0].Description)
}

func multipartUpload(t *testing.T, fieldName, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadAttachment(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newIncidentRouter(t, store)
	workerID, token := newWorker(t, store)

	incident, err := store.CreateIncident(workerID, time.Now().Add(-time.Hour), "dock", model.SeverityMinor, "cut finger", nil)
	require.NoError(t, err)

	buf, contentType := multipartUpload(t, "file", "photo of hand.jpg", []byte("jpegdata"))
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/portal/incidents/%d/attachment", incident.ID), buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := store.GetIncidentByID(incident.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AttachmentURL)
	assert.Contains(t, *stored.AttachmentURL, "photo_of_hand")
}

func TestUploadAttachmentOwnership(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newIncidentRouter(t, store)
	_, token := newWorker(t, store)
	otherID, err := store.CreateUser("other@example.com", "x", nil, model.RoleWorker)
	require.NoError(t, err)

	incident, err := store.CreateIncident(otherID, time.Now().Add(-time.Hour), "dock", model.SeverityMinor, "theirs", nil)
	require.NoError(t, err)

	buf, contentType := multipartUpload(t, "file", "photo.jpg", []byte("jpegdata"))
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/portal/incidents/%d/attachment", incident.ID), buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
