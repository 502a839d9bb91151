package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torchlight-safety/warden/internal/db/dbtest"
	"github.com/torchlight-safety/warden/internal/http/api"
	"github.com/torchlight-safety/warden/internal/http/api/auth/packets"
	"github.com/torchlight-safety/warden/internal/model"
)

const testSecret = "test-secret"

func newAuthRouter(store *dbtest.FakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api"},
		AuthPublicModule(testSecret, store))
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: testSecret,
		Store:     store,
	}, AuthSessionModule(testSecret, store))
	return r
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

func signup(t *testing.T, r *gin.Engine, body string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/auth/signup", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func TestSignupAndLogin(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAuthRouter(store)

	signup(t, r, `{"email": "jo@example.com", "password": "hunter2hunter2", "name": "Jo"}`)

	require.Len(t, store.Users, 1)
	assert.Equal(t, model.RoleWorker, store.Users[0].Role, "signup defaults to the worker role")
	assert.NotEqual(t, "hunter2hunter2", store.Users[0].HashedPassword)

	w := doJSON(r, http.MethodPost, "/api/auth/login", "", `{"email": "jo@example.com", "password": "hunter2hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", `{"email": "jo@example.com", "password": "wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAuthRouter(store)

	body := `{"email": "jo@example.com", "password": "hunter2hunter2"}`
	signup(t, r, body)

	w := doJSON(r, http.MethodPost, "/api/auth/signup", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignupValidation(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAuthRouter(store)

	for name, body := range map[string]string{
		"bad email":      `{"email": "not-an-email", "password": "hunter2hunter2"}`,
		"short password": `{"email": "jo@example.com", "password": "short"}`,
		"unknown role":   `{"email": "jo@example.com", "password": "hunter2hunter2", "role": "ceo"}`,
	} {
		w := doJSON(r, http.MethodPost, "/api/auth/signup", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestSignupWithStaffRole(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAuthRouter(store)

	signup(t, r, `{"email": "dr@example.com", "password": "hunter2hunter2", "role": "clinician"}`)
	require.Len(t, store.Users, 1)
	assert.Equal(t, model.RoleClinician, store.Users[0].Role)
}

func TestCurrentProfile(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAuthRouter(store)

	token := signup(t, r, `{"email": "jo@example.com", "password": "hunter2hunter2", "name": "Jo"}`)

	w := doJSON(r, http.MethodGet, "/api/auth/current_profile", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile packets.ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "jo@example.com", profile.Email)
	require.NotNil(t, profile.Name)
	assert.Equal(t, "Jo", *profile.Name)
	assert.Equal(t, model.RoleWorker, profile.Role)

	// profile routes are private
	w = doJSON(r, http.MethodGet, "/api/auth/current_profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateCurrentProfile(t *testing.T) {
	store := dbtest.NewFakeStore()
	r := newAuthRouter(store)

	token := signup(t, r, `{"email": "jo@example.com", "password": "hunter2hunter2"}`)
	signup(t, r, `{"email": "taken@example.com", "password": "hunter2hunter2"}`)

	w := doJSON(r, http.MethodPut, "/api/auth/current_profile", token,
		`{"email": "jo.new@example.com", "name": "Jo M"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile packets.ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "jo.new@example.com", profile.Email)

	// switching to an email another account holds conflicts
	w = doJSON(r, http.MethodPut, "/api/auth/current_profile", token,
		`{"email": "taken@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}
