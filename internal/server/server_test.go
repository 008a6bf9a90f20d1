package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-backend/internal/auth"
	"ats-backend/internal/config"
	"ats-backend/internal/database"
	"ats-backend/internal/model"
	"ats-backend/internal/storage"
	"ats-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.Configure("server-test-secret", auth.DefaultTokenTTL)

	db, err := database.NewTestDB(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	testDB = db

	code := m.Run()
	_ = db.Close()
	os.Exit(code)
}

func newTestServer(t *testing.T) (*gin.Engine, auth.BlacklistStoreCloser) {
	t.Helper()
	store, err := storage.NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	blacklist := auth.NewInMemoryBlacklistStore()
	t.Cleanup(func() { _ = blacklist.Close() })

	cfg := &config.Config{
		Port:               0,
		AllowOrigins:       []string{"http://localhost:4200"},
		RateLimitPerSecond: 100,
		StatusTransitions:  "strict",
		MaxUploadBytes:     1 << 20,
	}
	s := NewServer(cfg, testDB, store, blacklist)
	return s.RegisterRoutes().(*gin.Engine), blacklist
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	rec, resp := testutil.MakeJSONRequest(map[string]string{
		"email":    email,
		"password": database.TestSeedPassword,
	}, "", r, "/api/auth/login", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHiringFlow(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, database.TestHRUser.Email)

	rec, job := testutil.MakeJSONRequest(map[string]interface{}{
		"title":           "Site Reliability Engineer",
		"description":     "Keep the lights on",
		"requirements":    "Linux, Go",
		"location":        "Lisbon",
		"department":      "Operations",
		"experienceLevel": model.ExperienceLevelSenior,
		"employmentType":  model.EmploymentTypeFullTime,
		"maxApplications": 50,
		"hiringManagerId": database.TestManagerUser.ID,
	}, token, r, "/api/jobs", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.EqualValues(t, model.JobStatusActive, job["status"])
	jobID := job["id"]

	rec, app := testutil.MakeJSONRequest(map[string]interface{}{
		"jobId":       jobID,
		"candidateId": database.TestCandidate2.ID,
		"coverLetter": "Pager ready.",
	}, token, r, "/api/applications", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.EqualValues(t, model.ApplicationStatusApplied, app["status"])
	appPath := fmt.Sprintf("/api/applications/%v", app["id"])

	rec, updated := testutil.MakeJSONRequest(map[string]interface{}{
		"status":  model.ApplicationStatusHired,
		"version": app["version"],
	}, token, r, appPath, http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, model.ApplicationStatusHired, updated["status"])

	rec, stats := testutil.MakeJSONRequest(nil, token, r, "/api/dashboard", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.GreaterOrEqual(t, stats["hiredThisMonth"].(float64), 1.0)
	assert.Greater(t, stats["conversionRate"].(float64), 0.0)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/api/jobs/%v", jobID), http.MethodDelete)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec, _ = testutil.MakeJSONRequest(nil, token, r, appPath, http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoleGroups(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, database.TestCandidateUser.Email)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/jobs", http.StatusOK},
		{http.MethodGet, fmt.Sprintf("/api/jobs/%d", database.TestJobActive.ID), http.StatusOK},
		{http.MethodGet, "/api/dashboard", http.StatusOK},
		{http.MethodGet, "/api/dashboard/quick-stats", http.StatusOK},
		{http.MethodGet, "/api/dashboard/recent-activities", http.StatusOK},
		{http.MethodGet, "/api/auth/me", http.StatusOK},
		{http.MethodPost, "/api/jobs", http.StatusForbidden},
		{http.MethodGet, "/api/candidates", http.StatusForbidden},
		{http.MethodGet, "/api/applications", http.StatusForbidden},
		{http.MethodGet, "/api/interviews", http.StatusForbidden},
		{http.MethodGet, "/api/skills", http.StatusForbidden},
		{http.MethodGet, "/api/users", http.StatusForbidden},
	}
	for _, tc := range cases {
		rec, _ := testutil.MakeJSONRequest(nil, token, r, tc.path, tc.method)
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec, _ := testutil.MakeJSONRequest(nil, "", r, "/api/jobs", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestManagerCannotDeleteUsers(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, database.TestManagerUser.Email)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/api/users/%d", database.TestCandidateUser.ID), http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/api/users", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r, database.TestHRUser.Email)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/api/auth/logout", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/api/auth/me", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthAndSwagger(t *testing.T) {
	r, _ := newTestServer(t)

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/health", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", resp["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ATS Backend API")
}

func TestServeStopsOnCancel(t *testing.T) {
	s := NewServer(&config.Config{Port: 0, StatusTransitions: "open"}, testDB, nil, auth.NewInMemoryBlacklistStore())
	assert.Equal(t, model.TransitionsOpen, s.Transitions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
