package application

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-backend/internal/auth"
	"ats-backend/internal/database"
	"ats-backend/internal/middleware"
	"ats-backend/internal/model"
	"ats-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

var fixedNow = time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.Configure("application-test-secret", auth.DefaultTokenTTL)

	teardown, db, err := database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	testDB = db

	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = teardown(ctx)
	os.Exit(code)
}

func applicationRouter(policy model.TransitionPolicy) *gin.Engine {
	r := gin.New()
	ac := NewApplicationController(testDB, policy)
	ac.Now = func() time.Time { return fixedNow }

	g := r.Group("/applications",
		middleware.RequireAuth(testDB, nil),
		middleware.CheckRole(model.RoleHR, model.RoleManager))
	g.GET("", ac.GetApplications)
	g.POST("", ac.CreateApplication)
	g.GET("/:id", ac.GetApplication)
	g.PUT("/:id", ac.UpdateApplication)
	g.DELETE("/:id", ac.DeleteApplication)
	g.GET("/job/:jobId", ac.GetApplicationsByJob)
	g.GET("/candidate/:candidateId", ac.GetApplicationsByCandidate)
	g.GET("/:id/documents", ac.GetApplicationDocuments)
	g.PUT("/:id/documents/:documentId", ac.LinkDocument)
	g.DELETE("/:id/documents/:documentId", ac.UnlinkDocument)
	return r
}

func hrToken(t *testing.T) string {
	token, err := auth.GetAccessToken(t, testDB, database.TestHRUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func newJob(t *testing.T, status model.JobStatus, maxApplications int) model.Job {
	t.Helper()
	job := model.Job{
		Title:           "Job " + uuid.NewString()[:8],
		Description:     "d",
		Requirements:    "r",
		Location:        "Remote",
		Department:      "QA",
		ExperienceLevel: model.ExperienceLevelJunior,
		EmploymentType:  model.EmploymentTypePartTime,
		Status:          status,
		MaxApplications: maxApplications,
		HiringManagerID: database.TestManagerUser.ID,
		Version:         1,
	}
	require.NoError(t, testDB.Create(&job).Error)
	return job
}

func newCandidate(t *testing.T) model.Candidate {
	t.Helper()
	candidate := model.Candidate{
		FirstName:   "Casey",
		LastName:    "Lee",
		Email:       uuid.NewString() + "@email.test",
		IsAvailable: true,
		Version:     1,
	}
	require.NoError(t, testDB.Create(&candidate).Error)
	return candidate
}

func apply(r *gin.Engine, token string, jobID, candidateID uint) (int, map[string]interface{}) {
	rec, resp := testutil.MakeJSONRequest(map[string]interface{}{
		"jobId":       jobID,
		"candidateId": candidateID,
		"coverLetter": "Hello",
	}, token, r, "/applications", http.MethodPost)
	return rec.Code, resp
}

func TestGetApplications(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, hrToken(t), applicationRouter(model.TransitionsStrict), "/applications", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	list := testutil.DecodeList(rec)
	require.NotEmpty(t, list)
	first := list[0]
	assert.Equal(t, float64(database.TestApplication1.ID), first["id"])
	assert.Equal(t, database.TestJobActive.Title, first["jobTitle"])
	assert.Equal(t, "Mike Johnson", first["candidateName"])
	assert.Equal(t, database.TestCandidate1.Email, first["candidateEmail"])
	assert.Equal(t, "", first["reviewerName"])
	assert.Equal(t, float64(1), first["interviewCount"])
}

func TestGetApplication_NotFound(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, hrToken(t), applicationRouter(model.TransitionsStrict), "/applications/999999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateApplication_StartsApplied(t *testing.T) {
	r := applicationRouter(model.TransitionsStrict)
	job := newJob(t, model.JobStatusActive, 0)
	candidate := newCandidate(t)

	code, resp := apply(r, hrToken(t), job.ID, candidate.ID)

	require.Equal(t, http.StatusCreated, code, resp)
	assert.Equal(t, float64(model.ApplicationStatusApplied), resp["status"])
	assert.Equal(t, fixedNow.Format(time.RFC3339), resp["appliedDate"])
	assert.Equal(t, float64(1), resp["version"])
	assert.Equal(t, job.Title, resp["jobTitle"])
}

func TestCreateApplication_Rejections(t *testing.T) {
	r := applicationRouter(model.TransitionsStrict)
	token := hrToken(t)
	candidate := newCandidate(t)

	code, _ := apply(r, token, 999999, candidate.ID)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = apply(r, token, database.TestJobActive.ID, 999999)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp := apply(r, token, database.TestJobDraft.ID, candidate.ID)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, resp["error"], "not accepting")

	code, _ = apply(r, token, database.TestJobActive.ID, database.TestCandidate1.ID)
	assert.Equal(t, http.StatusBadRequest, code)

	rec, _ := testutil.MakeJSONRequest(map[string]interface{}{"jobId": database.TestJobActive.ID}, token, r, "/applications", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateApplication_MaxApplications(t *testing.T) {
	r := applicationRouter(model.TransitionsStrict)
	token := hrToken(t)
	job := newJob(t, model.JobStatusActive, 2)

	for i := 0; i < 2; i++ {
		code, resp := apply(r, token, job.ID, newCandidate(t).ID)
		require.Equal(t, http.StatusCreated, code, resp)
	}

	code, resp := apply(r, token, job.ID, newCandidate(t).ID)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, resp["error"], "maximum")

	var count int64
	require.NoError(t, testDB.Model(&model.Application{}).Where("job_id = ?", job.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUpdateApplication(t *testing.T) {
	r := applicationRouter(model.TransitionsStrict)
	token := hrToken(t)
	code, created := apply(r, token, newJob(t, model.JobStatusActive, 0).ID, newCandidate(t).ID)
	require.Equal(t, http.StatusCreated, code)
	path := fmt.Sprintf("/applications/%v", created["id"])

	rec, resp := testutil.MakeJSONRequest(map[string]interface{}{
		"status":     model.ApplicationStatusScreeningInProgress,
		"rating":     4,
		"reviewerId": database.TestManagerUser.ID,
		"version":    1,
	}, token, r, path, http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(model.ApplicationStatusScreeningInProgress), resp["status"])
	assert.Equal(t, float64(4), resp["rating"])
	assert.Equal(t, "John Smith", resp["reviewerName"])
	assert.Equal(t, float64(2), resp["version"])
	assert.Equal(t, created["jobId"], resp["jobId"])

	// stale token
	rec, resp = testutil.MakeJSONRequest(map[string]interface{}{
		"status":  model.ApplicationStatusRejected,
		"version": 1,
	}, token, r, path, http.MethodPut)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, float64(2), resp["currentVersion"])

	rec, _ = testutil.MakeJSONRequest(map[string]interface{}{"status": model.ApplicationStatusHired, "rating": 6}, token, r, path, http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(map[string]interface{}{"status": model.ApplicationStatusHired, "reviewerId": 999999}, token, r, path, http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(map[string]interface{}{"status": model.ApplicationStatusRejected}, token, r, path, http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Rejected is terminal
	rec, resp = testutil.MakeJSONRequest(map[string]interface{}{"status": model.ApplicationStatusApplied}, token, r, path, http.MethodPut)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, resp["error"], "Rejected")

	rec, _ = testutil.MakeJSONRequest(map[string]interface{}{"status": model.ApplicationStatusApplied}, token, applicationRouter(model.TransitionsOpen), path, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(map[string]interface{}{"status": model.ApplicationStatusApplied}, token, r, "/applications/999999", http.MethodPut)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteApplication(t *testing.T) {
	r := applicationRouter(model.TransitionsStrict)
	token := hrToken(t)
	code, created := apply(r, token, newJob(t, model.JobStatusActive, 0).ID, newCandidate(t).ID)
	require.Equal(t, http.StatusCreated, code)
	id := uint(created["id"].(float64))

	require.NoError(t, testDB.Create(&model.Interview{
		ApplicationID:     id,
		InterviewerID:     database.TestManagerUser.ID,
		Type:              model.InterviewTypeVideo,
		Status:            model.InterviewStatusScheduled,
		ScheduledDateTime: fixedNow,
		DurationMinutes:   30,
		Version:           1,
	}).Error)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/applications/%d", id), http.MethodDelete)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, testDB.Model(&model.Interview{}).Where("application_id = ?", id).Count(&count).Error)
	assert.Zero(t, count)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/applications/%d", id), http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplicationsByJobAndCandidate(t *testing.T) {
	r := applicationRouter(model.TransitionsStrict)
	token := hrToken(t)
	job := newJob(t, model.JobStatusActive, 0)
	c1, c2 := newCandidate(t), newCandidate(t)
	for _, c := range []model.Candidate{c1, c2} {
		code, resp := apply(r, token, job.ID, c.ID)
		require.Equal(t, http.StatusCreated, code, resp)
	}

	rec, _ := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/applications/job/%d", job.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	list := testutil.DecodeList(rec)
	require.Len(t, list, 2)
	assert.Equal(t, float64(c1.ID), list[0]["candidateId"])

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/applications/candidate/%d", c2.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	list = testutil.DecodeList(rec)
	require.Len(t, list, 1)
	assert.Equal(t, float64(job.ID), list[0]["jobId"])

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/applications/job/999999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/applications/candidate/999999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplicationDocuments(t *testing.T) {
	r := applicationRouter(model.TransitionsStrict)
	token := hrToken(t)
	candidate := newCandidate(t)
	code, created := apply(r, token, newJob(t, model.JobStatusActive, 0).ID, candidate.ID)
	require.Equal(t, http.StatusCreated, code)
	base := fmt.Sprintf("/applications/%v/documents", created["id"])

	own := model.Document{CandidateID: candidate.ID, FileName: "cv.pdf", FileType: ".pdf", FilePath: "x/cv.pdf", FileSize: 1, DocumentType: "Resume"}
	require.NoError(t, testDB.Create(&own).Error)
	other := model.Document{CandidateID: database.TestCandidate2.ID, FileName: "cv.pdf", FileType: ".pdf", FilePath: "y/cv.pdf", FileSize: 1, DocumentType: "Resume"}
	require.NoError(t, testDB.Create(&other).Error)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("%s/%d", base, own.ID), http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	// linking twice is a no-op
	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("%s/%d", base, own.ID), http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	docs := testutil.DecodeList(rec)
	require.Len(t, docs, 1)
	assert.Equal(t, "cv.pdf", docs[0]["fileName"])
	assert.NotContains(t, docs[0], "filePath")

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("%s/%d", base, other.ID), http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("%s/999999", base), http.MethodPut)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("%s/%d", base, own.ID), http.MethodDelete)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = testutil.MakeJSONRequest(nil, token, r, base, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, testutil.DecodeList(rec))
	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("%s/%d", base, own.ID), http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
