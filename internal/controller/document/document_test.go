package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-backend/internal/auth"
	"ats-backend/internal/database"
	"ats-backend/internal/middleware"
	"ats-backend/internal/model"
	"ats-backend/internal/storage"
	"ats-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.Configure("document-test-secret", auth.DefaultTokenTTL)

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

type brokenStorage struct{}

func (brokenStorage) UploadFile(context.Context, string, io.Reader) error {
	return errors.New("bucket unavailable")
}

func (brokenStorage) DownloadFile(context.Context, string) (io.ReadCloser, int64, error) {
	return nil, 0, errors.New("bucket unavailable")
}

func (brokenStorage) DeleteFile(context.Context, string) error { return nil }

func (brokenStorage) DeletePrefix(context.Context, string) error { return nil }

func documentRouter(store storage.StorageClient) *gin.Engine {
	r := gin.New()
	dc := NewDocumentController(testDB, store)
	g := r.Group("",
		middleware.RequireAuth(testDB, nil),
		middleware.CheckRole(model.RoleHR, model.RoleManager))
	g.GET("/candidates/:id/documents", dc.GetCandidateDocuments)
	g.POST("/candidates/:id/documents", middleware.SizeLimit(1<<10), dc.UploadDocument)
	g.GET("/documents/:id/download", dc.DownloadDocument)
	g.DELETE("/documents/:id", dc.DeleteDocument)
	return r
}

func hrToken(t *testing.T) string {
	token, err := auth.GetAccessToken(t, testDB, database.TestHRUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func localStorage(t *testing.T) *storage.LocalStorageClient {
	store, err := storage.NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)
	return store
}

func download(r *gin.Engine, token string, id interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/documents/%v/download", id), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUploadDownloadDelete(t *testing.T) {
	store := localStorage(t)
	r := documentRouter(store)
	token := hrToken(t)
	candidateID := database.TestCandidate2.ID
	content := []byte("%PDF-1.4 resume")

	rec, resp := testutil.MakeMultipartRequest("file", "Emily CV.pdf", content, map[string]string{"documentType": "CV"},
		token, r, fmt.Sprintf("/candidates/%d/documents", candidateID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Emily CV.pdf", resp["fileName"])
	assert.Equal(t, ".pdf", resp["fileType"])
	assert.Equal(t, "CV", resp["documentType"])
	assert.Equal(t, float64(len(content)), resp["fileSize"])
	assert.NotContains(t, resp, "filePath")
	assert.NotContains(t, resp, "parsedContent")

	var stored model.Document
	require.NoError(t, testDB.First(&stored, uint(resp["id"].(float64))).Error)
	assert.True(t, strings.HasPrefix(stored.FilePath, storage.CandidatePrefix(candidateID)), stored.FilePath)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/candidates/%d/documents", candidateID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, testutil.DecodeList(rec), 1)

	rec = download(r, token, resp["id"])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, content, rec.Body.Bytes())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Emily CV.pdf")

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/documents/%v", resp["id"]), http.MethodDelete)
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, _, err := store.DownloadFile(context.Background(), stored.FilePath)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/documents/%v", resp["id"]), http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = download(r, token, resp["id"])
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpload_TextIsParsed(t *testing.T) {
	r := documentRouter(localStorage(t))

	rec, resp := testutil.MakeMultipartRequest("file", "notes.txt", []byte("Go, SQL, Kubernetes"), nil,
		hrToken(t), r, fmt.Sprintf("/candidates/%d/documents", database.TestCandidate1.ID))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, DefaultDocumentType, resp["documentType"])
	assert.Equal(t, "Go, SQL, Kubernetes", resp["parsedContent"])
}

func TestUpload_Rejections(t *testing.T) {
	r := documentRouter(localStorage(t))
	token := hrToken(t)
	path := fmt.Sprintf("/candidates/%d/documents", database.TestCandidate1.ID)

	rec, _ := testutil.MakeMultipartRequest("file", "run.exe", []byte("MZ"), nil, token, r, path)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec, _ = testutil.MakeMultipartRequest("attachment", "cv.pdf", []byte("x"), nil, token, r, path)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeMultipartRequest("file", "big.pdf", bytes.Repeat([]byte("a"), 20<<10), nil, token, r, path)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec, _ = testutil.MakeMultipartRequest("file", "cv.pdf", []byte("x"), nil, token, r, "/candidates/999999/documents")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpload_StorageFailure(t *testing.T) {
	var before int64
	require.NoError(t, testDB.Model(&model.Document{}).Count(&before).Error)

	rec, resp := testutil.MakeMultipartRequest("file", "cv.pdf", []byte("x"), nil, hrToken(t), documentRouter(brokenStorage{}),
		fmt.Sprintf("/candidates/%d/documents", database.TestCandidate1.ID))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, resp["error"], "bucket unavailable")
	var after int64
	require.NoError(t, testDB.Model(&model.Document{}).Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestDownload_MissingObject(t *testing.T) {
	document := model.Document{
		CandidateID:  database.TestCandidate1.ID,
		FileName:     "gone.pdf",
		FileType:     ".pdf",
		FilePath:     storage.CandidatePrefix(database.TestCandidate1.ID) + "gone.pdf",
		FileSize:     3,
		DocumentType: DefaultDocumentType,
	}
	require.NoError(t, testDB.Create(&document).Error)

	rec := download(documentRouter(localStorage(t)), hrToken(t), document.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
