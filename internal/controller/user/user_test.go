package user

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-backend/internal/auth"
	"ats-backend/internal/database"
	"ats-backend/internal/middleware"
	"ats-backend/internal/model"
	"ats-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.Configure("user-test-secret", auth.DefaultTokenTTL)

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

func userRouter() *gin.Engine {
	r := gin.New()
	uc := NewUserController(testDB)
	g := r.Group("/users", middleware.RequireAuth(testDB, nil))
	g.GET("", middleware.CheckRole(model.RoleHR, model.RoleManager), uc.GetUsers)
	g.GET("/:id", middleware.CheckRole(model.RoleHR, model.RoleManager), uc.GetUser)
	g.DELETE("/:id", middleware.CheckRole(model.RoleHR), uc.DeleteUser)
	return r
}

func tokenFor(t *testing.T, email string) string {
	token, err := auth.GetAccessToken(t, testDB, email, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func newUser(t *testing.T, email string) model.User {
	t.Helper()
	user := model.User{
		FirstName:    "Temp",
		LastName:     "Reviewer",
		Email:        email,
		PasswordHash: "x",
		Role:         model.RoleManager,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(&user).Error)
	return user
}

func TestGetUsers(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, tokenFor(t, database.TestManagerUser.Email), userRouter(), "/users", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	list := testutil.DecodeList(rec)
	require.GreaterOrEqual(t, len(list), 4)
	assert.Equal(t, database.TestHRUser.Email, list[0]["email"])
	assert.NotContains(t, list[0], "passwordHash")
}

func TestGetUser(t *testing.T) {
	r := userRouter()
	token := tokenFor(t, database.TestHRUser.Email)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/users/%d", database.TestManagerUser.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(model.RoleManager), resp["role"])

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/users/999999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUser_RestrictedWhenHiringManager(t *testing.T) {
	var before int64
	require.NoError(t, testDB.Model(&model.User{}).Count(&before).Error)

	rec, resp := testutil.MakeJSONRequest(nil, tokenFor(t, database.TestHRUser.Email), userRouter(),
		fmt.Sprintf("/users/%d", database.TestManagerUser.ID), http.MethodDelete)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, resp["error"], "still referenced")
	var after int64
	require.NoError(t, testDB.Model(&model.User{}).Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestDeleteUser_ClearsReviewer(t *testing.T) {
	reviewer := newUser(t, "temp.reviewer@ats.test")
	require.NoError(t, testDB.Model(&model.Application{}).
		Where("id = ?", database.TestApplication1.ID).
		Update("reviewer_id", reviewer.ID).Error)

	rec, _ := testutil.MakeJSONRequest(nil, tokenFor(t, database.TestHRUser.Email), userRouter(),
		fmt.Sprintf("/users/%d", reviewer.ID), http.MethodDelete)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	var application model.Application
	require.NoError(t, testDB.First(&application, database.TestApplication1.ID).Error)
	assert.Nil(t, application.ReviewerID)

	var count int64
	require.NoError(t, testDB.Model(&model.User{}).Where("id = ?", reviewer.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteUser_Guards(t *testing.T) {
	r := userRouter()

	rec, _ := testutil.MakeJSONRequest(nil, tokenFor(t, database.TestManagerUser.Email), r,
		fmt.Sprintf("/users/%d", database.TestInactiveUser.ID), http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	hr := tokenFor(t, database.TestHRUser.Email)
	rec, _ = testutil.MakeJSONRequest(nil, hr, r, fmt.Sprintf("/users/%d", database.TestHRUser.ID), http.MethodDelete)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, hr, r, "/users/999999", http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
