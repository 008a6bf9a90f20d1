package utilities

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ats-backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testContext(header string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	return c
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken(testContext("Bearer abc.def"))
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = ExtractBearerToken(testContext(""))
	assert.Error(t, err)

	_, err = ExtractBearerToken(testContext("Basic dXNlcjpwYXNz"))
	assert.Error(t, err)

	_, err = ExtractBearerToken(testContext("Bearer "))
	assert.Error(t, err)
}

func TestExtractUser(t *testing.T) {
	c := testContext("")
	_, err := ExtractUser(c)
	assert.Error(t, err)

	c.Set("user", "not a user")
	_, err = ExtractUser(c)
	assert.Error(t, err)

	c.Set("user", model.User{ID: 7, Email: "a@b.c"})
	u, err := ExtractUser(c)
	require.NoError(t, err)
	assert.Equal(t, uint(7), u.ID)
}

func TestParseID(t *testing.T) {
	c := testContext("")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, err := ParseID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		c.Params = gin.Params{{Key: "id", Value: bad}}
		_, err := ParseID(c, "id")
		assert.Error(t, err, bad)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, VerifyPassword("password123", hash))
	assert.False(t, VerifyPassword("password124", hash))
	assert.False(t, VerifyPassword("password123", ""))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]model.UserRole{model.RoleHR, model.RoleManager}, model.RoleManager))
	assert.False(t, Contains([]string{"a"}, "b"))
}

func TestConstraintErrors(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsForeignKeyViolation(errors.New("boom")))
}

func TestSimulateAPICall(t *testing.T) {
	gin.SetMode(gin.TestMode)
	echo := func(c *gin.Context) {
		if c.GetHeader("X-Request-ID") == "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, MessageResponse{Message: c.GetHeader("X-Request-ID")})
	}

	rec, resp, err := SimulateAPICall(echo, "/echo", http.MethodPost, nil, "X-Request-ID", "req-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", resp["message"])

	rec, resp, err = SimulateAPICall(echo, "/echo", http.MethodPost, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, resp)
}
