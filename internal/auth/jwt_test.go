package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-backend/internal/database"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	user := database.TestManagerUser

	token, expiresAt, err := GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := ValidatedToken(token)
	require.NoError(t, err)
	assert.Equal(t, JwtIssuer, claims.Issuer)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "Manager", claims.Role)
	assert.Equal(t, user.Department, claims.Department)
	assert.Equal(t, user.JobTitle, claims.JobTitle)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestGenerateToken_UniqueIDs(t *testing.T) {
	a, _, err := GenerateToken(database.TestHRUser)
	require.NoError(t, err)
	b, _, err := GenerateToken(database.TestHRUser)
	require.NoError(t, err)

	ca, err := ValidatedToken(a)
	require.NoError(t, err)
	cb, err := ValidatedToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestValidatedToken_Expired(t *testing.T) {
	token, _, err := GenerateTokenWithDuration(database.TestHRUser, -time.Minute, JwtIssuer)
	require.NoError(t, err)

	_, err = ValidatedToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidatedToken_WrongIssuer(t *testing.T) {
	token, _, err := GenerateTokenWithDuration(database.TestHRUser, time.Hour, "someone-else")
	require.NoError(t, err)

	_, err = ValidatedToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestValidatedToken_Tampered(t *testing.T) {
	token, _, err := GenerateToken(database.TestHRUser)
	require.NoError(t, err)

	_, err = ValidatedToken(token + "x")
	assert.Error(t, err)
}

func TestValidatedToken_OtherSigningMethod(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: JwtIssuer, Subject: "1", ID: "x"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidatedToken(unsigned)
	assert.Error(t, err)
}

func TestClaimsUserID_BadSubject(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	assert.Error(t, err)
}
