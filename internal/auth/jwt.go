package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"ats-backend/internal/model"
)

// JwtIssuer is the issuer written into and required from every access token.
const JwtIssuer = "ats-backend"

// DefaultTokenTTL is the lifetime of an access token unless configured otherwise.
const DefaultTokenTTL = 24 * time.Hour

var (
	secretKey []byte
	tokenTTL  = DefaultTokenTTL
)

// ErrNoSecret is returned when tokens are issued or checked before Configure was called.
var ErrNoSecret = errors.New("token signing secret is not configured")

// Configure sets the signing secret and the lifetime of issued tokens.
// It must be called once at startup, before serving requests.
func Configure(secret string, ttl time.Duration) {
	secretKey = []byte(secret)
	if ttl > 0 {
		tokenTTL = ttl
	}
}

// Claims is the payload of an access token.
type Claims struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       string `json:"role"`
	Department string `json:"department"`
	JobTitle   string `json:"jobTitle"`
	jwt.RegisteredClaims
}

// UserID returns the numeric user id stored in the subject.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject %q", c.Subject)
	}
	return uint(id), nil
}

// GenerateToken signs an access token for user with the configured lifetime.
func GenerateToken(user model.User) (string, time.Time, error) {
	return GenerateTokenWithDuration(user, tokenTTL, JwtIssuer)
}

// GenerateTokenWithDuration signs an access token valid for d from now.
func GenerateTokenWithDuration(user model.User, d time.Duration, issuer string) (string, time.Time, error) {
	if len(secretKey) == 0 {
		return "", time.Time{}, ErrNoSecret
	}

	now := time.Now().UTC()
	expiresAt := now.Add(d)

	claims := Claims{
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role.String(),
		Department: user.Department,
		JobTitle:   user.JobTitle,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("Failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// ValidatedToken parses encodeToken, checks signature, expiry and issuer, and returns its claims.
func ValidatedToken(encodeToken string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(encodeToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		if len(secretKey) == 0 {
			return nil, ErrNoSecret
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("Invalid access token")
	}
	if !claims.VerifyIssuer(JwtIssuer, true) {
		return nil, jwt.ErrTokenInvalidIssuer
	}
	if claims.ID == "" {
		return nil, jwt.ErrTokenInvalidId
	}
	return claims, nil
}
