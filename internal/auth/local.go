// Package auth contains handlers that sign users in, register accounts and revoke tokens.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ats-backend/internal/database"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

const invalidCredentials = "Invalid credentials"

// missingUserHash stands in for the password hash when no active user matches.
var missingUserHash, _ = utilities.HashPassword("no-such-user-password")

var verifyPassword = utilities.VerifyPassword

// LocalAuthHandler holds DB reference for handler methods.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	FirstName   string         `json:"firstName" binding:"required,max=100"`
	LastName    string         `json:"lastName" binding:"required,max=100"`
	Email       string         `json:"email" binding:"required,email,max=255"`
	Password    string         `json:"password" binding:"required"`
	Role        model.UserRole `json:"role"`
	Department  string         `json:"department" binding:"max=100"`
	JobTitle    string         `json:"jobTitle" binding:"max=100"`
	PhoneNumber string         `json:"phoneNumber" binding:"max=50"`
}

type loginInfo struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func authResponse(user model.User) (model.AuthResponse, error) {
	token, expiresAt, err := GenerateToken(user)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{
		Token:     token,
		User:      user.Info(),
		ExpiresAt: expiresAt,
	}, nil
}

// RegisterHandler creates a candidate account and signs it in.
// Staff accounts come from cmd/create-admin or the bootstrap admin.
// @Summary Register a new candidate account
// @Description Email must not already exist and password must be at least 8 characters long. Role may be omitted or Candidate.
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "Account details"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid registration info: %s", err.Error()),
		})
		return
	}
	info.Email = normalizeEmail(info.Email)

	switch info.Role {
	case 0:
		info.Role = model.RoleCandidate
	case model.RoleCandidate:
	default:
		LogAuthAttempt(c.Request.Context(), "Register", AuthFail, info.Email, "staff role requested")
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Only candidate accounts can be self-registered",
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	db := lh.DB.WithContext(c.Request.Context())

	var existing model.User
	err := db.Where("email = ?", info.Email).First(&existing).Error

	switch {
	case err == nil:
		LogAuthAttempt(c.Request.Context(), "Register", AuthFail, info.Email, "email taken")
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "User with this email already exists",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	user := model.User{
		FirstName:    info.FirstName,
		LastName:     info.LastName,
		Email:        info.Email,
		PasswordHash: hashedPassword,
		Role:         info.Role,
		IsActive:     true,
		PhoneNumber:  info.PhoneNumber,
		Department:   info.Department,
		JobTitle:     info.JobTitle,
	}
	if err := db.Create(&user).Error; err != nil {
		if utilities.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "User with this email already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	resp, err := authResponse(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt(c.Request.Context(), "Register", AuthSuccess, user.Email, "")
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler signs in an active user with email and password.
// @Summary Log in with email and password
// @Description Unknown email, wrong password and inactive accounts all answer with the same error
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} utilities.ErrorResponse "Email or password missing"
// @Failure 401 {object} utilities.ErrorResponse "Invalid credentials"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}
	info.Email = normalizeEmail(info.Email)
	ctx := c.Request.Context()

	var user model.User
	err := lh.DB.WithContext(ctx).Where("email = ? AND is_active = ?", info.Email, true).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		verifyPassword(info.Password, missingUserHash)
		LogAuthAttempt(ctx, "Local", AuthFail, info.Email, "no active user")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: invalidCredentials})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if !verifyPassword(info.Password, user.PasswordHash) {
		LogAuthAttempt(ctx, "Local", AuthFail, info.Email, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: invalidCredentials})
		return
	}

	resp, err := authResponse(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt(ctx, "Local", AuthSuccess, user.Email, "")
	c.JSON(http.StatusOK, resp)
}

// MeHandler returns the signed in user.
// @Summary Current user
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.UserInfo
// @Failure 401 {object} utilities.ErrorResponse
// @Router /auth/me [get]
func MeHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user.Info())
}
