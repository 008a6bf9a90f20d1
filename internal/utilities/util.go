// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ats-backend/internal/model"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// ConflictResponse is returned when an update lost an optimistic concurrency race.
type ConflictResponse struct {
	Error          string `json:"error"`
	CurrentVersion uint   `json:"currentVersion"`
}

// ExtractUser extracts the user model from Gin context.
// It does not abort the request; instead returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, param string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("Invalid %s: %q", param, raw)
	}
	return uint(id), nil
}

// CreateAdmin creates an active HR account with the given email and password.
func CreateAdmin(email string, password string, db *gorm.DB) (model.User, error) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := model.User{
		FirstName:    "System",
		LastName:     "Administrator",
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         model.RoleHR,
		IsActive:     true,
		Department:   "Human Resources",
		JobTitle:     "Administrator",
	}
	if err := db.Create(&admin).Error; err != nil {
		return model.User{}, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}
