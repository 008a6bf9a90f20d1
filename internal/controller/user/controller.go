// Package user provides HTTP handlers for staff accounts.
package user

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ats-backend/internal/database"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// UserController handles user related endpoints
type UserController struct {
	DB *database.DBinstanceStruct
}

// NewUserController creates a new instance of UserController
func NewUserController(db *database.DBinstanceStruct) *UserController {
	return &UserController{DB: db}
}

// GetUsers lists every account.
// @Summary List users
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.UserInfo
// @Failure 403 {object} utilities.ErrorResponse "Not HR or Manager"
// @Router /users [get]
func (uc *UserController) GetUsers(c *gin.Context) {
	var users []model.User
	if err := uc.DB.WithContext(c.Request.Context()).Order("id").Find(&users).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve users", err)
		return
	}

	infos := make([]model.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, u.Info())
	}
	c.JSON(http.StatusOK, infos)
}

// GetUser returns one account.
// @Summary Get user by id
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "User id"
// @Success 200 {object} model.UserInfo
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (uc *UserController) GetUser(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var user model.User
	if err := uc.DB.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve user", err)
		return
	}
	c.JSON(http.StatusOK, user.Info())
}

// DeleteUser removes an account that no job or interview depends on.
// @Summary Delete user
// @Description Hiring managers and interviewers can not be deleted. Reviews by the user keep their content and lose the reviewer.
// @Tags User
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "User id"
// @Success 204
// @Failure 400 {object} utilities.ErrorResponse "Deleting own account"
// @Failure 403 {object} utilities.ErrorResponse "Not HR"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 409 {object} utilities.ErrorResponse "User still owns jobs or interviews"
// @Router /users/{id} [delete]
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	current, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if current.ID == id {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Cannot delete your own account"})
		return
	}

	if err := deleteUser(uc.DB.WithContext(c.Request.Context()), id); err != nil {
		utilities.RespondError(c, "Failed to delete user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func deleteUser(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			return err
		}

		var jobs, interviews int64
		if err := tx.Model(&model.Job{}).Where("hiring_manager_id = ?", id).Count(&jobs).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Interview{}).Where("interviewer_id = ?", id).Count(&interviews).Error; err != nil {
			return err
		}
		if jobs > 0 || interviews > 0 {
			return fmt.Errorf("user manages %d jobs and interviews %d times: %w", jobs, interviews, model.ErrDeleteRestricted)
		}

		if err := tx.Model(&model.Application{}).
			Where("reviewer_id = ?", id).
			Update("reviewer_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}
