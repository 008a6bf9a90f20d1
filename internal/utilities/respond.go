package utilities

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ats-backend/internal/model"
)

// StatusOf maps a data layer error onto an HTTP status code.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrVersionConflict),
		errors.Is(err, model.ErrIllegalTransition),
		errors.Is(err, model.ErrJobNotAccepting),
		errors.Is(err, model.ErrMaxApplications),
		errors.Is(err, model.ErrApplicationClosed),
		errors.Is(err, model.ErrDeleteRestricted):
		return http.StatusConflict
	case errors.Is(err, model.ErrUnknownReference),
		errors.Is(err, model.ErrDuplicate),
		IsForeignKeyViolation(err),
		IsUniqueViolation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as "<action>: <err>" with the status StatusOf picks.
// Version conflicts also carry the current version.
func RespondError(c *gin.Context, action string, err error) {
	msg := fmt.Sprintf("%s: %s", action, err.Error())

	var conflict *model.VersionConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, ConflictResponse{Error: msg, CurrentVersion: conflict.CurrentVersion})
		return
	}
	c.JSON(StatusOf(err), ErrorResponse{Error: msg})
}
