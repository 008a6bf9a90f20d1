// Package interview provides HTTP handlers for scheduling and recording interviews.
package interview

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ats-backend/internal/database"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// InterviewController handles interview related endpoints
type InterviewController struct {
	DB          *database.DBinstanceStruct
	Transitions model.TransitionPolicy
}

// NewInterviewController creates a new instance of InterviewController
func NewInterviewController(db *database.DBinstanceStruct, transitions model.TransitionPolicy) *InterviewController {
	return &InterviewController{
		DB:          db,
		Transitions: transitions,
	}
}

// GetInterviews lists every interview.
// @Summary List interviews
// @Tags Interview
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.InterviewDto
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not HR or Manager"
// @Router /interviews [get]
func (ic *InterviewController) GetInterviews(c *gin.Context) {
	interviews, err := listInterviews(ic.DB.WithContext(c.Request.Context()), "")
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve interviews", err)
		return
	}
	c.JSON(http.StatusOK, interviews)
}

// GetInterview returns one interview.
// @Summary Get interview by id
// @Tags Interview
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Interview id"
// @Success 200 {object} model.InterviewDto
// @Failure 404 {object} utilities.ErrorResponse "Interview not found"
// @Router /interviews/{id} [get]
func (ic *InterviewController) GetInterview(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	interview, err := getInterview(ic.DB.WithContext(c.Request.Context()), id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve interview", err)
		return
	}
	c.JSON(http.StatusOK, interview)
}

// GetInterviewsByApplication lists the interviews of one application.
// @Summary List interviews of an application
// @Tags Interview
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param applicationId path int true "Application id"
// @Success 200 {array} model.InterviewDto
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /interviews/application/{applicationId} [get]
func (ic *InterviewController) GetInterviewsByApplication(c *gin.Context) {
	ic.listBy(c, "applicationId", &model.Application{}, "i.application_id = ?")
}

// GetInterviewsByInterviewer lists the interviews run by one user.
// @Summary List interviews of an interviewer
// @Tags Interview
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param interviewerId path int true "User id"
// @Success 200 {array} model.InterviewDto
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Router /interviews/interviewer/{interviewerId} [get]
func (ic *InterviewController) GetInterviewsByInterviewer(c *gin.Context) {
	ic.listBy(c, "interviewerId", &model.User{}, "i.interviewer_id = ?")
}

func (ic *InterviewController) listBy(c *gin.Context, param string, parent interface{}, where string) {
	id, err := utilities.ParseID(c, param)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := ic.DB.WithContext(c.Request.Context())
	if ok, err := database.Exists(db, parent, id); err != nil {
		utilities.RespondError(c, "Failed to retrieve interviews", err)
		return
	} else if !ok {
		utilities.RespondError(c, "Failed to retrieve interviews", gorm.ErrRecordNotFound)
		return
	}

	interviews, err := listInterviews(db, where, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve interviews", err)
		return
	}
	c.JSON(http.StatusOK, interviews)
}

// CreateInterview schedules an interview.
// @Summary Create interview
// @Description The application must not be Hired, Rejected or Withdrawn. New interviews start as Scheduled.
// @Tags Interview
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param interview body model.CreateInterviewRequest true "Interview information"
// @Success 201 {object} model.InterviewDto
// @Failure 400 {object} utilities.ErrorResponse "Invalid body, unknown application or interviewer"
// @Failure 409 {object} utilities.ErrorResponse "Application is closed"
// @Router /interviews [post]
func (ic *InterviewController) CreateInterview(c *gin.Context) {
	var req model.CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := ic.DB.WithContext(c.Request.Context())
	id, err := createInterview(db, req)
	if err != nil {
		utilities.RespondError(c, "Failed to create interview", err)
		return
	}

	interview, err := getInterview(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve interview", err)
		return
	}
	c.JSON(http.StatusCreated, interview)
}

// UpdateInterview reschedules an interview or records its outcome.
// @Summary Update interview
// @Description Status changes follow the transition policy. A stale version answers 409 with the current version.
// @Tags Interview
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Interview id"
// @Param interview body model.UpdateInterviewRequest true "Interview information"
// @Success 200 {object} model.InterviewDto
// @Failure 400 {object} utilities.ErrorResponse "Invalid body"
// @Failure 404 {object} utilities.ErrorResponse "Interview not found"
// @Failure 409 {object} utilities.ConflictResponse "Version conflict or illegal status change"
// @Router /interviews/{id} [put]
func (ic *InterviewController) UpdateInterview(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req model.UpdateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := ic.DB.WithContext(c.Request.Context())

	var current model.Interview
	if err := db.Select("id", "status", "version").First(&current, id).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve interview", err)
		return
	}
	if err := ic.Transitions.CheckInterview(current.Status, req.Status); err != nil {
		utilities.RespondError(c, "Failed to update interview", err)
		return
	}

	expected := current.Version
	if req.Version != nil {
		expected = *req.Version
	}

	_, err = database.UpdateVersioned(db, &model.Interview{}, id, expected, map[string]interface{}{
		"status":              req.Status,
		"scheduled_date_time": req.ScheduledDateTime.UTC(),
		"duration_minutes":    req.DurationMinutes,
		"location":            req.Location,
		"meeting_link":        req.MeetingLink,
		"notes":               req.Notes,
		"feedback":            req.Feedback,
		"rating":              req.Rating,
		"recommendation":      req.Recommendation,
	})
	if err != nil {
		utilities.RespondError(c, "Failed to update interview", err)
		return
	}

	interview, err := getInterview(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve interview", err)
		return
	}
	c.JSON(http.StatusOK, interview)
}

// DeleteInterview removes an interview.
// @Summary Delete interview
// @Tags Interview
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Interview id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Interview not found"
// @Router /interviews/{id} [delete]
func (ic *InterviewController) DeleteInterview(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	res := ic.DB.WithContext(c.Request.Context()).Delete(&model.Interview{}, id)
	if res.Error != nil {
		utilities.RespondError(c, "Failed to delete interview", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utilities.RespondError(c, "Failed to delete interview", gorm.ErrRecordNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
