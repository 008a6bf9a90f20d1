// Package application provides HTTP handlers for job applications and their documents.
package application

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ats-backend/internal/database"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB          *database.DBinstanceStruct
	Transitions model.TransitionPolicy
	Now         func() time.Time
}

// NewApplicationController creates a new instance of ApplicationController with the provided database connection.
func NewApplicationController(db *database.DBinstanceStruct, transitions model.TransitionPolicy) *ApplicationController {
	return &ApplicationController{
		DB:          db,
		Transitions: transitions,
		Now:         time.Now,
	}
}

// GetApplications lists every application.
// @Summary List applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ApplicationDto
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not HR or Manager"
// @Router /applications [get]
func (ac *ApplicationController) GetApplications(c *gin.Context) {
	applications, err := listApplications(ac.DB.WithContext(c.Request.Context()), "")
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve applications", err)
		return
	}
	c.JSON(http.StatusOK, applications)
}

// GetApplication returns one application.
// @Summary Get application by id
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Success 200 {object} model.ApplicationDto
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /applications/{id} [get]
func (ac *ApplicationController) GetApplication(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	application, err := getApplication(ac.DB.WithContext(c.Request.Context()), id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve application", err)
		return
	}
	c.JSON(http.StatusOK, application)
}

// GetApplicationsByJob lists the applications of one job.
// @Summary List applications of a job
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path int true "Job id"
// @Success 200 {array} model.ApplicationDto
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /applications/job/{jobId} [get]
func (ac *ApplicationController) GetApplicationsByJob(c *gin.Context) {
	ac.listBy(c, "jobId", &model.Job{}, "a.job_id = ?")
}

// GetApplicationsByCandidate lists the applications of one candidate.
// @Summary List applications of a candidate
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param candidateId path int true "Candidate id"
// @Success 200 {array} model.ApplicationDto
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Router /applications/candidate/{candidateId} [get]
func (ac *ApplicationController) GetApplicationsByCandidate(c *gin.Context) {
	ac.listBy(c, "candidateId", &model.Candidate{}, "a.candidate_id = ?")
}

func (ac *ApplicationController) listBy(c *gin.Context, param string, parent interface{}, where string) {
	id, err := utilities.ParseID(c, param)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	if ok, err := database.Exists(db, parent, id); err != nil {
		utilities.RespondError(c, "Failed to retrieve applications", err)
		return
	} else if !ok {
		utilities.RespondError(c, "Failed to retrieve applications", gorm.ErrRecordNotFound)
		return
	}

	applications, err := listApplications(db, where, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve applications", err)
		return
	}
	c.JSON(http.StatusOK, applications)
}

// CreateApplication submits a candidate to a job.
// @Summary Create application
// @Description The job must be Active and below its application limit. New applications start as Applied.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param application body model.CreateApplicationRequest true "Application information"
// @Success 201 {object} model.ApplicationDto
// @Failure 400 {object} utilities.ErrorResponse "Invalid body, unknown job or candidate, already applied"
// @Failure 409 {object} utilities.ErrorResponse "Job not accepting applications or full"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications [post]
func (ac *ApplicationController) CreateApplication(c *gin.Context) {
	var req model.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	id, err := createApplication(db, req, ac.Now)
	if err != nil {
		utilities.RespondError(c, "Failed to create application", err)
		return
	}

	application, err := getApplication(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve application", err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

// UpdateApplication moves an application through the pipeline and records the review.
// @Summary Update application
// @Description Job and candidate can not be changed. Status changes follow the transition policy.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Param application body model.UpdateApplicationRequest true "Application information"
// @Success 200 {object} model.ApplicationDto
// @Failure 400 {object} utilities.ErrorResponse "Invalid body or unknown reviewer"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 409 {object} utilities.ConflictResponse "Version conflict or illegal status change"
// @Router /applications/{id} [put]
func (ac *ApplicationController) UpdateApplication(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req model.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := ac.DB.WithContext(c.Request.Context())

	var current model.Application
	if err := db.Select("id", "status", "version").First(&current, id).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve application", err)
		return
	}
	if err := ac.Transitions.CheckApplication(current.Status, req.Status); err != nil {
		utilities.RespondError(c, "Failed to update application", err)
		return
	}
	if req.ReviewerID != nil {
		if ok, err := database.Exists(db, &model.User{}, *req.ReviewerID); err != nil {
			utilities.RespondError(c, "Failed to check reviewer", err)
			return
		} else if !ok {
			utilities.RespondError(c, "Failed to update application",
				fmt.Errorf("reviewer %d: %w", *req.ReviewerID, model.ErrUnknownReference))
			return
		}
	}

	expected := current.Version
	if req.Version != nil {
		expected = *req.Version
	}

	_, err = database.UpdateVersioned(db, &model.Application{}, id, expected, map[string]interface{}{
		"status":         req.Status,
		"notes":          req.Notes,
		"rating":         req.Rating,
		"reviewer_notes": req.ReviewerNotes,
		"reviewer_id":    req.ReviewerID,
	})
	if err != nil {
		utilities.RespondError(c, "Failed to update application", err)
		return
	}

	application, err := getApplication(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve application", err)
		return
	}
	c.JSON(http.StatusOK, application)
}

// DeleteApplication removes an application with its interviews and document links.
// @Summary Delete application
// @Tags Application
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /applications/{id} [delete]
func (ac *ApplicationController) DeleteApplication(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if err := deleteApplication(ac.DB.WithContext(c.Request.Context()), id); err != nil {
		utilities.RespondError(c, "Failed to delete application", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetApplicationDocuments lists the documents attached to an application.
// @Summary List application documents
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Success 200 {array} model.Document
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /applications/{id}/documents [get]
func (ac *ApplicationController) GetApplicationDocuments(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	if ok, err := database.Exists(db, &model.Application{}, id); err != nil {
		utilities.RespondError(c, "Failed to retrieve documents", err)
		return
	} else if !ok {
		utilities.RespondError(c, "Failed to retrieve documents", gorm.ErrRecordNotFound)
		return
	}

	documents, err := applicationDocuments(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve documents", err)
		return
	}
	c.JSON(http.StatusOK, documents)
}

// LinkDocument attaches one of the candidate's documents to the application.
// @Summary Attach document to application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Param documentId path int true "Document id"
// @Success 200 {array} model.Document
// @Failure 400 {object} utilities.ErrorResponse "Document of another candidate"
// @Failure 404 {object} utilities.ErrorResponse "Application or document not found"
// @Router /applications/{id}/documents/{documentId} [put]
func (ac *ApplicationController) LinkDocument(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	documentID, err := utilities.ParseID(c, "documentId")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	if err := linkDocument(db, id, documentID); err != nil {
		utilities.RespondError(c, "Failed to attach document", err)
		return
	}

	documents, err := applicationDocuments(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve documents", err)
		return
	}
	c.JSON(http.StatusOK, documents)
}

// UnlinkDocument detaches a document from the application. The document itself is kept.
// @Summary Detach document from application
// @Tags Application
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Param documentId path int true "Document id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Document not attached"
// @Router /applications/{id}/documents/{documentId} [delete]
func (ac *ApplicationController) UnlinkDocument(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	documentID, err := utilities.ParseID(c, "documentId")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	res := ac.DB.WithContext(c.Request.Context()).
		Where("application_id = ? AND document_id = ?", id, documentID).
		Delete(&model.ApplicationDocument{})
	if res.Error != nil {
		utilities.RespondError(c, "Failed to detach document", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Document is not attached to this application"})
		return
	}
	c.Status(http.StatusNoContent)
}
