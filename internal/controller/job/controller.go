// Package job provides HTTP handlers for job openings and their skill requirements.
package job

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ats-backend/internal/database"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// JobController handles job related endpoints
type JobController struct {
	DB          *database.DBinstanceStruct
	Transitions model.TransitionPolicy
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct, transitions model.TransitionPolicy) *JobController {
	return &JobController{
		DB:          db,
		Transitions: transitions,
	}
}

// GetJobs returns every job with its hiring manager name and application count.
// @Summary List jobs
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.JobDto
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) GetJobs(c *gin.Context) {
	jobs, err := listJobs(jc.DB.WithContext(c.Request.Context()))
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve jobs", err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob returns one job with its skills.
// @Summary Get job by id
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Success 200 {object} model.JobDto
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJob(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, err := getJob(jc.DB.WithContext(c.Request.Context()), id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob opens a new job. New jobs are always Active.
// @Summary Create job
// @Description Status in the body is ignored, the job starts Active
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.CreateJobRequest true "Job information"
// @Success 201 {object} model.JobDto
// @Failure 400 {object} utilities.ErrorResponse "Invalid body or unknown hiring manager"
// @Failure 403 {object} utilities.ErrorResponse "Not HR or Manager"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJob(c *gin.Context) {
	var req model.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	if !model.SalaryRangeValid(req.SalaryMin, req.SalaryMax) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "salaryMin must not exceed salaryMax"})
		return
	}

	db := jc.DB.WithContext(c.Request.Context())

	found, err := database.Exists(db, &model.User{}, req.HiringManagerID)
	if err != nil {
		utilities.RespondError(c, "Failed to check hiring manager", err)
		return
	}
	if !found {
		utilities.RespondError(c, "Failed to create job", fmt.Errorf("hiring manager %d: %w", req.HiringManagerID, model.ErrUnknownReference))
		return
	}

	job := model.Job{
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    req.Requirements,
		Location:        req.Location,
		Department:      req.Department,
		ExperienceLevel: req.ExperienceLevel,
		EmploymentType:  req.EmploymentType,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		Status:          model.JobStatusActive,
		ClosingDate:     utcPtr(req.ClosingDate),
		MaxApplications: req.MaxApplications,
		IsRemoteAllowed: req.IsRemoteAllowed,
		HiringManagerID: req.HiringManagerID,
		Version:         1,
	}
	if err := db.Create(&job).Error; err != nil {
		utilities.RespondError(c, "Failed to create job", err)
		return
	}

	dto, err := getJob(db, job.ID)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve job", err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// UpdateJob replaces the editable fields of a job.
// @Summary Update job
// @Description Status changes follow the transition policy. A stale version answers 409 with the current version.
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Param Job body model.UpdateJobRequest true "Job information"
// @Success 200 {object} model.JobDto
// @Failure 400 {object} utilities.ErrorResponse "Invalid body"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 409 {object} utilities.ConflictResponse "Version conflict or illegal status change"
// @Router /jobs/{id} [put]
func (jc *JobController) UpdateJob(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req model.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	if !model.SalaryRangeValid(req.SalaryMin, req.SalaryMax) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "salaryMin must not exceed salaryMax"})
		return
	}

	db := jc.DB.WithContext(c.Request.Context())

	var current model.Job
	if err := db.Select("id", "status", "version").First(&current, id).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve job", err)
		return
	}
	if err := jc.Transitions.CheckJob(current.Status, req.Status); err != nil {
		utilities.RespondError(c, "Failed to update job", err)
		return
	}

	expected := current.Version
	if req.Version != nil {
		expected = *req.Version
	}

	_, err = database.UpdateVersioned(db, &model.Job{}, id, expected, map[string]interface{}{
		"title":             req.Title,
		"description":       req.Description,
		"requirements":      req.Requirements,
		"location":          req.Location,
		"department":        req.Department,
		"experience_level":  req.ExperienceLevel,
		"employment_type":   req.EmploymentType,
		"salary_min":        req.SalaryMin,
		"salary_max":        req.SalaryMax,
		"status":            req.Status,
		"closing_date":      utcPtr(req.ClosingDate),
		"max_applications":  req.MaxApplications,
		"is_remote_allowed": req.IsRemoteAllowed,
	})
	if err != nil {
		utilities.RespondError(c, "Failed to update job", err)
		return
	}

	dto, err := getJob(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve job", err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// DeleteJob removes a job and everything hanging off it.
// @Summary Delete job
// @Description Applications, their interviews and document links, and job skills are deleted too
// @Tags Job
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJob(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if err := deleteJob(jc.DB.WithContext(c.Request.Context()), id); err != nil {
		utilities.RespondError(c, "Failed to delete job", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetJobSkill adds a skill requirement to a job or updates it.
// @Summary Add or update a job skill
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Param skillId path int true "Skill id"
// @Param Skill body model.JobSkillRequest true "Requirement"
// @Success 200 {array} model.JobSkillDto
// @Failure 404 {object} utilities.ErrorResponse "Job or skill not found"
// @Router /jobs/{id}/skills/{skillId} [put]
func (jc *JobController) SetJobSkill(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	skillID, err := utilities.ParseID(c, "skillId")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req model.JobSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := jc.DB.WithContext(c.Request.Context())
	if err := requireBoth(db, id, skillID); err != nil {
		utilities.RespondError(c, "Failed to set job skill", err)
		return
	}

	link := model.JobSkill{
		JobID:             id,
		SkillID:           skillID,
		IsRequired:        req.IsRequired,
		YearsOfExperience: req.YearsOfExperience,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}, {Name: "skill_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_required", "years_of_experience", "updated_at"}),
	}).Create(&link).Error
	if err != nil {
		utilities.RespondError(c, "Failed to set job skill", err)
		return
	}

	skills, err := jobSkills(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve job skills", err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

// RemoveJobSkill detaches a skill from a job.
// @Summary Remove a job skill
// @Tags Job
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Param skillId path int true "Skill id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Job skill not found"
// @Router /jobs/{id}/skills/{skillId} [delete]
func (jc *JobController) RemoveJobSkill(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	skillID, err := utilities.ParseID(c, "skillId")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	res := jc.DB.WithContext(c.Request.Context()).
		Where("job_id = ? AND skill_id = ?", id, skillID).
		Delete(&model.JobSkill{})
	if res.Error != nil {
		utilities.RespondError(c, "Failed to remove job skill", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job skill not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func requireBoth(db *gorm.DB, jobID, skillID uint) error {
	if ok, err := database.Exists(db, &model.Job{}, jobID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("job %d: %w", jobID, gorm.ErrRecordNotFound)
	}
	if ok, err := database.Exists(db, &model.Skill{}, skillID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("skill %d: %w", skillID, gorm.ErrRecordNotFound)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
