package candidate

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// GetExperiences lists the work history of a candidate, most recent first.
// @Summary List candidate experiences
// @Tags Candidate
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Success 200 {array} model.Experience
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Router /candidates/{id}/experiences [get]
func (cc *CandidateController) GetExperiences(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	if err := requireCandidate(db, id); err != nil {
		utilities.RespondError(c, "Failed to retrieve experiences", err)
		return
	}

	experiences := []model.Experience{}
	if err := db.Where("candidate_id = ?", id).Order("start_date DESC").Find(&experiences).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve experiences", err)
		return
	}
	c.JSON(http.StatusOK, experiences)
}

// AddExperience records a position held by a candidate.
// @Summary Add candidate experience
// @Tags Candidate
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Param Experience body model.ExperienceRequest true "Experience"
// @Success 201 {object} model.Experience
// @Failure 400 {object} utilities.ErrorResponse "Invalid body"
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Router /candidates/{id}/experiences [post]
func (cc *CandidateController) AddExperience(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req model.ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "endDate must not be before startDate"})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	if err := requireCandidate(db, id); err != nil {
		utilities.RespondError(c, "Failed to add experience", err)
		return
	}

	experience := model.Experience{
		CandidateID:  id,
		JobTitle:     req.JobTitle,
		Company:      req.Company,
		Location:     req.Location,
		StartDate:    req.StartDate.UTC(),
		EndDate:      req.EndDate,
		IsCurrent:    req.IsCurrent,
		Description:  req.Description,
		Achievements: req.Achievements,
	}
	if experience.EndDate != nil {
		end := experience.EndDate.UTC()
		experience.EndDate = &end
	}
	if err := db.Create(&experience).Error; err != nil {
		utilities.RespondError(c, "Failed to add experience", err)
		return
	}
	c.JSON(http.StatusCreated, experience)
}

// DeleteExperience removes one experience of a candidate.
// @Summary Delete candidate experience
// @Tags Candidate
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Param expId path int true "Experience id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Experience not found"
// @Router /candidates/{id}/experiences/{expId} [delete]
func (cc *CandidateController) DeleteExperience(c *gin.Context) {
	cc.deleteOwned(c, "expId", &model.Experience{}, "Experience")
}

// GetEducations lists the education of a candidate.
// @Summary List candidate educations
// @Tags Candidate
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Success 200 {array} model.Education
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Router /candidates/{id}/educations [get]
func (cc *CandidateController) GetEducations(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	if err := requireCandidate(db, id); err != nil {
		utilities.RespondError(c, "Failed to retrieve educations", err)
		return
	}

	educations := []model.Education{}
	if err := db.Where("candidate_id = ?", id).Order("start_date DESC, id").Find(&educations).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve educations", err)
		return
	}
	c.JSON(http.StatusOK, educations)
}

// AddEducation records a degree or course of a candidate. Dates are stored as calendar dates.
// @Summary Add candidate education
// @Tags Candidate
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Param Education body model.EducationRequest true "Education"
// @Success 201 {object} model.Education
// @Failure 400 {object} utilities.ErrorResponse "Invalid body"
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Router /candidates/{id}/educations [post]
func (cc *CandidateController) AddEducation(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req model.EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	if err := requireCandidate(db, id); err != nil {
		utilities.RespondError(c, "Failed to add education", err)
		return
	}

	education := model.Education{
		CandidateID:  id,
		Institution:  req.Institution,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		StartDate:    model.DateOf(req.StartDate),
		EndDate:      model.DateOf(req.EndDate),
		Grade:        req.Grade,
		Description:  req.Description,
	}
	if err := db.Create(&education).Error; err != nil {
		utilities.RespondError(c, "Failed to add education", err)
		return
	}
	c.JSON(http.StatusCreated, education)
}

// DeleteEducation removes one education of a candidate.
// @Summary Delete candidate education
// @Tags Candidate
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Param eduId path int true "Education id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Education not found"
// @Router /candidates/{id}/educations/{eduId} [delete]
func (cc *CandidateController) DeleteEducation(c *gin.Context) {
	cc.deleteOwned(c, "eduId", &model.Education{}, "Education")
}

// deleteOwned deletes the row named by param when it belongs to the candidate in the path.
func (cc *CandidateController) deleteOwned(c *gin.Context, param string, table interface{}, label string) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	rowID, err := utilities.ParseID(c, param)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	res := cc.DB.WithContext(c.Request.Context()).
		Where("id = ? AND candidate_id = ?", rowID, id).
		Delete(table)
	if res.Error != nil {
		utilities.RespondError(c, fmt.Sprintf("Failed to delete %s", label), res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: label + " not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
