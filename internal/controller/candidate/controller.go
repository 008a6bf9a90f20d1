// Package candidate provides HTTP handlers for the candidate pool and candidate profiles.
package candidate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ats-backend/internal/database"
	"ats-backend/internal/logging"
	"ats-backend/internal/model"
	"ats-backend/internal/storage"
	"ats-backend/internal/utilities"
)

// CandidateController handles candidate related endpoints
type CandidateController struct {
	DB      *database.DBinstanceStruct
	Storage storage.StorageClient
}

// NewCandidateController creates a new instance of CandidateController
func NewCandidateController(db *database.DBinstanceStruct, store storage.StorageClient) *CandidateController {
	return &CandidateController{
		DB:      db,
		Storage: store,
	}
}

// GetCandidates lists the candidate pool.
// @Summary List candidates
// @Tags Candidate
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.CandidateDto
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not HR or Manager"
// @Router /candidates [get]
func (cc *CandidateController) GetCandidates(c *gin.Context) {
	candidates, err := listCandidates(cc.DB.WithContext(c.Request.Context()))
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve candidates", err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// GetCandidate returns one candidate.
// @Summary Get candidate by id
// @Tags Candidate
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Success 200 {object} model.CandidateDto
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Router /candidates/{id} [get]
func (cc *CandidateController) GetCandidate(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	candidate, err := getCandidate(cc.DB.WithContext(c.Request.Context()), id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve candidate", err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// CreateCandidate adds a candidate to the pool.
// @Summary Create candidate
// @Description isAvailable defaults to true when omitted
// @Tags Candidate
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Candidate body model.CandidateRequest true "Candidate information"
// @Success 201 {object} model.CandidateDto
// @Failure 400 {object} utilities.ErrorResponse "Invalid body or duplicate email"
// @Router /candidates [post]
func (cc *CandidateController) CreateCandidate(c *gin.Context) {
	var req model.CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	email := strings.TrimSpace(req.Email)
	if err := checkEmail(db, email, 0); err != nil {
		utilities.RespondError(c, "Failed to create candidate", err)
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	candidate := model.Candidate{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             email,
		PhoneNumber:       req.PhoneNumber,
		Address:           req.Address,
		LinkedInProfile:   req.LinkedInProfile,
		GitHubProfile:     req.GitHubProfile,
		Portfolio:         req.Portfolio,
		Summary:           req.Summary,
		YearsOfExperience: req.YearsOfExperience,
		CurrentJobTitle:   req.CurrentJobTitle,
		CurrentCompany:    req.CurrentCompany,
		ExpectedSalary:    req.ExpectedSalary,
		IsAvailable:       available,
		Version:           1,
	}
	if err := db.Create(&candidate).Error; err != nil {
		utilities.RespondError(c, "Failed to create candidate", dupOr(err))
		return
	}

	dto, err := getCandidate(db, candidate.ID)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve candidate", err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// UpdateCandidate replaces the editable fields of a candidate.
// @Summary Update candidate
// @Description A stale version answers 409 with the current version
// @Tags Candidate
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Param Candidate body model.CandidateRequest true "Candidate information"
// @Success 200 {object} model.CandidateDto
// @Failure 400 {object} utilities.ErrorResponse "Invalid body or duplicate email"
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Failure 409 {object} utilities.ConflictResponse "Version conflict"
// @Router /candidates/{id} [put]
func (cc *CandidateController) UpdateCandidate(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req model.CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())

	var current model.Candidate
	if err := db.Select("id", "is_available", "version").First(&current, id).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve candidate", err)
		return
	}
	email := strings.TrimSpace(req.Email)
	if err := checkEmail(db, email, id); err != nil {
		utilities.RespondError(c, "Failed to update candidate", err)
		return
	}

	available := current.IsAvailable
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	expected := current.Version
	if req.Version != nil {
		expected = *req.Version
	}

	_, err = database.UpdateVersioned(db, &model.Candidate{}, id, expected, map[string]interface{}{
		"first_name":          req.FirstName,
		"last_name":           req.LastName,
		"email":               email,
		"phone_number":        req.PhoneNumber,
		"address":             req.Address,
		"linked_in_profile":   req.LinkedInProfile,
		"git_hub_profile":     req.GitHubProfile,
		"portfolio":           req.Portfolio,
		"summary":             req.Summary,
		"years_of_experience": req.YearsOfExperience,
		"current_job_title":   req.CurrentJobTitle,
		"current_company":     req.CurrentCompany,
		"expected_salary":     req.ExpectedSalary,
		"is_available":        available,
	})
	if err != nil {
		utilities.RespondError(c, "Failed to update candidate", dupOr(err))
		return
	}

	dto, err := getCandidate(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve candidate", err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// DeleteCandidate removes a candidate, everything attached to it and its stored files.
// @Summary Delete candidate
// @Tags Candidate
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Router /candidates/{id} [delete]
func (cc *CandidateController) DeleteCandidate(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := deleteCandidate(cc.DB.WithContext(ctx), id); err != nil {
		utilities.RespondError(c, "Failed to delete candidate", err)
		return
	}
	cc.removeObjects(ctx, id)
	c.Status(http.StatusNoContent)
}

// removeObjects drops the stored files of a deleted candidate. Rows are already gone,
// so a storage failure only leaves orphaned objects behind.
func (cc *CandidateController) removeObjects(ctx context.Context, id uint) {
	if cc.Storage == nil {
		return
	}
	if err := cc.Storage.DeletePrefix(ctx, storage.CandidatePrefix(id)); err != nil {
		logging.Logger(ctx).Warn("Failed to delete candidate documents from storage",
			zap.Uint("candidate_id", id), zap.Error(err))
	}
}

// GetCandidateSkills lists the skills of a candidate.
// @Summary List candidate skills
// @Tags Candidate
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Success 200 {array} model.CandidateSkill
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Router /candidates/{id}/skills [get]
func (cc *CandidateController) GetCandidateSkills(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	if err := requireCandidate(db, id); err != nil {
		utilities.RespondError(c, "Failed to retrieve candidate skills", err)
		return
	}
	skills, err := candidateSkills(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve candidate skills", err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

// SetCandidateSkill adds a skill to a candidate or updates it.
// @Summary Add or update a candidate skill
// @Tags Candidate
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Param skillId path int true "Skill id"
// @Param Skill body model.CandidateSkillRequest true "Skill level"
// @Success 200 {array} model.CandidateSkill
// @Failure 404 {object} utilities.ErrorResponse "Candidate or skill not found"
// @Router /candidates/{id}/skills/{skillId} [put]
func (cc *CandidateController) SetCandidateSkill(c *gin.Context) {
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

	var req model.CandidateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	if err := requireCandidate(db, id); err != nil {
		utilities.RespondError(c, "Failed to set candidate skill", err)
		return
	}
	if ok, err := database.Exists(db, &model.Skill{}, skillID); err != nil {
		utilities.RespondError(c, "Failed to set candidate skill", err)
		return
	} else if !ok {
		utilities.RespondError(c, "Failed to set candidate skill", fmt.Errorf("skill %d: %w", skillID, gorm.ErrRecordNotFound))
		return
	}

	link := model.CandidateSkill{
		CandidateID:       id,
		SkillID:           skillID,
		YearsOfExperience: req.YearsOfExperience,
		ProficiencyLevel:  req.ProficiencyLevel,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "skill_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"years_of_experience", "proficiency_level", "updated_at"}),
	}).Create(&link).Error
	if err != nil {
		utilities.RespondError(c, "Failed to set candidate skill", err)
		return
	}

	skills, err := candidateSkills(db, id)
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve candidate skills", err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

// RemoveCandidateSkill detaches a skill from a candidate.
// @Summary Remove a candidate skill
// @Tags Candidate
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Param skillId path int true "Skill id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Candidate skill not found"
// @Router /candidates/{id}/skills/{skillId} [delete]
func (cc *CandidateController) RemoveCandidateSkill(c *gin.Context) {
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

	res := cc.DB.WithContext(c.Request.Context()).
		Where("candidate_id = ? AND skill_id = ?", id, skillID).
		Delete(&model.CandidateSkill{})
	if res.Error != nil {
		utilities.RespondError(c, "Failed to remove candidate skill", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Candidate skill not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func requireCandidate(db *gorm.DB, id uint) error {
	ok, err := database.Exists(db, &model.Candidate{}, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("candidate %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func checkEmail(db *gorm.DB, email string, exceptID uint) error {
	taken, err := emailTaken(db, email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("candidate with email %s: %w", email, model.ErrDuplicate)
	}
	return nil
}

// dupOr turns a unique violation that slipped past checkEmail into ErrDuplicate.
func dupOr(err error) error {
	if utilities.IsUniqueViolation(err) {
		return fmt.Errorf("candidate email: %w", model.ErrDuplicate)
	}
	return err
}
