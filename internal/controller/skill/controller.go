// Package skill provides HTTP handlers for the shared skill catalogue.
package skill

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ats-backend/internal/database"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// SkillController handles skill related endpoints
type SkillController struct {
	DB *database.DBinstanceStruct
}

// NewSkillController creates a new instance of SkillController
func NewSkillController(db *database.DBinstanceStruct) *SkillController {
	return &SkillController{DB: db}
}

// GetSkills lists the catalogue ordered by category and name.
// @Summary List skills
// @Tags Skill
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Skill
// @Router /skills [get]
func (sc *SkillController) GetSkills(c *gin.Context) {
	skills := []model.Skill{}
	if err := sc.DB.WithContext(c.Request.Context()).Order("category, name").Find(&skills).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve skills", err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

// CreateSkill adds a skill to the catalogue.
// @Summary Create skill
// @Tags Skill
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Skill body model.SkillRequest true "Skill"
// @Success 201 {object} model.Skill
// @Failure 400 {object} utilities.ErrorResponse "Invalid body or duplicate name"
// @Router /skills [post]
func (sc *SkillController) CreateSkill(c *gin.Context) {
	var req model.SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	db := sc.DB.WithContext(c.Request.Context())
	name := strings.TrimSpace(req.Name)

	var count int64
	if err := db.Model(&model.Skill{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		utilities.RespondError(c, "Failed to create skill", err)
		return
	}
	if count > 0 {
		utilities.RespondError(c, "Failed to create skill", fmt.Errorf("skill %q: %w", name, model.ErrDuplicate))
		return
	}

	skill := model.Skill{
		Name:        name,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := db.Create(&skill).Error; err != nil {
		utilities.RespondError(c, "Failed to create skill", err)
		return
	}
	c.JSON(http.StatusCreated, skill)
}

// DeleteSkill removes a skill and detaches it from every job and candidate.
// @Summary Delete skill
// @Tags Skill
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Skill id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Skill not found"
// @Router /skills/{id} [delete]
func (sc *SkillController) DeleteSkill(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	err = sc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var skill model.Skill
		if err := tx.Select("id").First(&skill, id).Error; err != nil {
			return err
		}
		if err := tx.Where("skill_id = ?", id).Delete(&model.JobSkill{}).Error; err != nil {
			return err
		}
		if err := tx.Where("skill_id = ?", id).Delete(&model.CandidateSkill{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Skill{}, id).Error
	})
	if err != nil {
		utilities.RespondError(c, "Failed to delete skill", err)
		return
	}
	c.Status(http.StatusNoContent)
}
