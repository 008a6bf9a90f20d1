package model

import "time"

// Skill is a named competence shared by jobs and candidates.
type Skill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category    string    `gorm:"size:50;not null" json:"category"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	JobSkills       []JobSkill       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CandidateSkills []CandidateSkill `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// JobSkill attaches a skill to a job.
type JobSkill struct {
	JobID             uint      `gorm:"primaryKey;autoIncrement:false" json:"jobId"`
	SkillID           uint      `gorm:"primaryKey;autoIncrement:false" json:"skillId"`
	IsRequired        bool      `gorm:"not null" json:"isRequired"`
	YearsOfExperience int       `gorm:"not null" json:"yearsOfExperience"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CandidateSkill attaches a skill to a candidate.
type CandidateSkill struct {
	CandidateID       uint      `gorm:"primaryKey;autoIncrement:false" json:"candidateId"`
	SkillID           uint      `gorm:"primaryKey;autoIncrement:false" json:"skillId"`
	YearsOfExperience int       `gorm:"not null" json:"yearsOfExperience"`
	ProficiencyLevel  int       `gorm:"not null" json:"proficiencyLevel"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// SkillRequest is the accepted body of a skill create.
type SkillRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Category    string `json:"category" binding:"required,max=50"`
	Description string `json:"description" binding:"max=500"`
}

// JobSkillRequest sets the requirement attributes of a job skill.
type JobSkillRequest struct {
	IsRequired        bool `json:"isRequired"`
	YearsOfExperience int  `json:"yearsOfExperience" binding:"gte=0"`
}

// CandidateSkillRequest sets the attributes of a candidate skill.
type CandidateSkillRequest struct {
	YearsOfExperience int `json:"yearsOfExperience" binding:"gte=0"`
	ProficiencyLevel  int `json:"proficiencyLevel" binding:"required,min=1,max=5"`
}
