package model

import "time"

// Job is an opening that candidates apply to.
type Job struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Title           string          `gorm:"size:200;not null" json:"title"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	Requirements    string          `gorm:"type:text;not null" json:"requirements"`
	Location        string          `gorm:"size:200;not null" json:"location"`
	Department      string          `gorm:"size:100;not null;index" json:"department"`
	ExperienceLevel ExperienceLevel `gorm:"not null" json:"experienceLevel"`
	EmploymentType  EmploymentType  `gorm:"not null" json:"employmentType"`
	SalaryMin       *float64        `gorm:"type:decimal(18,2)" json:"salaryMin"`
	SalaryMax       *float64        `gorm:"type:decimal(18,2)" json:"salaryMax"`
	Status          JobStatus       `gorm:"not null;index" json:"status"`
	ClosingDate     *time.Time      `json:"closingDate"`
	MaxApplications int             `gorm:"not null" json:"maxApplications"`
	IsRemoteAllowed bool            `gorm:"not null" json:"isRemoteAllowed"`
	HiringManagerID uint            `gorm:"not null;index" json:"hiringManagerId"`
	HiringManager   *User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Version         uint            `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Applications []Application `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	JobSkills    []JobSkill    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// JobDto is the read projection of a job.
type JobDto struct {
	ID                uint            `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Requirements      string          `json:"requirements"`
	Location          string          `json:"location"`
	Department        string          `json:"department"`
	ExperienceLevel   ExperienceLevel `json:"experienceLevel"`
	EmploymentType    EmploymentType  `json:"employmentType"`
	SalaryMin         *float64        `json:"salaryMin"`
	SalaryMax         *float64        `json:"salaryMax"`
	Status            JobStatus       `json:"status"`
	ClosingDate       *time.Time      `json:"closingDate"`
	MaxApplications   int             `json:"maxApplications"`
	IsRemoteAllowed   bool            `json:"isRemoteAllowed"`
	HiringManagerID   uint            `json:"hiringManagerId"`
	HiringManagerName string          `json:"hiringManagerName"`
	Version           uint            `json:"version"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	ApplicationCount  int             `json:"applicationCount"`
	Skills            []JobSkillDto   `gorm:"-" json:"skills"`
}

// JobSkillDto names a skill attached to a job.
type JobSkillDto struct {
	SkillID           uint   `json:"skillId"`
	Name              string `json:"name"`
	IsRequired        bool   `json:"isRequired"`
	YearsOfExperience int    `json:"yearsOfExperience"`
}

// CreateJobRequest is the accepted body of a job create. Status is not accepted, new jobs are Active.
type CreateJobRequest struct {
	Title           string          `json:"title" binding:"required,max=200"`
	Description     string          `json:"description" binding:"required"`
	Requirements    string          `json:"requirements" binding:"required"`
	Location        string          `json:"location" binding:"required,max=200"`
	Department      string          `json:"department" binding:"required,max=100"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel" binding:"required"`
	EmploymentType  EmploymentType  `json:"employmentType" binding:"required"`
	SalaryMin       *float64        `json:"salaryMin" binding:"omitempty,gte=0"`
	SalaryMax       *float64        `json:"salaryMax" binding:"omitempty,gte=0"`
	ClosingDate     *time.Time      `json:"closingDate"`
	MaxApplications int             `json:"maxApplications" binding:"gte=0"`
	IsRemoteAllowed bool            `json:"isRemoteAllowed"`
	HiringManagerID uint            `json:"hiringManagerId" binding:"required"`
}

// UpdateJobRequest is the accepted body of a job update.
type UpdateJobRequest struct {
	Title           string          `json:"title" binding:"required,max=200"`
	Description     string          `json:"description" binding:"required"`
	Requirements    string          `json:"requirements" binding:"required"`
	Location        string          `json:"location" binding:"required,max=200"`
	Department      string          `json:"department" binding:"required,max=100"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel" binding:"required"`
	EmploymentType  EmploymentType  `json:"employmentType" binding:"required"`
	SalaryMin       *float64        `json:"salaryMin" binding:"omitempty,gte=0"`
	SalaryMax       *float64        `json:"salaryMax" binding:"omitempty,gte=0"`
	Status          JobStatus       `json:"status" binding:"required"`
	ClosingDate     *time.Time      `json:"closingDate"`
	MaxApplications int             `json:"maxApplications" binding:"gte=0"`
	IsRemoteAllowed bool            `json:"isRemoteAllowed"`
	Version         *uint           `json:"version"`
}

// SalaryRangeValid reports whether min does not exceed max when both are given.
func SalaryRangeValid(minSalary, maxSalary *float64) bool {
	return minSalary == nil || maxSalary == nil || *minSalary <= *maxSalary
}
