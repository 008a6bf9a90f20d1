package model

import "time"

// Candidate is a person in the talent pool.
type Candidate struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	FirstName         string    `gorm:"size:100;not null" json:"firstName"`
	LastName          string    `gorm:"size:100;not null" json:"lastName"`
	Email             string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PhoneNumber       string    `gorm:"size:50" json:"phoneNumber"`
	Address           string    `gorm:"size:500" json:"address"`
	LinkedInProfile   string    `gorm:"size:500" json:"linkedInProfile"`
	GitHubProfile     string    `gorm:"size:500" json:"gitHubProfile"`
	Portfolio         string    `gorm:"size:500" json:"portfolio"`
	Summary           string    `gorm:"type:text" json:"summary"`
	YearsOfExperience *int      `json:"yearsOfExperience"`
	CurrentJobTitle   string    `gorm:"size:200" json:"currentJobTitle"`
	CurrentCompany    string    `gorm:"size:200" json:"currentCompany"`
	ExpectedSalary    *float64  `gorm:"type:decimal(18,2)" json:"expectedSalary"`
	IsAvailable       bool      `gorm:"not null" json:"isAvailable"`
	Version           uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Applications    []Application    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CandidateSkills []CandidateSkill `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Experiences     []Experience     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Educations      []Education      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Documents       []Document       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// FullName joins first and last name.
func (c Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CandidateDto is the read projection of a candidate.
type CandidateDto struct {
	ID                uint      `json:"id"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	PhoneNumber       string    `json:"phoneNumber"`
	Address           string    `json:"address"`
	LinkedInProfile   string    `json:"linkedInProfile"`
	GitHubProfile     string    `json:"gitHubProfile"`
	Portfolio         string    `json:"portfolio"`
	Summary           string    `json:"summary"`
	YearsOfExperience *int      `json:"yearsOfExperience"`
	CurrentJobTitle   string    `json:"currentJobTitle"`
	CurrentCompany    string    `json:"currentCompany"`
	ExpectedSalary    *float64  `json:"expectedSalary"`
	IsAvailable       bool      `json:"isAvailable"`
	Version           uint      `json:"version"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	ApplicationCount  int       `json:"applicationCount"`
	Skills            []string  `gorm:"-" json:"skills"`
}

// CandidateRequest is the accepted body of a candidate create or update.
// IsAvailable defaults to true on create when omitted.
type CandidateRequest struct {
	FirstName         string   `json:"firstName" binding:"required,max=100"`
	LastName          string   `json:"lastName" binding:"required,max=100"`
	Email             string   `json:"email" binding:"required,email,max=255"`
	PhoneNumber       string   `json:"phoneNumber" binding:"max=50"`
	Address           string   `json:"address" binding:"max=500"`
	LinkedInProfile   string   `json:"linkedInProfile" binding:"max=500"`
	GitHubProfile     string   `json:"gitHubProfile" binding:"max=500"`
	Portfolio         string   `json:"portfolio" binding:"max=500"`
	Summary           string   `json:"summary"`
	YearsOfExperience *int     `json:"yearsOfExperience" binding:"omitempty,gte=0"`
	CurrentJobTitle   string   `json:"currentJobTitle" binding:"max=200"`
	CurrentCompany    string   `json:"currentCompany" binding:"max=200"`
	ExpectedSalary    *float64 `json:"expectedSalary" binding:"omitempty,gte=0"`
	IsAvailable       *bool    `json:"isAvailable"`
	Version           *uint    `json:"version"`
}
