package model

import (
	"time"

	"gorm.io/datatypes"
)

// Experience is a past or current position held by a candidate.
type Experience struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CandidateID  uint       `gorm:"not null;index" json:"candidateId"`
	JobTitle     string     `gorm:"size:200;not null" json:"jobTitle"`
	Company      string     `gorm:"size:200;not null" json:"company"`
	Location     string     `gorm:"size:200" json:"location"`
	StartDate    time.Time  `gorm:"not null" json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	IsCurrent    bool       `gorm:"not null" json:"isCurrent"`
	Description  string     `gorm:"type:text" json:"description"`
	Achievements string     `gorm:"type:text" json:"achievements"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Education is a degree or course of study. Dates are calendar dates.
type Education struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CandidateID  uint            `gorm:"not null;index" json:"candidateId"`
	Institution  string          `gorm:"size:200;not null" json:"institution"`
	Degree       string          `gorm:"size:200;not null" json:"degree"`
	FieldOfStudy string          `gorm:"size:200" json:"fieldOfStudy"`
	StartDate    *datatypes.Date `json:"startDate"`
	EndDate      *datatypes.Date `json:"endDate"`
	Grade        string          `gorm:"size:50" json:"grade"`
	Description  string          `gorm:"type:text" json:"description"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ExperienceRequest is the accepted body of an experience create.
type ExperienceRequest struct {
	JobTitle     string     `json:"jobTitle" binding:"required,max=200"`
	Company      string     `json:"company" binding:"required,max=200"`
	Location     string     `json:"location" binding:"max=200"`
	StartDate    time.Time  `json:"startDate" binding:"required"`
	EndDate      *time.Time `json:"endDate"`
	IsCurrent    bool       `json:"isCurrent"`
	Description  string     `json:"description"`
	Achievements string     `json:"achievements"`
}

// EducationRequest is the accepted body of an education create.
type EducationRequest struct {
	Institution  string     `json:"institution" binding:"required,max=200"`
	Degree       string     `json:"degree" binding:"required,max=200"`
	FieldOfStudy string     `json:"fieldOfStudy" binding:"max=200"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	Grade        string     `json:"grade" binding:"max=50"`
	Description  string     `json:"description"`
}

// DateOf truncates t to a calendar date. A nil input gives nil.
func DateOf(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	return &d
}
