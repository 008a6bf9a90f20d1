package model

import "time"

// Application links a candidate to a job and tracks the hiring pipeline.
type Application struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	JobID         uint              `gorm:"not null;uniqueIndex:idx_application_job_candidate" json:"jobId"`
	CandidateID   uint              `gorm:"not null;uniqueIndex:idx_application_job_candidate;index" json:"candidateId"`
	Status        ApplicationStatus `gorm:"not null;index" json:"status"`
	CoverLetter   string            `gorm:"type:text" json:"coverLetter"`
	Notes         string            `gorm:"type:text" json:"notes"`
	AppliedDate   time.Time         `gorm:"not null;index" json:"appliedDate"`
	Rating        *int              `json:"rating"`
	ReviewerNotes string            `gorm:"type:text" json:"reviewerNotes"`
	ReviewerID    *uint             `gorm:"index" json:"reviewerId"`
	Reviewer      *User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Version       uint              `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`

	Interviews           []Interview           `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	ApplicationDocuments []ApplicationDocument `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// ApplicationDto is the read projection of an application.
type ApplicationDto struct {
	ID             uint              `json:"id"`
	JobID          uint              `json:"jobId"`
	JobTitle       string            `json:"jobTitle"`
	CandidateID    uint              `json:"candidateId"`
	CandidateName  string            `json:"candidateName"`
	CandidateEmail string            `json:"candidateEmail"`
	Status         ApplicationStatus `json:"status"`
	CoverLetter    string            `json:"coverLetter"`
	Notes          string            `json:"notes"`
	AppliedDate    time.Time         `json:"appliedDate"`
	Rating         *int              `json:"rating"`
	ReviewerNotes  string            `json:"reviewerNotes"`
	ReviewerID     *uint             `json:"reviewerId"`
	ReviewerName   string            `json:"reviewerName"`
	Version        uint              `json:"version"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	InterviewCount int               `json:"interviewCount"`
}

// CreateApplicationRequest is the accepted body of an application create.
type CreateApplicationRequest struct {
	JobID       uint   `json:"jobId" binding:"required"`
	CandidateID uint   `json:"candidateId" binding:"required"`
	CoverLetter string `json:"coverLetter"`
	Notes       string `json:"notes"`
}

// UpdateApplicationRequest is the accepted body of an application update.
// Job and candidate can not be changed after create.
type UpdateApplicationRequest struct {
	Status        ApplicationStatus `json:"status" binding:"required"`
	Notes         string            `json:"notes"`
	Rating        *int              `json:"rating" binding:"omitempty,min=1,max=5"`
	ReviewerNotes string            `json:"reviewerNotes"`
	ReviewerID    *uint             `json:"reviewerId"`
	Version       *uint             `json:"version"`
}
