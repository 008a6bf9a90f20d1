package model

import "time"

// Interview is a scheduled conversation for one application.
type Interview struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	ApplicationID     uint            `gorm:"not null;index" json:"applicationId"`
	InterviewerID     uint            `gorm:"not null;index" json:"interviewerId"`
	Interviewer       *User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Type              InterviewType   `gorm:"not null" json:"type"`
	Status            InterviewStatus `gorm:"not null;index" json:"status"`
	ScheduledDateTime time.Time       `gorm:"not null;index" json:"scheduledDateTime"`
	DurationMinutes   int             `gorm:"not null" json:"durationMinutes"`
	Location          string          `gorm:"size:200" json:"location"`
	MeetingLink       string          `gorm:"size:500" json:"meetingLink"`
	Notes             string          `gorm:"type:text" json:"notes"`
	Feedback          string          `gorm:"type:text" json:"feedback"`
	Rating            *int            `json:"rating"`
	Recommendation    string          `gorm:"size:100" json:"recommendation"`
	Version           uint            `gorm:"not null;default:1" json:"version"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// InterviewDto is the read projection of an interview.
type InterviewDto struct {
	ID                uint            `json:"id"`
	ApplicationID     uint            `json:"applicationId"`
	InterviewerID     uint            `json:"interviewerId"`
	InterviewerName   string          `json:"interviewerName"`
	CandidateID       uint            `json:"candidateId"`
	CandidateName     string          `json:"candidateName"`
	CandidateEmail    string          `json:"candidateEmail"`
	JobID             uint            `json:"jobId"`
	JobTitle          string          `json:"jobTitle"`
	Type              InterviewType   `json:"type"`
	Status            InterviewStatus `json:"status"`
	ScheduledDateTime time.Time       `json:"scheduledDateTime"`
	DurationMinutes   int             `json:"durationMinutes"`
	Location          string          `json:"location"`
	MeetingLink       string          `json:"meetingLink"`
	Notes             string          `json:"notes"`
	Feedback          string          `json:"feedback"`
	Rating            *int            `json:"rating"`
	Recommendation    string          `json:"recommendation"`
	Version           uint            `json:"version"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// CreateInterviewRequest is the accepted body of an interview create.
type CreateInterviewRequest struct {
	ApplicationID     uint          `json:"applicationId" binding:"required"`
	InterviewerID     uint          `json:"interviewerId" binding:"required"`
	Type              InterviewType `json:"type" binding:"required"`
	ScheduledDateTime time.Time     `json:"scheduledDateTime" binding:"required"`
	DurationMinutes   int           `json:"durationMinutes" binding:"required,gt=0"`
	Location          string        `json:"location" binding:"max=200"`
	MeetingLink       string        `json:"meetingLink" binding:"max=500"`
	Notes             string        `json:"notes"`
}

// UpdateInterviewRequest is the accepted body of an interview update.
type UpdateInterviewRequest struct {
	Status            InterviewStatus `json:"status" binding:"required"`
	ScheduledDateTime time.Time       `json:"scheduledDateTime" binding:"required"`
	DurationMinutes   int             `json:"durationMinutes" binding:"required,gt=0"`
	Location          string          `json:"location" binding:"max=200"`
	MeetingLink       string          `json:"meetingLink" binding:"max=500"`
	Notes             string          `json:"notes"`
	Feedback          string          `json:"feedback"`
	Rating            *int            `json:"rating" binding:"omitempty,min=1,max=5"`
	Recommendation    string          `json:"recommendation" binding:"max=100"`
	Version           *uint           `json:"version"`
}
