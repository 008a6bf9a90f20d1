package model

import "time"

// Document is a file uploaded for a candidate, such as a resume.
type Document struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CandidateID   uint      `gorm:"not null;index" json:"candidateId"`
	FileName      string    `gorm:"size:255;not null" json:"fileName"`
	FileType      string    `gorm:"size:50;not null" json:"fileType"`
	FilePath      string    `gorm:"size:500;not null" json:"-"`
	FileSize      int64     `gorm:"not null" json:"fileSize"`
	DocumentType  string    `gorm:"size:50;not null" json:"documentType"`
	ParsedContent *string   `gorm:"type:text" json:"parsedContent,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	ApplicationDocuments []ApplicationDocument `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// ApplicationDocument attaches a candidate document to one of their applications.
type ApplicationDocument struct {
	ApplicationID uint      `gorm:"primaryKey;autoIncrement:false" json:"applicationId"`
	DocumentID    uint      `gorm:"primaryKey;autoIncrement:false" json:"documentId"`
	CreatedAt     time.Time `json:"createdAt"`
}
