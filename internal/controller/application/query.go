package application

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ats-backend/internal/database"
	"ats-backend/internal/model"
)

const applicationColumns = `a.id, a.job_id, j.title AS job_title, a.candidate_id,
	c.first_name || ' ' || c.last_name AS candidate_name, c.email AS candidate_email,
	a.status, a.cover_letter, a.notes, a.applied_date, a.rating, a.reviewer_notes, a.reviewer_id,
	COALESCE(r.first_name || ' ' || r.last_name, '') AS reviewer_name,
	a.version, a.created_at, a.updated_at,
	(SELECT COUNT(*) FROM interviews i WHERE i.application_id = a.id) AS interview_count`

func applicationQuery(db *gorm.DB) *gorm.DB {
	return db.Table("applications AS a").
		Select(applicationColumns).
		Joins("JOIN jobs j ON j.id = a.job_id").
		Joins("JOIN candidates c ON c.id = a.candidate_id").
		Joins("LEFT JOIN users r ON r.id = a.reviewer_id")
}

func listApplications(db *gorm.DB, where string, args ...interface{}) ([]model.ApplicationDto, error) {
	q := applicationQuery(db)
	if where != "" {
		q = q.Where(where, args...)
	}
	applications := []model.ApplicationDto{}
	if err := q.Order("a.id").Scan(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func getApplication(db *gorm.DB, id uint) (model.ApplicationDto, error) {
	var application model.ApplicationDto
	res := applicationQuery(db).Where("a.id = ?", id).Limit(1).Scan(&application)
	if res.Error != nil {
		return application, res.Error
	}
	if res.RowsAffected == 0 {
		return application, gorm.ErrRecordNotFound
	}
	return application, nil
}

// createApplication inserts a new application for an Active job, holding the job row
// while the capacity and duplicate checks run.
func createApplication(db *gorm.DB, req model.CreateApplicationRequest, now func() time.Time) (uint, error) {
	var id uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var job model.Job
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status", "max_applications").
			First(&job, req.JobID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("job %d: %w", req.JobID, model.ErrUnknownReference)
		}
		if err != nil {
			return err
		}

		if ok, err := database.Exists(tx, &model.Candidate{}, req.CandidateID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("candidate %d: %w", req.CandidateID, model.ErrUnknownReference)
		}

		if job.Status != model.JobStatusActive {
			return fmt.Errorf("job status is %s: %w", job.Status, model.ErrJobNotAccepting)
		}

		var existing int64
		if err := tx.Model(&model.Application{}).
			Where("job_id = ? AND candidate_id = ?", req.JobID, req.CandidateID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("candidate %d already applied to job %d: %w", req.CandidateID, req.JobID, model.ErrDuplicate)
		}

		if job.MaxApplications > 0 {
			var count int64
			if err := tx.Model(&model.Application{}).Where("job_id = ?", req.JobID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(job.MaxApplications) {
				return fmt.Errorf("limit %d: %w", job.MaxApplications, model.ErrMaxApplications)
			}
		}

		application := model.Application{
			JobID:       req.JobID,
			CandidateID: req.CandidateID,
			Status:      model.ApplicationStatusApplied,
			CoverLetter: req.CoverLetter,
			Notes:       req.Notes,
			AppliedDate: now().UTC(),
			Version:     1,
		}
		if err := tx.Create(&application).Error; err != nil {
			return err
		}
		id = application.ID
		return nil
	})
	return id, err
}

func deleteApplication(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var application model.Application
		if err := tx.Select("id").First(&application, id).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", id).Delete(&model.ApplicationDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", id).Delete(&model.Interview{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Application{}, id).Error
	})
}

// linkDocument attaches a document to an application of the same candidate.
func linkDocument(db *gorm.DB, applicationID, documentID uint) error {
	var application model.Application
	if err := db.Select("id", "candidate_id").First(&application, applicationID).Error; err != nil {
		return err
	}
	var document model.Document
	if err := db.Select("id", "candidate_id").First(&document, documentID).Error; err != nil {
		return err
	}
	if document.CandidateID != application.CandidateID {
		return fmt.Errorf("document %d belongs to another candidate: %w", documentID, model.ErrUnknownReference)
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ApplicationDocument{ApplicationID: applicationID, DocumentID: documentID}).Error
}

func applicationDocuments(db *gorm.DB, applicationID uint) ([]model.Document, error) {
	documents := []model.Document{}
	err := db.Model(&model.Document{}).
		Joins("JOIN application_documents ad ON ad.document_id = documents.id").
		Where("ad.application_id = ?", applicationID).
		Order("documents.id").
		Find(&documents).Error
	return documents, err
}
