package interview

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ats-backend/internal/database"
	"ats-backend/internal/model"
)

const interviewColumns = `i.id, i.application_id, i.interviewer_id,
	COALESCE(u.first_name || ' ' || u.last_name, '') AS interviewer_name,
	a.candidate_id, c.first_name || ' ' || c.last_name AS candidate_name, c.email AS candidate_email,
	a.job_id, j.title AS job_title,
	i.type, i.status, i.scheduled_date_time, i.duration_minutes, i.location, i.meeting_link,
	i.notes, i.feedback, i.rating, i.recommendation, i.version, i.created_at, i.updated_at`

func interviewQuery(db *gorm.DB) *gorm.DB {
	return db.Table("interviews AS i").
		Select(interviewColumns).
		Joins("JOIN applications a ON a.id = i.application_id").
		Joins("JOIN candidates c ON c.id = a.candidate_id").
		Joins("JOIN jobs j ON j.id = a.job_id").
		Joins("LEFT JOIN users u ON u.id = i.interviewer_id")
}

func listInterviews(db *gorm.DB, where string, args ...interface{}) ([]model.InterviewDto, error) {
	q := interviewQuery(db)
	if where != "" {
		q = q.Where(where, args...)
	}
	interviews := []model.InterviewDto{}
	if err := q.Order("i.id").Scan(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

func getInterview(db *gorm.DB, id uint) (model.InterviewDto, error) {
	var interview model.InterviewDto
	res := interviewQuery(db).Where("i.id = ?", id).Limit(1).Scan(&interview)
	if res.Error != nil {
		return interview, res.Error
	}
	if res.RowsAffected == 0 {
		return interview, gorm.ErrRecordNotFound
	}
	return interview, nil
}

// createInterview schedules an interview for an application that is still open.
func createInterview(db *gorm.DB, req model.CreateInterviewRequest) (uint, error) {
	var application model.Application
	err := db.Select("id", "status").First(&application, req.ApplicationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("application %d: %w", req.ApplicationID, model.ErrUnknownReference)
	}
	if err != nil {
		return 0, err
	}
	if ok, err := database.Exists(db, &model.User{}, req.InterviewerID); err != nil {
		return 0, err
	} else if !ok {
		return 0, fmt.Errorf("interviewer %d: %w", req.InterviewerID, model.ErrUnknownReference)
	}
	if application.Status.Terminal() {
		return 0, fmt.Errorf("application status is %s: %w", application.Status, model.ErrApplicationClosed)
	}

	interview := model.Interview{
		ApplicationID:     req.ApplicationID,
		InterviewerID:     req.InterviewerID,
		Type:              req.Type,
		Status:            model.InterviewStatusScheduled,
		ScheduledDateTime: req.ScheduledDateTime.UTC(),
		DurationMinutes:   req.DurationMinutes,
		Location:          req.Location,
		MeetingLink:       req.MeetingLink,
		Notes:             req.Notes,
		Version:           1,
	}
	if err := db.Create(&interview).Error; err != nil {
		return 0, err
	}
	return interview.ID, nil
}
