package job

import (
	"gorm.io/gorm"

	"ats-backend/internal/model"
)

const jobColumns = `j.id, j.title, j.description, j.requirements, j.location, j.department,
	j.experience_level, j.employment_type, j.salary_min, j.salary_max, j.status, j.closing_date,
	j.max_applications, j.is_remote_allowed, j.hiring_manager_id, j.version, j.created_at, j.updated_at,
	COALESCE(u.first_name || ' ' || u.last_name, '') AS hiring_manager_name,
	(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id) AS application_count`

func jobQuery(db *gorm.DB) *gorm.DB {
	return db.Table("jobs AS j").
		Select(jobColumns).
		Joins("LEFT JOIN users u ON u.id = j.hiring_manager_id")
}

func listJobs(db *gorm.DB) ([]model.JobDto, error) {
	jobs := []model.JobDto{}
	if err := jobQuery(db).Order("j.id").Scan(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func getJob(db *gorm.DB, id uint) (model.JobDto, error) {
	var job model.JobDto
	res := jobQuery(db).Where("j.id = ?", id).Limit(1).Scan(&job)
	if res.Error != nil {
		return job, res.Error
	}
	if res.RowsAffected == 0 {
		return job, gorm.ErrRecordNotFound
	}

	skills, err := jobSkills(db, id)
	if err != nil {
		return job, err
	}
	job.Skills = skills
	return job, nil
}

func jobSkills(db *gorm.DB, jobID uint) ([]model.JobSkillDto, error) {
	skills := []model.JobSkillDto{}
	err := db.Table("job_skills AS js").
		Select("js.skill_id, s.name, js.is_required, js.years_of_experience").
		Joins("JOIN skills s ON s.id = js.skill_id").
		Where("js.job_id = ?", jobID).
		Order("s.name").
		Scan(&skills).Error
	return skills, err
}

// deleteJob removes a job together with its applications, their interviews and document links, and its skills.
func deleteJob(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var job model.Job
		if err := tx.Select("id").First(&job, id).Error; err != nil {
			return err
		}

		appIDs := tx.Model(&model.Application{}).Select("id").Where("job_id = ?", id)
		if err := tx.Where("application_id IN (?)", appIDs).Delete(&model.ApplicationDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id IN (?)", appIDs).Delete(&model.Interview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&model.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&model.JobSkill{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Job{}, id).Error
	})
}
