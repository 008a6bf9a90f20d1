package candidate

import (
	"gorm.io/gorm"

	"ats-backend/internal/model"
)

const candidateColumns = `c.id, c.first_name, c.last_name, c.email, c.phone_number, c.address,
	c.linked_in_profile, c.git_hub_profile, c.portfolio, c.summary, c.years_of_experience,
	c.current_job_title, c.current_company, c.expected_salary, c.is_available, c.version,
	c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM applications a WHERE a.candidate_id = c.id) AS application_count`

func candidateQuery(db *gorm.DB) *gorm.DB {
	return db.Table("candidates AS c").Select(candidateColumns)
}

type skillName struct {
	CandidateID uint
	Name        string
}

// attachSkills fills the Skills names of every candidate with one query.
func attachSkills(db *gorm.DB, candidates []model.CandidateDto) error {
	if len(candidates) == 0 {
		return nil
	}
	ids := make([]uint, len(candidates))
	for i := range candidates {
		ids[i] = candidates[i].ID
	}

	var rows []skillName
	err := db.Table("candidate_skills AS cs").
		Select("cs.candidate_id, s.name").
		Joins("JOIN skills s ON s.id = cs.skill_id").
		Where("cs.candidate_id IN ?", ids).
		Order("s.name").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byCandidate := make(map[uint][]string, len(candidates))
	for _, row := range rows {
		byCandidate[row.CandidateID] = append(byCandidate[row.CandidateID], row.Name)
	}
	for i := range candidates {
		candidates[i].Skills = byCandidate[candidates[i].ID]
		if candidates[i].Skills == nil {
			candidates[i].Skills = []string{}
		}
	}
	return nil
}

func listCandidates(db *gorm.DB) ([]model.CandidateDto, error) {
	candidates := []model.CandidateDto{}
	if err := candidateQuery(db).Order("c.id").Scan(&candidates).Error; err != nil {
		return nil, err
	}
	if err := attachSkills(db, candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

func getCandidate(db *gorm.DB, id uint) (model.CandidateDto, error) {
	var candidate model.CandidateDto
	res := candidateQuery(db).Where("c.id = ?", id).Limit(1).Scan(&candidate)
	if res.Error != nil {
		return candidate, res.Error
	}
	if res.RowsAffected == 0 {
		return candidate, gorm.ErrRecordNotFound
	}

	one := []model.CandidateDto{candidate}
	if err := attachSkills(db, one); err != nil {
		return candidate, err
	}
	return one[0], nil
}

// emailTaken reports whether another candidate than exceptID already uses email.
func emailTaken(db *gorm.DB, email string, exceptID uint) (bool, error) {
	var count int64
	err := db.Model(&model.Candidate{}).
		Where("LOWER(email) = LOWER(?) AND id <> ?", email, exceptID).
		Count(&count).Error
	return count > 0, err
}

// deleteCandidate removes a candidate with its applications, their interviews,
// its documents and every profile row.
func deleteCandidate(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var candidate model.Candidate
		if err := tx.Select("id").First(&candidate, id).Error; err != nil {
			return err
		}

		appIDs := tx.Model(&model.Application{}).Select("id").Where("candidate_id = ?", id)
		docIDs := tx.Model(&model.Document{}).Select("id").Where("candidate_id = ?", id)

		if err := tx.Where("application_id IN (?) OR document_id IN (?)", appIDs, docIDs).
			Delete(&model.ApplicationDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id IN (?)", appIDs).Delete(&model.Interview{}).Error; err != nil {
			return err
		}

		for _, table := range []interface{}{
			&model.Application{},
			&model.Document{},
			&model.CandidateSkill{},
			&model.Experience{},
			&model.Education{},
		} {
			if err := tx.Where("candidate_id = ?", id).Delete(table).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Candidate{}, id).Error
	})
}

func candidateSkills(db *gorm.DB, candidateID uint) ([]model.CandidateSkill, error) {
	skills := []model.CandidateSkill{}
	err := db.Where("candidate_id = ?", candidateID).Order("skill_id").Find(&skills).Error
	return skills, err
}
