// Package seed loads YAML fixtures into the database. Rows that already exist are left untouched,
// so a fixture can be applied any number of times.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"ats-backend/internal/logging"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// Fixture is the document layout of a seed file.
type Fixture struct {
	Skills     []Skill     `yaml:"skills"`
	Users      []User      `yaml:"users"`
	Jobs       []Job       `yaml:"jobs"`
	Candidates []Candidate `yaml:"candidates"`
}

// Skill is keyed by name.
type Skill struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// User is keyed by email.
type User struct {
	FirstName  string `yaml:"firstName"`
	LastName   string `yaml:"lastName"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Role       string `yaml:"role"`
	Department string `yaml:"department"`
	JobTitle   string `yaml:"jobTitle"`
}

// Job is keyed by title and department.
type Job struct {
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	Requirements    string   `yaml:"requirements"`
	Location        string   `yaml:"location"`
	Department      string   `yaml:"department"`
	ExperienceLevel string   `yaml:"experienceLevel"`
	EmploymentType  string   `yaml:"employmentType"`
	Status          string   `yaml:"status"`
	SalaryMin       *float64 `yaml:"salaryMin"`
	SalaryMax       *float64 `yaml:"salaryMax"`
	MaxApplications int      `yaml:"maxApplications"`
	IsRemoteAllowed bool     `yaml:"isRemoteAllowed"`
	HiringManager   string   `yaml:"hiringManager"`
	Skills          []string `yaml:"skills"`
}

// Candidate is keyed by email.
type Candidate struct {
	FirstName         string   `yaml:"firstName"`
	LastName          string   `yaml:"lastName"`
	Email             string   `yaml:"email"`
	PhoneNumber       string   `yaml:"phoneNumber"`
	Summary           string   `yaml:"summary"`
	YearsOfExperience *int     `yaml:"yearsOfExperience"`
	CurrentJobTitle   string   `yaml:"currentJobTitle"`
	CurrentCompany    string   `yaml:"currentCompany"`
	Skills            []string `yaml:"skills"`
}

// Result counts the rows inserted by Apply.
type Result struct {
	Skills     int
	Users      int
	Jobs       int
	Candidates int
}

// Load decodes a fixture, rejecting unknown keys.
func Load(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &f, nil
}

// Apply inserts every missing row of f in a single transaction.
func Apply(ctx context.Context, db *gorm.DB, f *Fixture) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skills := map[string]uint{}
		for _, s := range f.Skills {
			id, created, err := ensureSkill(tx, s)
			if err != nil {
				return err
			}
			skills[strings.ToLower(s.Name)] = id
			if created {
				res.Skills++
			}
		}

		for _, u := range f.Users {
			created, err := ensureUser(tx, u)
			if err != nil {
				return err
			}
			if created {
				res.Users++
			}
		}

		for _, j := range f.Jobs {
			created, err := ensureJob(tx, j, skills)
			if err != nil {
				return err
			}
			if created {
				res.Jobs++
			}
		}

		for _, c := range f.Candidates {
			created, err := ensureCandidate(tx, c, skills)
			if err != nil {
				return err
			}
			if created {
				res.Candidates++
			}
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	logging.Logger(ctx).Info("Fixture applied",
		zap.Int("skills", res.Skills),
		zap.Int("users", res.Users),
		zap.Int("jobs", res.Jobs),
		zap.Int("candidates", res.Candidates))
	return res, nil
}

func ensureSkill(tx *gorm.DB, s Skill) (uint, bool, error) {
	var existing model.Skill
	err := tx.Where("LOWER(name) = LOWER(?)", s.Name).First(&existing).Error
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	skill := model.Skill{Name: s.Name, Category: s.Category, Description: s.Description}
	if err := tx.Create(&skill).Error; err != nil {
		return 0, false, fmt.Errorf("skill %q: %w", s.Name, err)
	}
	return skill.ID, true, nil
}

func exists(tx *gorm.DB, table interface{}, where string, args ...interface{}) (bool, error) {
	var count int64
	if err := tx.Model(table).Where(where, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func ensureUser(tx *gorm.DB, u User) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if ok, err := exists(tx, &model.User{}, "LOWER(email) = ?", email); err != nil || ok {
		return false, err
	}

	role, err := model.ParseUserRole(u.Role)
	if err != nil {
		return false, fmt.Errorf("user %s: %w", email, err)
	}
	if u.Password == "" {
		return false, fmt.Errorf("user %s: password is required", email)
	}
	hash, err := utilities.HashPassword(u.Password)
	if err != nil {
		return false, err
	}

	user := model.User{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		Department:   u.Department,
		JobTitle:     u.JobTitle,
	}
	if err := tx.Create(&user).Error; err != nil {
		return false, fmt.Errorf("user %s: %w", email, err)
	}
	return true, nil
}

func skillIDs(names []string, skills map[string]uint, owner string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, n := range names {
		id, ok := skills[strings.ToLower(n)]
		if !ok {
			return nil, fmt.Errorf("%s: skill %q is not in the fixture", owner, n)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func ensureJob(tx *gorm.DB, j Job, skills map[string]uint) (bool, error) {
	if ok, err := exists(tx, &model.Job{}, "title = ? AND department = ?", j.Title, j.Department); err != nil || ok {
		return false, err
	}

	owner := fmt.Sprintf("job %q", j.Title)
	level, err := model.ParseExperienceLevel(j.ExperienceLevel)
	if err != nil {
		return false, fmt.Errorf("%s: %w", owner, err)
	}
	employment, err := model.ParseEmploymentType(j.EmploymentType)
	if err != nil {
		return false, fmt.Errorf("%s: %w", owner, err)
	}
	status := model.JobStatusActive
	if j.Status != "" {
		if status, err = model.ParseJobStatus(j.Status); err != nil {
			return false, fmt.Errorf("%s: %w", owner, err)
		}
	}
	if !model.SalaryRangeValid(j.SalaryMin, j.SalaryMax) {
		return false, fmt.Errorf("%s: salaryMin exceeds salaryMax", owner)
	}

	var manager model.User
	err = tx.Select("id").Where("LOWER(email) = LOWER(?)", j.HiringManager).First(&manager).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("%s: hiring manager %s: %w", owner, j.HiringManager, model.ErrUnknownReference)
	}
	if err != nil {
		return false, err
	}

	ids, err := skillIDs(j.Skills, skills, owner)
	if err != nil {
		return false, err
	}

	job := model.Job{
		Title:           j.Title,
		Description:     j.Description,
		Requirements:    j.Requirements,
		Location:        j.Location,
		Department:      j.Department,
		ExperienceLevel: level,
		EmploymentType:  employment,
		SalaryMin:       j.SalaryMin,
		SalaryMax:       j.SalaryMax,
		Status:          status,
		MaxApplications: j.MaxApplications,
		IsRemoteAllowed: j.IsRemoteAllowed,
		HiringManagerID: manager.ID,
		Version:         1,
	}
	if err := tx.Create(&job).Error; err != nil {
		return false, fmt.Errorf("%s: %w", owner, err)
	}
	for _, id := range ids {
		if err := tx.Create(&model.JobSkill{JobID: job.ID, SkillID: id, IsRequired: true}).Error; err != nil {
			return false, fmt.Errorf("%s: %w", owner, err)
		}
	}
	return true, nil
}

func ensureCandidate(tx *gorm.DB, c Candidate, skills map[string]uint) (bool, error) {
	email := strings.TrimSpace(c.Email)
	if ok, err := exists(tx, &model.Candidate{}, "LOWER(email) = LOWER(?)", email); err != nil || ok {
		return false, err
	}

	owner := "candidate " + email
	ids, err := skillIDs(c.Skills, skills, owner)
	if err != nil {
		return false, err
	}

	candidate := model.Candidate{
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Email:             email,
		PhoneNumber:       c.PhoneNumber,
		Summary:           c.Summary,
		YearsOfExperience: c.YearsOfExperience,
		CurrentJobTitle:   c.CurrentJobTitle,
		CurrentCompany:    c.CurrentCompany,
		IsAvailable:       true,
		Version:           1,
	}
	if err := tx.Create(&candidate).Error; err != nil {
		return false, fmt.Errorf("%s: %w", owner, err)
	}
	for _, id := range ids {
		if err := tx.Create(&model.CandidateSkill{CandidateID: candidate.ID, SkillID: id, ProficiencyLevel: 3}).Error; err != nil {
			return false, fmt.Errorf("%s: %w", owner, err)
		}
	}
	return true, nil
}
