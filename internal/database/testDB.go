package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ats-backend/internal/config"
	m "ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct

// Exported seeded fixtures
var (
	TestHRUser        m.User
	TestManagerUser   m.User
	TestCandidateUser m.User
	TestInactiveUser  m.User

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	TestSkillGo  m.Skill
	TestSkillSQL m.Skill

	TestJobActive m.Job
	TestJobDraft  m.Job

	TestCandidate1 m.Candidate
	TestCandidate2 m.Candidate

	TestApplication1 m.Application
	TestInterview1   m.Interview
)

// GetTestDB returns a shared in-memory SQLite database seeded with the exported fixtures,
// and a teardown function closing it.
func GetTestDB() (func(context.Context) error, *DBinstanceStruct, error) {
	if testDBInstance != nil {
		return teardownFunc(testDBInstance), testDBInstance, nil
	}

	db, err := NewTestDB(true)
	if err != nil {
		return nil, nil, err
	}

	testDBInstance = db
	return teardownFunc(db), db, nil
}

// NewTestDB opens a private in-memory SQLite database, migrated and optionally seeded.
func NewTestDB(seed bool) (*DBinstanceStruct, error) {
	cfg := &DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:ats_%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
	}

	db, err := NewDBInstance(cfg)
	if err != nil {
		return nil, err
	}

	if seed {
		if err := seedTestData(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func teardownFunc(db *DBinstanceStruct) func(context.Context) error {
	return func(context.Context) error {
		return db.Close()
	}
}

// seedTestData inserts a small, fully linked data set.
func seedTestData(db *DBinstanceStruct) error {
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := []m.User{
		{FirstName: "Sarah", LastName: "Wilson", Email: "hr@ats.test", Role: m.RoleHR, Department: "Human Resources", JobTitle: "HR Manager"},
		{FirstName: "John", LastName: "Smith", Email: "manager@ats.test", Role: m.RoleManager, Department: "Engineering", JobTitle: "Engineering Manager"},
		{FirstName: "Jane", LastName: "Doe", Email: "candidate@ats.test", Role: m.RoleCandidate, JobTitle: "Software Engineer"},
		{FirstName: "Ian", LastName: "Former", Email: "inactive@ats.test", Role: m.RoleHR, Department: "Human Resources"},
	}
	for i := range users {
		users[i].PasswordHash = hashedPwd
		users[i].IsActive = true
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	// IsActive=false is a zero value, set it after insert
	if err := db.Model(&users[3]).Update("is_active", false).Error; err != nil {
		return err
	}
	users[3].IsActive = false

	TestHRUser, TestManagerUser, TestCandidateUser, TestInactiveUser = users[0], users[1], users[2], users[3]

	skills := []m.Skill{
		{Name: "Go", Category: "Programming Languages", Description: "Go programming language"},
		{Name: "SQL", Category: "Databases", Description: "Relational query language"},
	}
	if err := db.Create(&skills).Error; err != nil {
		return err
	}
	TestSkillGo, TestSkillSQL = skills[0], skills[1]

	minSalary, maxSalary := 90000.0, 130000.0
	closing := time.Now().UTC().AddDate(0, 2, 0)
	jobs := []m.Job{
		{
			Title:           "Senior Backend Engineer",
			Description:     "Build and run the hiring platform services.",
			Requirements:    "5+ years of Go and SQL",
			Location:        "New York, NY",
			Department:      "Engineering",
			ExperienceLevel: m.ExperienceLevelSenior,
			EmploymentType:  m.EmploymentTypeFullTime,
			SalaryMin:       &minSalary,
			SalaryMax:       &maxSalary,
			Status:          m.JobStatusActive,
			ClosingDate:     &closing,
			MaxApplications: 50,
			IsRemoteAllowed: true,
			HiringManagerID: TestManagerUser.ID,
			Version:         1,
		},
		{
			Title:           "Data Analyst",
			Description:     "Own reporting for the recruiting team.",
			Requirements:    "SQL and statistics",
			Location:        "Remote",
			Department:      "Analytics",
			ExperienceLevel: m.ExperienceLevelMid,
			EmploymentType:  m.EmploymentTypeContract,
			Status:          m.JobStatusDraft,
			HiringManagerID: TestManagerUser.ID,
			Version:         1,
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJobActive, TestJobDraft = jobs[0], jobs[1]

	years6, years4 := 6, 4
	candidates := []m.Candidate{
		{
			FirstName:         "Mike",
			LastName:          "Johnson",
			Email:             "mike.johnson@email.test",
			PhoneNumber:       "+1-555-456-7890",
			Summary:           "Full-stack developer.",
			YearsOfExperience: &years6,
			CurrentJobTitle:   "Senior Developer",
			CurrentCompany:    "Tech Solutions Inc",
			IsAvailable:       true,
			Version:           1,
		},
		{
			FirstName:         "Emily",
			LastName:          "Davis",
			Email:             "emily.davis@email.test",
			YearsOfExperience: &years4,
			IsAvailable:       true,
			Version:           1,
		},
	}
	if err := db.Create(&candidates).Error; err != nil {
		return err
	}
	TestCandidate1, TestCandidate2 = candidates[0], candidates[1]

	if err := db.Create(&m.CandidateSkill{
		CandidateID: TestCandidate1.ID, SkillID: TestSkillGo.ID, YearsOfExperience: 5, ProficiencyLevel: 4,
	}).Error; err != nil {
		return err
	}
	if err := db.Create(&m.JobSkill{
		JobID: TestJobActive.ID, SkillID: TestSkillGo.ID, IsRequired: true, YearsOfExperience: 5,
	}).Error; err != nil {
		return err
	}

	TestApplication1 = m.Application{
		JobID:       TestJobActive.ID,
		CandidateID: TestCandidate1.ID,
		Status:      m.ApplicationStatusApplied,
		CoverLetter: "I would love to join.",
		AppliedDate: time.Now().UTC(),
		Version:     1,
	}
	if err := db.Create(&TestApplication1).Error; err != nil {
		return err
	}

	TestInterview1 = m.Interview{
		ApplicationID:     TestApplication1.ID,
		InterviewerID:     TestManagerUser.ID,
		Type:              m.InterviewTypeTechnical,
		Status:            m.InterviewStatusScheduled,
		ScheduledDateTime: time.Now().UTC().Add(48 * time.Hour),
		DurationMinutes:   60,
		MeetingLink:       "https://meet.example.test/abc",
		Version:           1,
	}
	return db.Create(&TestInterview1).Error
}
