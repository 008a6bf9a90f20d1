package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-backend/internal/database"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

const fixture = `
skills:
  - name: Go
    category: Programming Languages
  - name: Terraform
    category: Infrastructure
users:
  - firstName: Hana
    lastName: Reyes
    email: Hana.Reyes@seed.test
    password: SeedPass123!
    role: manager
    department: Engineering
jobs:
  - title: Infrastructure Engineer
    description: Own the cloud footprint.
    requirements: Terraform
    location: Remote
    department: Platform
    experienceLevel: senior
    employmentType: FullTime
    maxApplications: 10
    hiringManager: hana.reyes@seed.test
    skills: [Terraform, go]
candidates:
  - firstName: Omar
    lastName: Haddad
    email: omar@seed.test
    yearsOfExperience: 3
    skills: [Go]
`

func newDB(t *testing.T) *database.DBinstanceStruct {
	t.Helper()
	db, err := database.NewTestDB(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyIsIdempotent(t *testing.T) {
	db := newDB(t)
	f, err := Load(strings.NewReader(fixture))
	require.NoError(t, err)

	res, err := Apply(context.Background(), db.DB, f)
	require.NoError(t, err)
	assert.Equal(t, Result{Skills: 2, Users: 1, Jobs: 1, Candidates: 1}, res)

	res, err = Apply(context.Background(), db.DB, f)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	var user model.User
	require.NoError(t, db.Where("email = ?", "hana.reyes@seed.test").First(&user).Error)
	assert.Equal(t, model.RoleManager, user.Role)
	assert.True(t, user.IsActive)
	assert.True(t, utilities.VerifyPassword("SeedPass123!", user.PasswordHash))

	var job model.Job
	require.NoError(t, db.Where("title = ?", "Infrastructure Engineer").First(&job).Error)
	assert.Equal(t, model.JobStatusActive, job.Status)
	assert.Equal(t, model.ExperienceLevelSenior, job.ExperienceLevel)
	assert.Equal(t, user.ID, job.HiringManagerID)

	var jobSkills int64
	require.NoError(t, db.Model(&model.JobSkill{}).Where("job_id = ?", job.ID).Count(&jobSkills).Error)
	assert.EqualValues(t, 2, jobSkills)

	var candidateSkills int64
	require.NoError(t, db.Model(&model.CandidateSkill{}).Count(&candidateSkills).Error)
	assert.EqualValues(t, 1, candidateSkills)
}

func TestApplyRollsBackOnError(t *testing.T) {
	db := newDB(t)
	f, err := Load(strings.NewReader(`
skills:
  - name: Go
    category: Programming Languages
jobs:
  - title: Orphan
    description: d
    requirements: r
    location: l
    department: Nowhere
    experienceLevel: Mid
    employmentType: FullTime
    hiringManager: nobody@seed.test
`))
	require.NoError(t, err)

	_, err = Apply(context.Background(), db.DB, f)
	assert.ErrorIs(t, err, model.ErrUnknownReference)

	var skills int64
	require.NoError(t, db.Model(&model.Skill{}).Count(&skills).Error)
	assert.Zero(t, skills)
}

func TestApplyRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"role": `
users:
  - {firstName: A, lastName: B, email: a@seed.test, password: x, role: Admin}
`,
		"skill": `
users:
  - {firstName: A, lastName: B, email: a@seed.test, password: x, role: HR}
candidates:
  - {firstName: C, lastName: D, email: c@seed.test, skills: [Rust]}
`,
		"salary": `
users:
  - {firstName: A, lastName: B, email: a@seed.test, password: x, role: HR}
jobs:
  - {title: T, description: d, requirements: r, location: l, department: D, experienceLevel: Mid, employmentType: FullTime, salaryMin: 10, salaryMax: 5, hiringManager: a@seed.test}
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := Load(strings.NewReader(doc))
			require.NoError(t, err)
			_, err = Apply(context.Background(), newDB(t).DB, f)
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("skills:\n  - name: Go\n    level: 3\n"))
	assert.Error(t, err)

	f, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Jobs)
}
