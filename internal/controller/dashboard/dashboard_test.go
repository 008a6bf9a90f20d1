package dashboard

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-backend/internal/auth"
	"ats-backend/internal/database"
	"ats-backend/internal/middleware"
	"ats-backend/internal/model"
	"ats-backend/internal/testutil"
	"ats-backend/internal/utilities"
)

const testPassword = "DashPass123!"

var (
	testDB  *database.DBinstanceStruct
	hrEmail = "dashboard-hr@ats.test"
	// Thursday
	fixedNow = time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.Configure("dashboard-test-secret", auth.DefaultTokenTTL)

	// Private database: the counters need a known data set.
	db, err := database.NewTestDB(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	testDB = db
	if err := seedDashboard(db); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed dashboard data: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = db.Close()
	os.Exit(code)
}

func day(month time.Month, d, hour int, year ...int) time.Time {
	y := 2024
	if len(year) > 0 {
		y = year[0]
	}
	return time.Date(y, month, d, hour, 0, 0, 0, time.UTC)
}

func seedDashboard(db *database.DBinstanceStruct) error {
	hash, err := utilities.HashPassword(testPassword)
	if err != nil {
		return err
	}
	hr := model.User{
		FirstName: "Dana", LastName: "Board", Email: hrEmail, PasswordHash: hash,
		Role: model.RoleHR, IsActive: true,
	}
	if err := db.Create(&hr).Error; err != nil {
		return err
	}

	jobs := []model.Job{
		{Title: "Backend Engineer", Department: "Engineering", Status: model.JobStatusActive},
		{Title: "Platform Engineer", Department: "Engineering", Status: model.JobStatusDraft},
		{Title: "Account Executive", Department: "Sales", Status: model.JobStatusActive},
	}
	for i := range jobs {
		jobs[i].Description = "d"
		jobs[i].Requirements = "r"
		jobs[i].Location = "Remote"
		jobs[i].ExperienceLevel = model.ExperienceLevelMid
		jobs[i].EmploymentType = model.EmploymentTypeFullTime
		jobs[i].HiringManagerID = hr.ID
		jobs[i].Version = 1
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}

	candidates := []model.Candidate{
		{FirstName: "Ava", LastName: "Stone", Email: "ava@dash.test", IsAvailable: true, Version: 1},
		{FirstName: "Ben", LastName: "Hale", Email: "ben@dash.test", IsAvailable: true, Version: 1},
		{FirstName: "Cleo", LastName: "Park", Email: "cleo@dash.test", IsAvailable: true, Version: 1},
	}
	if err := db.Create(&candidates).Error; err != nil {
		return err
	}

	apps := []model.Application{
		{JobID: jobs[0].ID, CandidateID: candidates[0].ID, Status: model.ApplicationStatusApplied,
			AppliedDate: day(time.March, 5, 10), CreatedAt: day(time.March, 5, 10), UpdatedAt: day(time.March, 5, 10)},
		{JobID: jobs[0].ID, CandidateID: candidates[1].ID, Status: model.ApplicationStatusHired,
			AppliedDate: day(time.February, 10, 10), CreatedAt: day(time.February, 10, 10), UpdatedAt: day(time.March, 12, 10)},
		{JobID: jobs[2].ID, CandidateID: candidates[2].ID, Status: model.ApplicationStatusRejected,
			AppliedDate: day(time.December, 20, 10, 2023), CreatedAt: day(time.December, 20, 10, 2023), UpdatedAt: day(time.January, 2, 10)},
		{JobID: jobs[2].ID, CandidateID: candidates[0].ID, Status: model.ApplicationStatusHired,
			AppliedDate: day(time.June, 1, 10, 2023), CreatedAt: day(time.June, 1, 10, 2023), UpdatedAt: day(time.June, 30, 10, 2023)},
	}
	for i := range apps {
		apps[i].Version = 1
	}
	if err := db.Create(&apps).Error; err != nil {
		return err
	}

	interviews := []model.Interview{
		// inside the week of Sunday 10 March
		{ApplicationID: apps[0].ID, Status: model.InterviewStatusScheduled,
			ScheduledDateTime: day(time.March, 11, 10), CreatedAt: day(time.March, 6, 8)},
		// Sunday 17 March is the next week
		{ApplicationID: apps[1].ID, Status: model.InterviewStatusCompleted,
			ScheduledDateTime: day(time.March, 17, 9), CreatedAt: day(time.March, 8, 8)},
		{ApplicationID: apps[1].ID, Status: model.InterviewStatusCompleted,
			ScheduledDateTime: day(time.March, 9, 23), CreatedAt: day(time.March, 1, 8)},
	}
	for i := range interviews {
		interviews[i].InterviewerID = hr.ID
		interviews[i].Type = model.InterviewTypeVideo
		interviews[i].DurationMinutes = 45
		interviews[i].Version = 1
	}
	return db.Create(&interviews).Error
}

func dashboardRouter() *gin.Engine {
	r := gin.New()
	dc := NewDashboardController(testDB)
	dc.Now = func() time.Time { return fixedNow }
	g := r.Group("/dashboard", middleware.RequireAuth(testDB, nil))
	g.GET("", dc.GetDashboard)
	g.GET("/quick-stats", dc.GetQuickStats)
	g.GET("/recent-activities", dc.GetRecentActivities)
	return r
}

func hrToken(t *testing.T) string {
	token, err := auth.GetAccessToken(t, testDB, hrEmail, testPassword)
	require.NoError(t, err)
	return token
}

func TestPeriodAt(t *testing.T) {
	p := periodAt(fixedNow)
	assert.Equal(t, day(time.March, 1, 0), p.monthStart)
	assert.Equal(t, day(time.March, 10, 0), p.weekStart)
	assert.Equal(t, day(time.March, 17, 0), p.weekEnd)
	assert.Equal(t, time.Date(2023, time.September, 14, 9, 30, 0, 0, time.UTC), p.trailing)

	// a Sunday starts its own week, local offsets are normalised first
	sunday := time.Date(2024, time.March, 10, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))
	assert.Equal(t, day(time.March, 3, 0), periodAt(sunday).weekStart)
}

func TestConversionRate(t *testing.T) {
	assert.Equal(t, 0.0, conversionRate(0, 0))
	assert.Equal(t, 25.0, conversionRate(1, 4))
	assert.Equal(t, 33.33, conversionRate(1, 3))
	assert.Equal(t, 66.67, conversionRate(2, 3))
}

func TestGetQuickStats(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, hrToken(t), dashboardRouter(), "/dashboard/quick-stats", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.EqualValues(t, 3, resp["totalJobs"])
	assert.EqualValues(t, 2, resp["activeJobs"])
	assert.EqualValues(t, 4, resp["totalApplications"])
	assert.EqualValues(t, 1, resp["newApplicationsThisMonth"])
	assert.EqualValues(t, 1, resp["interviewsThisWeek"])
	assert.EqualValues(t, 1, resp["hiredThisMonth"])
	assert.EqualValues(t, 25, resp["conversionRate"])
	assert.NotContains(t, resp, "monthlyHiring")
}

func TestGetDashboard(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, hrToken(t), dashboardRouter(), "/dashboard", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.EqualValues(t, 4, resp["totalApplications"])

	assert.Equal(t, []interface{}{
		map[string]interface{}{"status": "Draft", "count": float64(1)},
		map[string]interface{}{"status": "Active", "count": float64(2)},
	}, resp["jobStatusBreakdown"])

	assert.Equal(t, []interface{}{
		map[string]interface{}{"status": "Applied", "count": float64(1)},
		map[string]interface{}{"status": "Hired", "count": float64(2)},
		map[string]interface{}{"status": "Rejected", "count": float64(1)},
	}, resp["applicationStatusBreakdown"])

	// June 2023 is outside the trailing six months
	assert.Equal(t, []interface{}{
		map[string]interface{}{"month": "Dec 2023", "hiredCount": float64(0), "applicationCount": float64(1)},
		map[string]interface{}{"month": "Feb 2024", "hiredCount": float64(1), "applicationCount": float64(1)},
		map[string]interface{}{"month": "Mar 2024", "hiredCount": float64(0), "applicationCount": float64(1)},
	}, resp["monthlyHiring"])

	assert.Equal(t, []interface{}{
		map[string]interface{}{"department": "Engineering", "jobCount": float64(2), "applicationCount": float64(2)},
		map[string]interface{}{"department": "Sales", "jobCount": float64(1), "applicationCount": float64(2)},
	}, resp["departmentBreakdown"])
}

func TestGetRecentActivities(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, hrToken(t), dashboardRouter(), "/dashboard/recent-activities", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	list := testutil.DecodeList(rec)
	require.Len(t, list, 7)

	descriptions := make([]interface{}, 0, len(list))
	for _, a := range list {
		descriptions = append(descriptions, a["description"])
	}
	assert.Equal(t, []interface{}{
		"Interview scheduled for Ben Hale - Backend Engineer",
		"Interview scheduled for Ava Stone - Backend Engineer",
		"Interview scheduled for Ben Hale - Backend Engineer",
		"Ava Stone applied for Backend Engineer",
		"Ben Hale applied for Backend Engineer",
		"Cleo Park applied for Account Executive",
		"Ava Stone applied for Account Executive",
	}, descriptions)

	assert.Equal(t, "Interview", list[0]["type"])
	assert.Equal(t, "Completed", list[0]["status"])
	assert.Equal(t, "2024-03-17T09:00:00Z", list[0]["date"])
	assert.Equal(t, "Application", list[3]["type"])
	assert.Equal(t, "Applied", list[3]["status"])
}

func TestRecentActivitiesCapped(t *testing.T) {
	db, err := database.NewTestDB(true)
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 4; i++ {
		c := model.Candidate{FirstName: "Extra", LastName: fmt.Sprint(i), Email: fmt.Sprintf("extra%d@dash.test", i), Version: 1}
		require.NoError(t, db.Create(&c).Error)
		app := model.Application{
			JobID: database.TestJobActive.ID, CandidateID: c.ID, Status: model.ApplicationStatusApplied,
			AppliedDate: time.Now().UTC(), Version: 1,
		}
		require.NoError(t, db.Create(&app).Error)
		for k := 0; k < 2; k++ {
			require.NoError(t, db.Create(&model.Interview{
				ApplicationID: app.ID, InterviewerID: database.TestManagerUser.ID,
				Type: model.InterviewTypePhone, Status: model.InterviewStatusScheduled,
				ScheduledDateTime: time.Now().UTC().Add(time.Duration(k+1) * time.Hour), DurationMinutes: 30, Version: 1,
			}).Error)
		}
	}

	activities, err := recentActivities(db.DB)
	require.NoError(t, err)
	assert.Len(t, activities, 10)
	for i := 1; i < len(activities); i++ {
		assert.False(t, activities[i].Date.After(activities[i-1].Date))
	}
}

func TestDashboardOpenToCandidate(t *testing.T) {
	hash, err := utilities.HashPassword(testPassword)
	require.NoError(t, err)
	u := model.User{FirstName: "Cara", LastName: "Nd", Email: "dash-candidate@ats.test", PasswordHash: hash, Role: model.RoleCandidate, IsActive: true}
	require.NoError(t, testDB.Create(&u).Error)

	token, err := auth.GetAccessToken(t, testDB, u.Email, testPassword)
	require.NoError(t, err)
	rec, stats := testutil.MakeJSONRequest(nil, token, dashboardRouter(), "/dashboard", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 3, stats["totalJobs"])

	rec, _ = testutil.MakeJSONRequest(nil, "", dashboardRouter(), "/dashboard", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
