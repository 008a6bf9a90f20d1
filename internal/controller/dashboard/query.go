package dashboard

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"ats-backend/internal/model"
)

const recentLimit = 5

// period holds the UTC boundaries the counters are computed against.
type period struct {
	monthStart time.Time
	weekStart  time.Time
	weekEnd    time.Time
	trailing   time.Time
}

func periodAt(now time.Time) period {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	return period{
		monthStart: monthStart,
		weekStart:  weekStart,
		weekEnd:    weekStart.AddDate(0, 0, 7),
		trailing:   now.AddDate(0, -6, 0),
	}
}

func conversionRate(hired, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(hired)/float64(total)*100*100) / 100
}

func quickStats(db *gorm.DB, p period) (model.QuickStats, error) {
	var s model.QuickStats
	counts := []struct {
		dst   *int64
		table interface{}
		where string
		args  []interface{}
	}{
		{&s.TotalJobs, &model.Job{}, "", nil},
		{&s.ActiveJobs, &model.Job{}, "status = ?", []interface{}{model.JobStatusActive}},
		{&s.TotalApplications, &model.Application{}, "", nil},
		{&s.NewApplicationsThisMonth, &model.Application{}, "applied_date >= ?", []interface{}{p.monthStart}},
		{&s.InterviewsThisWeek, &model.Interview{}, "scheduled_date_time >= ? AND scheduled_date_time < ?", []interface{}{p.weekStart, p.weekEnd}},
		{&s.HiredThisMonth, &model.Application{}, "status = ? AND updated_at >= ?", []interface{}{model.ApplicationStatusHired, p.monthStart}},
	}
	for _, c := range counts {
		q := db.Model(c.table)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return s, err
		}
	}
	s.ConversionRate = conversionRate(s.HiredThisMonth, s.TotalApplications)
	return s, nil
}

type statusRow struct {
	Status int
	Count  int64
}

func statusCounts(db *gorm.DB, table interface{}, name func(int) string) ([]model.StatusCount, error) {
	rows := []statusRow{}
	err := db.Model(table).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.StatusCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.StatusCount{Status: name(r.Status), Count: r.Count})
	}
	return out, nil
}

func monthlyHiring(db *gorm.DB, since time.Time) ([]model.MonthlyHiring, error) {
	var rows []struct {
		Status    model.ApplicationStatus
		CreatedAt time.Time
	}
	err := db.Model(&model.Application{}).
		Select("status, created_at").
		Where("created_at >= ?", since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byMonth := map[time.Time]*model.MonthlyHiring{}
	months := []time.Time{}
	for _, r := range rows {
		t := r.CreatedAt.UTC()
		key := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := byMonth[key]
		if !ok {
			m = &model.MonthlyHiring{Month: key.Format("Jan 2006")}
			byMonth[key] = m
			months = append(months, key)
		}
		m.ApplicationCount++
		if r.Status == model.ApplicationStatusHired {
			m.HiredCount++
		}
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	out := make([]model.MonthlyHiring, 0, len(months))
	for _, k := range months {
		out = append(out, *byMonth[k])
	}
	return out, nil
}

func departmentBreakdown(db *gorm.DB) ([]model.DepartmentSummary, error) {
	out := []model.DepartmentSummary{}
	err := db.Table("jobs AS j").
		Select("j.department, COUNT(DISTINCT j.id) AS job_count, COUNT(a.id) AS application_count").
		Joins("LEFT JOIN applications a ON a.job_id = j.id").
		Group("j.department").
		Order("job_count DESC, j.department").
		Scan(&out).Error
	return out, err
}

type activityRow struct {
	CandidateName string
	JobTitle      string
	Status        int
	ActivityDate  time.Time
}

func recentActivities(db *gorm.DB) ([]model.RecentActivity, error) {
	var apps []activityRow
	err := db.Table("applications AS a").
		Select(`c.first_name || ' ' || c.last_name AS candidate_name, j.title AS job_title,
			a.status, a.applied_date AS activity_date`).
		Joins("JOIN candidates c ON c.id = a.candidate_id").
		Joins("JOIN jobs j ON j.id = a.job_id").
		Order("a.applied_date DESC").
		Limit(recentLimit).
		Scan(&apps).Error
	if err != nil {
		return nil, err
	}

	var interviews []activityRow
	err = db.Table("interviews AS i").
		Select(`c.first_name || ' ' || c.last_name AS candidate_name, j.title AS job_title,
			i.status, i.scheduled_date_time AS activity_date`).
		Joins("JOIN applications a ON a.id = i.application_id").
		Joins("JOIN candidates c ON c.id = a.candidate_id").
		Joins("JOIN jobs j ON j.id = a.job_id").
		Order("i.created_at DESC").
		Limit(recentLimit).
		Scan(&interviews).Error
	if err != nil {
		return nil, err
	}

	out := make([]model.RecentActivity, 0, len(apps)+len(interviews))
	for _, r := range apps {
		out = append(out, model.RecentActivity{
			Type:        "Application",
			Description: r.CandidateName + " applied for " + r.JobTitle,
			Date:        r.ActivityDate.UTC(),
			Status:      model.ApplicationStatus(r.Status).String(),
		})
	}
	for _, r := range interviews {
		out = append(out, model.RecentActivity{
			Type:        "Interview",
			Description: "Interview scheduled for " + r.CandidateName + " - " + r.JobTitle,
			Date:        r.ActivityDate.UTC(),
			Status:      model.InterviewStatus(r.Status).String(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > 2*recentLimit {
		out = out[:2*recentLimit]
	}
	return out, nil
}
