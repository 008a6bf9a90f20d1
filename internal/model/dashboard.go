package model

import "time"

// QuickStats holds the headline counters of the dashboard.
type QuickStats struct {
	TotalJobs                int64   `json:"totalJobs"`
	ActiveJobs               int64   `json:"activeJobs"`
	TotalApplications        int64   `json:"totalApplications"`
	NewApplicationsThisMonth int64   `json:"newApplicationsThisMonth"`
	InterviewsThisWeek       int64   `json:"interviewsThisWeek"`
	HiredThisMonth           int64   `json:"hiredThisMonth"`
	ConversionRate           float64 `json:"conversionRate"`
}

// DashboardStats is the full dashboard aggregate.
type DashboardStats struct {
	QuickStats
	JobStatusBreakdown         []StatusCount       `json:"jobStatusBreakdown"`
	ApplicationStatusBreakdown []StatusCount       `json:"applicationStatusBreakdown"`
	MonthlyHiring              []MonthlyHiring     `json:"monthlyHiring"`
	DepartmentBreakdown        []DepartmentSummary `json:"departmentBreakdown"`
}

// StatusCount is the number of rows in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// MonthlyHiring summarises applications created in one calendar month.
type MonthlyHiring struct {
	Month            string `json:"month"`
	HiredCount       int    `json:"hiredCount"`
	ApplicationCount int    `json:"applicationCount"`
}

// DepartmentSummary counts jobs and their applications per department.
type DepartmentSummary struct {
	Department       string `json:"department"`
	JobCount         int64  `json:"jobCount"`
	ApplicationCount int64  `json:"applicationCount"`
}

// RecentActivity is one line of the activity feed.
type RecentActivity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
}
