// Package dashboard provides the recruiting overview endpoints.
package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/database"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// DashboardController handles dashboard related endpoints
type DashboardController struct {
	DB  *database.DBinstanceStruct
	Now func() time.Time
}

// NewDashboardController creates a new instance of DashboardController
func NewDashboardController(db *database.DBinstanceStruct) *DashboardController {
	return &DashboardController{DB: db, Now: time.Now}
}

// GetDashboard returns the counters together with every breakdown.
// @Summary Dashboard statistics
// @Tags Dashboard
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.DashboardStats
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /dashboard [get]
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	db := dc.DB.WithContext(c.Request.Context())
	p := periodAt(dc.Now())

	quick, err := quickStats(db, p)
	if err != nil {
		utilities.RespondError(c, "Failed to compute dashboard", err)
		return
	}
	stats := model.DashboardStats{QuickStats: quick}

	stats.JobStatusBreakdown, err = statusCounts(db, &model.Job{}, func(s int) string {
		return model.JobStatus(s).String()
	})
	if err != nil {
		utilities.RespondError(c, "Failed to compute dashboard", err)
		return
	}

	stats.ApplicationStatusBreakdown, err = statusCounts(db, &model.Application{}, func(s int) string {
		return model.ApplicationStatus(s).String()
	})
	if err != nil {
		utilities.RespondError(c, "Failed to compute dashboard", err)
		return
	}

	if stats.MonthlyHiring, err = monthlyHiring(db, p.trailing); err != nil {
		utilities.RespondError(c, "Failed to compute dashboard", err)
		return
	}
	if stats.DepartmentBreakdown, err = departmentBreakdown(db); err != nil {
		utilities.RespondError(c, "Failed to compute dashboard", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetQuickStats returns the headline counters only.
// @Summary Dashboard counters
// @Tags Dashboard
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.QuickStats
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /dashboard/quick-stats [get]
func (dc *DashboardController) GetQuickStats(c *gin.Context) {
	quick, err := quickStats(dc.DB.WithContext(c.Request.Context()), periodAt(dc.Now()))
	if err != nil {
		utilities.RespondError(c, "Failed to compute quick stats", err)
		return
	}
	c.JSON(http.StatusOK, quick)
}

// GetRecentActivities returns the latest applications and scheduled interviews, newest first.
// @Summary Recent activity feed
// @Tags Dashboard
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.RecentActivity
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /dashboard/recent-activities [get]
func (dc *DashboardController) GetRecentActivities(c *gin.Context) {
	activities, err := recentActivities(dc.DB.WithContext(c.Request.Context()))
	if err != nil {
		utilities.RespondError(c, "Failed to retrieve recent activities", err)
		return
	}
	c.JSON(http.StatusOK, activities)
}
