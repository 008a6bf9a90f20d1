package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Init swagger doc
	_ "ats-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ats-backend/internal/auth"
	"ats-backend/internal/controller/application"
	"ats-backend/internal/controller/candidate"
	"ats-backend/internal/controller/dashboard"
	"ats-backend/internal/controller/document"
	"ats-backend/internal/controller/interview"
	"ats-backend/internal/controller/job"
	"ats-backend/internal/controller/skill"
	"ats-backend/internal/controller/user"
	"ats-backend/internal/logging"
	"ats-backend/internal/middleware"
	"ats-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(), middleware.SafeHeader())

	r.Use(cors.New(s.corsConfig()))

	lAuth := auth.NewLocalAuthHandler(s.DB)
	gAuth := auth.NewOauthLoginHandler(s.DB, s.GoogleOauth, s.UserInfoURL)
	logout := auth.NewLogoutController(s.Blacklist)

	jc := job.NewJobController(s.DB, s.Transitions)
	cc := candidate.NewCandidateController(s.DB, s.Storage)
	ac := application.NewApplicationController(s.DB, s.Transitions)
	ic := interview.NewInterviewController(s.DB, s.Transitions)
	sc := skill.NewSkillController(s.DB)
	uc := user.NewUserController(s.DB)
	dc := document.NewDocumentController(s.DB, s.Storage)
	dash := dashboard.NewDashboardController(s.DB)

	r.GET("/health", s.healthHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		authRoute := api.Group("/auth")
		{
			limited := authRoute.Group("", middleware.RateLimiterMiddleware(s.Config.RateLimitPerSecond))
			limited.POST("login", lAuth.LoginHandler)
			limited.POST("register", lAuth.RegisterHandler)
			limited.POST("google", gAuth.GoogleLoginHandler)

			authRoute.POST("logout", middleware.RequireAuth(s.DB, s.Blacklist), logout.LogoutHandler)
			authRoute.GET("me", middleware.RequireAuth(s.DB, s.Blacklist), auth.MeHandler)
		}

		// Any signed in role
		needAuth := api.Group("", middleware.RequireAuth(s.DB, s.Blacklist))
		{
			needAuth.GET("jobs", jc.GetJobs)
			needAuth.GET("jobs/:id", jc.GetJob)

			dashRoute := needAuth.Group("/dashboard")
			{
				dashRoute.GET("", dash.GetDashboard)
				dashRoute.GET("quick-stats", dash.GetQuickStats)
				dashRoute.GET("recent-activities", dash.GetRecentActivities)
			}

			// Staff only from here on
			staff := needAuth.Group("", middleware.CheckRole(model.RoleHR, model.RoleManager))

			jobRoute := staff.Group("/jobs")
			{
				jobRoute.POST("", jc.CreateJob)
				jobRoute.PUT(":id", jc.UpdateJob)
				jobRoute.DELETE(":id", jc.DeleteJob)
				jobRoute.PUT(":id/skills/:skillId", jc.SetJobSkill)
				jobRoute.DELETE(":id/skills/:skillId", jc.RemoveJobSkill)
			}

			candidateRoute := staff.Group("/candidates")
			{
				candidateRoute.GET("", cc.GetCandidates)
				candidateRoute.POST("", cc.CreateCandidate)
				candidateRoute.GET(":id", cc.GetCandidate)
				candidateRoute.PUT(":id", cc.UpdateCandidate)
				candidateRoute.DELETE(":id", cc.DeleteCandidate)

				candidateRoute.GET(":id/skills", cc.GetCandidateSkills)
				candidateRoute.PUT(":id/skills/:skillId", cc.SetCandidateSkill)
				candidateRoute.DELETE(":id/skills/:skillId", cc.RemoveCandidateSkill)

				candidateRoute.GET(":id/experiences", cc.GetExperiences)
				candidateRoute.POST(":id/experiences", cc.AddExperience)
				candidateRoute.DELETE(":id/experiences/:expId", cc.DeleteExperience)

				candidateRoute.GET(":id/educations", cc.GetEducations)
				candidateRoute.POST(":id/educations", cc.AddEducation)
				candidateRoute.DELETE(":id/educations/:eduId", cc.DeleteEducation)

				candidateRoute.GET(":id/documents", dc.GetCandidateDocuments)
				candidateRoute.POST(":id/documents", middleware.SizeLimit(s.Config.MaxUploadBytes), dc.UploadDocument)
			}

			documentRoute := staff.Group("/documents")
			{
				documentRoute.GET(":id/download", dc.DownloadDocument)
				documentRoute.DELETE(":id", dc.DeleteDocument)
			}

			applicationRoute := staff.Group("/applications")
			{
				applicationRoute.GET("", ac.GetApplications)
				applicationRoute.POST("", ac.CreateApplication)
				applicationRoute.GET("job/:jobId", ac.GetApplicationsByJob)
				applicationRoute.GET("candidate/:candidateId", ac.GetApplicationsByCandidate)
				applicationRoute.GET(":id", ac.GetApplication)
				applicationRoute.PUT(":id", ac.UpdateApplication)
				applicationRoute.DELETE(":id", ac.DeleteApplication)

				applicationRoute.GET(":id/documents", ac.GetApplicationDocuments)
				applicationRoute.PUT(":id/documents/:documentId", ac.LinkDocument)
				applicationRoute.DELETE(":id/documents/:documentId", ac.UnlinkDocument)
			}

			interviewRoute := staff.Group("/interviews")
			{
				interviewRoute.GET("", ic.GetInterviews)
				interviewRoute.POST("", ic.CreateInterview)
				interviewRoute.GET("application/:applicationId", ic.GetInterviewsByApplication)
				interviewRoute.GET("interviewer/:interviewerId", ic.GetInterviewsByInterviewer)
				interviewRoute.GET(":id", ic.GetInterview)
				interviewRoute.PUT(":id", ic.UpdateInterview)
				interviewRoute.DELETE(":id", ic.DeleteInterview)
			}

			skillRoute := staff.Group("/skills")
			{
				skillRoute.GET("", sc.GetSkills)
				skillRoute.POST("", sc.CreateSkill)
				skillRoute.DELETE(":id", sc.DeleteSkill)
			}

			userRoute := staff.Group("/users")
			{
				userRoute.GET("", uc.GetUsers)
				userRoute.GET(":id", uc.GetUser)
				userRoute.DELETE(":id", middleware.CheckRole(model.RoleHR), uc.DeleteUser)
			}
		}
	}

	return r
}

func (s *MyServer) corsConfig() cors.Config {
	c := cors.Config{
		AllowOrigins:     s.Config.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", logging.RequestIDHeader},
		ExposeHeaders:    []string{logging.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
	}
	// cors rejects an empty origin list
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = nil
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	}
	return c
}

func (s *MyServer) healthHandler(c *gin.Context) {
	stats := s.DB.Health()
	if stats["status"] != "up" {
		c.JSON(http.StatusServiceUnavailable, stats)
		return
	}
	c.JSON(http.StatusOK, stats)
}
