package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/hiring-backend/internal/config"
	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/http/middleware"
	"github.com/ignatzorin/hiring-backend/internal/interface/http/handler"
	"github.com/ignatzorin/hiring-backend/internal/usecase/auth"
)

// Handlers - все HTTP обработчики приложения.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Candidate  *handler.CandidateHandler
	Assessment *handler.AssessmentHandler
	Training   *handler.TrainingHandler
	Job        *handler.JobHandler
	Admin      *handler.AdminHandler
	Realtime   *handler.RealtimeHandler
}

var staffRoles = []entity.Role{entity.RoleHR, entity.RoleManager, entity.RoleDirector, entity.RoleAdmin}

func SetupRouter(cfg *config.Config, documentsRoot string, tokens *auth.TokenManager, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media", http.Dir(documentsRoot))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware("auth", cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	// токен передаётся в query, заголовок в браузерном websocket недоступен
	api.GET("/ws", h.Realtime.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.GET("/me", h.Auth.Me)
		protected.GET("/dashboard", h.Candidate.Dashboard)

		protected.GET("/jobs", h.Job.ListJobs)
		protected.GET("/jobs/:id", middleware.UUIDValidator("id"), h.Job.GetJob)

		protected.GET("/assessments", h.Assessment.ListAssessments)
		protected.GET("/assessments/:id", middleware.UUIDValidator("id"), h.Assessment.GetAssessment)

		protected.GET("/candidates/:id", middleware.UUIDValidator("id"), h.Candidate.GetCandidate)
		protected.GET("/candidates/:id/activities", middleware.UUIDValidator("id"), h.Candidate.ListActivities)
		protected.GET("/candidates/:id/results", middleware.UUIDValidator("id"), h.Assessment.ListResults)
	}

	candidateOnly := protected.Group("/")
	candidateOnly.Use(middleware.RequireRoles(entity.RoleCandidate))
	{
		candidateOnly.PATCH("/me/profile", h.Candidate.UpdateProfile)
		candidateOnly.POST("/me/documents", h.Candidate.UploadDocument)
		candidateOnly.POST("/jobs/:id/apply", middleware.UUIDValidator("id"), h.Candidate.ApplyToJob)

		candidateOnly.POST("/assessments/:id/start", middleware.UUIDValidator("id"), h.Assessment.StartAssessment)
		candidateOnly.POST("/results/:id/submit", middleware.UUIDValidator("id"), h.Assessment.SubmitResult)

		candidateOnly.GET("/training", h.Training.GetTraining)
		candidateOnly.POST("/training/modules/:id/watched", middleware.UUIDValidator("id"), h.Training.MarkWatched)
		candidateOnly.POST("/training/modules/:id/quiz", middleware.UUIDValidator("id"), h.Training.SubmitQuiz)
	}

	staff := protected.Group("/")
	staff.Use(middleware.RequireRoles(staffRoles...))
	{
		staff.GET("/candidates", h.Candidate.ListCandidates)
		staff.GET("/candidates/export", h.Candidate.ExportCandidates)
		staff.PATCH("/candidates/:id/status", middleware.UUIDValidator("id"), h.Candidate.UpdateStatus)
		staff.PATCH("/candidates/:id/manager", middleware.UUIDValidator("id"), h.Candidate.AssignManager)
		staff.DELETE("/candidates/:id", middleware.UUIDValidator("id"), h.Candidate.DeleteCandidate)

		staff.POST("/jobs", h.Job.CreateJob)
		staff.POST("/jobs/:id/close", middleware.UUIDValidator("id"), h.Job.CloseJob)

		staff.POST("/assessments", h.Assessment.CreateAssessment)
		staff.POST("/assessments/generate", h.Assessment.GenerateQuestions)
		staff.POST("/results/:id/review", middleware.UUIDValidator("id"), h.Assessment.ReviewResult)

		staff.GET("/training/modules", h.Training.ListModules)
		staff.POST("/training/modules", h.Training.CreateModule)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRoles(entity.RoleAdmin))
	{
		admin.POST("/users", h.Admin.CreateStaff)
		admin.PATCH("/users/:id/email", middleware.UUIDValidator("id"), h.Admin.ChangeEmail)
		admin.PATCH("/users/:id/role", middleware.UUIDValidator("id"), h.Admin.ChangeRole)
	}

	return r
}
