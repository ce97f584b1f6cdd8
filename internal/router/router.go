package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-tracker-api/internal/handler"
	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/middleware"
	"issue-tracker-api/internal/repository"
	"issue-tracker-api/internal/service"
)

// Config holds router configuration
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	JWTSecret      string
	BasePath       string
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "issue-tracker-api"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if cfg.DB == nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "issue-tracker-api"})
			return
		}
		sqlDB, err := cfg.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "issue-tracker-api"})
			return
		}
		c.JSON(200, gin.H{"status": "ready", "service": "issue-tracker-api"})
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	projectRepo := repository.NewProjectRepository(cfg.DB)
	issueRepo := repository.NewIssueRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	labelRepo := repository.NewLabelRepository(cfg.DB)
	attachmentRepo := repository.NewAttachmentRepository(cfg.DB)
	reportRepo := repository.NewReportRepository(cfg.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.Logger)
	userService := service.NewUserService(userRepo, cfg.Metrics, cfg.Logger)
	projectService := service.NewProjectService(projectRepo, userRepo, issueRepo, cfg.Metrics, cfg.Logger)
	issueService := service.NewIssueService(issueRepo, projectRepo, userRepo, commentRepo, labelRepo, cfg.Metrics, cfg.Logger)
	importService := service.NewImportService(issueRepo, projectRepo, userRepo, cfg.Metrics, cfg.Logger)
	commentService := service.NewCommentService(commentRepo, issueRepo, userRepo, cfg.Metrics, cfg.Logger)
	labelService := service.NewLabelService(labelRepo, issueRepo, projectRepo, cfg.Metrics, cfg.Logger)
	attachmentService := service.NewAttachmentService(attachmentRepo, issueRepo, cfg.Metrics, cfg.Logger)
	reportService := service.NewReportService(reportRepo, cfg.Logger)
	timelineService := service.NewTimelineService(issueRepo, commentRepo, labelRepo, userRepo, cfg.Logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	issueHandler := handler.NewIssueHandler(issueService, importService)
	commentHandler := handler.NewCommentHandler(commentService)
	labelHandler := handler.NewLabelHandler(labelService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	reportHandler := handler.NewReportHandler(reportService, timelineService)

	// API routes group
	api := r.Group(cfg.BasePath)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// Expose metrics under the base path too, for ingress setups that only
	// route the API prefix
	if cfg.BasePath != "" {
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// User routes; creation is public so a fresh deployment can bootstrap
	// its first account
	users := api.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", authMiddleware, userHandler.ListUsers)
		users.GET("/:userId", authMiddleware, userHandler.GetUser)
		users.PUT("/:userId", authMiddleware, userHandler.UpdateUser)
		users.DELETE("/:userId", authMiddleware, userHandler.DeleteUser)
		users.PUT("/:userId/restore", authMiddleware, userHandler.RestoreUser)
		users.GET("/:userId/comments", authMiddleware, commentHandler.ListByAuthor)
	}

	// Project routes
	projects := api.Group("/projects")
	projects.Use(authMiddleware)
	{
		projects.POST("", projectHandler.CreateProject)
		projects.GET("", projectHandler.ListProjects)
		projects.GET("/:projectId", projectHandler.GetProject)
		projects.PUT("/:projectId", projectHandler.UpdateProject)
		projects.DELETE("/:projectId", projectHandler.DeleteProject)
		projects.PUT("/:projectId/restore", projectHandler.RestoreProject)
		projects.GET("/:projectId/statistics", projectHandler.GetProjectStatistics)
	}

	// Issue routes
	issues := api.Group("/issues")
	issues.Use(authMiddleware)
	{
		issues.POST("", issueHandler.CreateIssue)
		issues.GET("", issueHandler.ListIssues)
		issues.GET("/search", issueHandler.SearchIssues)
		issues.GET("/statistics", issueHandler.GetIssueStatistics)
		issues.POST("/bulk-status", issueHandler.BulkUpdateStatus)
		issues.POST("/import", issueHandler.ImportIssues)
		issues.GET("/:issueId", issueHandler.GetIssue)
		issues.GET("/:issueId/detail", issueHandler.GetIssueDetail)
		issues.PUT("/:issueId", issueHandler.UpdateIssue)
		issues.PUT("/:issueId/status", issueHandler.UpdateIssueStatus)
		issues.DELETE("/:issueId", issueHandler.DeleteIssue)
		issues.PUT("/:issueId/restore", issueHandler.RestoreIssue)
		issues.GET("/:issueId/comments", commentHandler.ListByIssue)
		issues.GET("/:issueId/attachments", attachmentHandler.ListByIssue)
		issues.GET("/:issueId/timeline", reportHandler.GetIssueTimeline)

		// Label assignments
		issues.GET("/:issueId/labels", labelHandler.ListByIssue)
		issues.PUT("/:issueId/labels", labelHandler.ReplaceLabels)
		issues.POST("/:issueId/labels/:labelId", labelHandler.AssignLabel)
		issues.DELETE("/:issueId/labels/:labelId", labelHandler.RemoveLabel)
	}

	// Comment routes
	comments := api.Group("/comments")
	comments.Use(authMiddleware)
	{
		comments.POST("", commentHandler.CreateComment)
		comments.GET("/:commentId", commentHandler.GetComment)
		comments.PUT("/:commentId", commentHandler.UpdateComment)
		comments.DELETE("/:commentId", commentHandler.DeleteComment)
	}

	// Label routes
	labels := api.Group("/labels")
	labels.Use(authMiddleware)
	{
		labels.POST("", labelHandler.CreateLabel)
		labels.GET("", labelHandler.ListLabels)
		labels.GET("/:labelId", labelHandler.GetLabel)
		labels.PUT("/:labelId", labelHandler.UpdateLabel)
		labels.DELETE("/:labelId", labelHandler.DeleteLabel)
	}

	// Attachment routes
	attachments := api.Group("/attachments")
	attachments.Use(authMiddleware)
	{
		attachments.POST("", attachmentHandler.CreateAttachment)
		attachments.GET("/:attachmentId", attachmentHandler.GetAttachment)
		attachments.DELETE("/:attachmentId", attachmentHandler.DeleteAttachment)
	}

	// Report routes
	reports := api.Group("/reports")
	reports.Use(authMiddleware)
	{
		reports.GET("/top-assignees", reportHandler.TopAssignees)
		reports.GET("/resolution-latency", reportHandler.ResolutionLatency)
		reports.GET("/velocity", reportHandler.Velocity)
	}

	return r
}
