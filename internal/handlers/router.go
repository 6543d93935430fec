package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskforge/backend/internal/config"
	"taskforge/backend/internal/middleware"
	"taskforge/backend/internal/models"
	"taskforge/backend/internal/monitoring"
	"taskforge/backend/internal/services"
)

type RouterDeps struct {
	Auth     *AuthHandler
	Tasks    *TaskHandler
	Users    *UserHandler
	Insights *InsightHandler
	Reports  *ReportHandler
	Health   *monitoring.HealthChecker
	Tokens   *services.TokenIssuer
}

// NewRouter wires the HTTP surface. Everything under /api except
// registration and login requires a bearer-authenticated actor; insights and
// reports are additionally gated to Admin and Leader.
func NewRouter(cfg *config.Config, db *gorm.DB, deps RouterDeps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryWithLog())
	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.RateLimit(cfg.RateLimit))

	corsConfig := cors.DefaultConfig()
	if cfg.Server.ClientURL == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.Server.ClientURL}
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/health", deps.Health.Handler())
	router.GET("/metrics", monitoring.MetricsHandler())

	authed := middleware.AuthMiddleware(db, deps.Tokens)
	managers := middleware.RequireRoles(models.RoleAdmin, models.RoleLeader)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register-org", deps.Auth.RegisterOrg)
		auth.POST("/login", deps.Auth.Login)
		auth.GET("/me", authed, deps.Auth.Me)

		tasks := api.Group("/tasks", authed)
		tasks.GET("", deps.Tasks.GetTasks)
		tasks.POST("", managers, deps.Tasks.CreateTask)
		tasks.PUT("/:id", deps.Tasks.UpdateTask)
		tasks.DELETE("/:id", managers, deps.Tasks.DeleteTask)

		users := api.Group("/users", authed)
		users.GET("", deps.Users.GetUsers)
		users.POST("", deps.Users.CreateUser)
		users.PUT("/:id", deps.Users.UpdateUser)
		users.DELETE("/:id", deps.Users.DeleteUser)
		users.POST("/transfer-ownership", deps.Users.TransferOwnership)

		insights := api.Group("/insights", authed, managers)
		insights.GET("/productivity", deps.Insights.GetProductivity)
		insights.GET("/risks", deps.Insights.GetRisks)
		insights.GET("/trend", deps.Insights.GetTrend)

		reports := api.Group("/reports", authed, managers)
		reports.GET("/tasks/export", deps.Reports.ExportTasks)
	}

	return router
}
