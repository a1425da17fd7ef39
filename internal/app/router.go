package app

import (
	"career_bot_backend/docs"
	"career_bot_backend/internal/config"
	"career_bot_backend/internal/middleware"
	"career_bot_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/telegram/webhook", c.webhook.HandleUpdate)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	{
		admin.GET("/questions", c.question.ListQuestions)
		admin.POST("/questions", c.question.CreateQuestion)
		admin.DELETE("/questions/:id", c.question.DeleteQuestion)
		admin.GET("/users/:id/results", c.result.ListUserResults)
	}
}
