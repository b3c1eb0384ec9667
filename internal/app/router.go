package app

import (
	"skillstreak_backend/docs"
	"skillstreak_backend/internal/config"
	"skillstreak_backend/internal/middleware"
	"skillstreak_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.Auth))
	registerAPIRoutes(authGroup, c)
}

// registerAPIRoutes 需要登录的业务接口
func registerAPIRoutes(api *gin.RouterGroup, c *controllers) {
	// 技能自评
	api.GET("/assessment/questions", c.assessment.GetQuestions)
	api.GET("/assessment/:userId", c.assessment.GetAssessment)
	api.POST("/save-assessment", c.assessment.SaveAssessment)

	// 每日挑战
	api.GET("/daily-challenge/:userId", c.challenge.GetDailyChallenge)
	api.POST("/skip-challenge", c.challenge.SkipChallenge)
	api.POST("/complete-challenge", c.challenge.CompleteChallenge)

	// 进度
	api.GET("/progress/:userId", c.progress.GetProgress)

	// 自定义挑战
	api.GET("/custom-challenges/:userId", c.customChallenge.ListCustomChallenges)
	api.POST("/custom-challenges", c.customChallenge.CreateCustomChallenge)
	api.PUT("/custom-challenges/:id", c.customChallenge.UpdateCustomChallenge)
	api.DELETE("/custom-challenges/:id", c.customChallenge.DeleteCustomChallenge)
	api.POST("/custom-challenges/:id/complete", c.customChallenge.CompleteCustomChallenge)

	// 个人资料
	api.GET("/profile", c.profile.GetProfile)
	api.PUT("/profile", c.profile.UpdateProfile)
}
