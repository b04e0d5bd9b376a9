package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/perspective-app/perspective-backend/internal/handlers"
  "github.com/perspective-app/perspective-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler       *handlers.AuthHandler
  AuthMiddleware    *middleware.AuthMiddleware
  UserHandler       *handlers.UserHandler
  ChallengeHandler  *handlers.ChallengeHandler
  SubmissionHandler *handlers.SubmissionHandler
  EchoScoreHandler  *handlers.EchoScoreHandler
  ProgressHandler   *handlers.ProgressHandler
  ArticleHandler    *handlers.ArticleHandler
  AllowedOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("perspective"))

  // Cors
  origins := cfg.AllowedOrigins
  if len(origins) == 0 {
    origins = []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    }
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/api/register", cfg.AuthHandler.Register)
  router.POST("/api/login", cfg.AuthHandler.Login)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // User
  protected.GET("/user", cfg.UserHandler.GetMe)
  protected.PATCH("/user/bias-profile", cfg.UserHandler.UpdateBiasProfile)
  protected.DELETE("/user", cfg.UserHandler.Deactivate)
  protected.GET("/user/streak", cfg.SubmissionHandler.GetStreak)
  // Challenges
  protected.GET("/challenges", cfg.ChallengeHandler.ListByType)
  protected.GET("/challenges/today", cfg.ChallengeHandler.GetToday)
  protected.GET("/challenges/next", cfg.ProgressHandler.GetNextChallenge)
  protected.GET("/challenges/recommendations", cfg.ProgressHandler.GetRecommendations)
  protected.GET("/challenges/:id", cfg.ChallengeHandler.GetByID)
  protected.POST("/challenges/:id/submit", cfg.SubmissionHandler.Submit)
  protected.POST("/challenges/batch-submit", cfg.SubmissionHandler.SubmitBatch)
  // Echo score
  protected.GET("/echo-score", cfg.EchoScoreHandler.GetCurrent)
  protected.POST("/echo-score/calculate", cfg.EchoScoreHandler.Calculate)
  protected.GET("/echo-score/history", cfg.EchoScoreHandler.GetHistory)
  protected.GET("/echo-score/progress", cfg.EchoScoreHandler.GetProgress)
  // Progress
  protected.GET("/progress", cfg.ProgressHandler.GetProgress)
  // Articles
  protected.GET("/articles", cfg.ArticleHandler.List)
  protected.POST("/articles/:id/read", cfg.ArticleHandler.RecordRead)

  return router
}
