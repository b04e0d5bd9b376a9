package main

import (
  "context"
  "fmt"
  "os"
  "strings"
  "time"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/utils"
  "github.com/perspective-app/perspective-backend/internal/db"
  "github.com/perspective-app/perspective-backend/internal/clients/redis"
  "github.com/perspective-app/perspective-backend/internal/observability"
  "github.com/perspective-app/perspective-backend/internal/repos"
  "github.com/perspective-app/perspective-backend/internal/services"
  "github.com/perspective-app/perspective-backend/internal/handlers"
  "github.com/perspective-app/perspective-backend/internal/middleware"
  "github.com/perspective-app/perspective-backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)

  // Tracing
  shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "perspective",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if shutdownTracing != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdownTracing(ctx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  challengeRepo := repos.NewChallengeRepo(thePG, log)
  submissionRepo := repos.NewSubmissionRepo(thePG, log)
  echoScoreHistoryRepo := repos.NewEchoScoreHistoryRepo(thePG, log)
  dailySelectionRepo := repos.NewDailySelectionRepo(thePG, log)
  userChallengeStatsRepo := repos.NewUserChallengeStatsRepo(thePG, log)
  newsArticleRepo := repos.NewNewsArticleRepo(thePG, log)
  userActivityRepo := repos.NewUserActivityRepo(thePG, log)

  // Redis
  log.Info("Setting up daily selection cache from main...")
  dailyCache, err := redis.NewDailySelectionCache(log)
  if err != nil {
    log.Warn("Daily selection cache unavailable, continuing without it", "error", err)
    dailyCache = nil
  }
  if dailyCache != nil {
    defer dailyCache.Close()
  }

  // Services
  log.Info("Setting up Services from main...")
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo)
  echoScoreService := services.NewEchoScoreService(thePG, log, userRepo, submissionRepo, userActivityRepo, echoScoreHistoryRepo)
  adaptiveService := services.NewAdaptiveService(thePG, log, challengeRepo, submissionRepo, userChallengeStatsRepo, dailySelectionRepo, dailyCache)
  challengeService := services.NewChallengeService(thePG, log, challengeRepo, dailySelectionRepo, adaptiveService, dailyCache)
  submissionService := services.NewSubmissionService(thePG, log, userRepo, challengeRepo, submissionRepo, userChallengeStatsRepo)
  articleService := services.NewArticleService(thePG, log, newsArticleRepo, userActivityRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  challengeHandler := handlers.NewChallengeHandler(challengeService)
  submissionHandler := handlers.NewSubmissionHandler(submissionService)
  echoScoreHandler := handlers.NewEchoScoreHandler(echoScoreService)
  progressHandler := handlers.NewProgressHandler(adaptiveService)
  articleHandler := handlers.NewArticleHandler(articleService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  var origins []string
  if allowedOrigins != "" {
    for _, o := range strings.Split(allowedOrigins, ",") {
      if o = strings.TrimSpace(o); o != "" {
        origins = append(origins, o)
      }
    }
  }
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:       authHandler,
    AuthMiddleware:    authMiddleware,
    UserHandler:       userHandler,
    ChallengeHandler:  challengeHandler,
    SubmissionHandler: submissionHandler,
    EchoScoreHandler:  echoScoreHandler,
    ProgressHandler:   progressHandler,
    ArticleHandler:    articleHandler,
    AllowedOrigins:    origins,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
