package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/assessment-api/internal/config"
	"github.com/yourusername/assessment-api/internal/handler"
	"github.com/yourusername/assessment-api/internal/middleware"
	pgRepo "github.com/yourusername/assessment-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/assessment-api/internal/repository/redis"
	"github.com/yourusername/assessment-api/internal/service"
	"github.com/yourusername/assessment-api/internal/service/assessment"
	"github.com/yourusername/assessment-api/pkg/auth"
	"github.com/yourusername/assessment-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db, ""); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	testRepo := pgRepo.NewTestRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)

	attemptRepo, err := redisRepo.NewAttemptRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize AttemptRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Настройки оценивания: пороги из конфигурации поверх значений по умолчанию
	assessCfg := assessment.DefaultConfig()
	if cfg.Assessment.EasyAccuracyMin > 0 {
		assessCfg.EasyAccuracyMin = cfg.Assessment.EasyAccuracyMin
	}
	if cfg.Assessment.MediumAccuracyMin > 0 {
		assessCfg.MediumAccuracyMin = cfg.Assessment.MediumAccuracyMin
	}
	if cfg.Assessment.HardAccuracyMin > 0 {
		assessCfg.HardAccuracyMin = cfg.Assessment.HardAccuracyMin
	}
	if cfg.Assessment.OverallStrongMin > 0 {
		assessCfg.OverallStrongMin = cfg.Assessment.OverallStrongMin
	}
	if cfg.Assessment.RushedSecondsPerQuestion > 0 {
		assessCfg.RushedSecondsPerQuestion = cfg.Assessment.RushedSecondsPerQuestion
	}
	if cfg.Assessment.MaxRecommendations > 0 {
		assessCfg.MaxRecommendations = cfg.Assessment.MaxRecommendations
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	testService, err := service.NewTestService(testRepo, questionRepo)
	if err != nil {
		log.Printf("Failed to initialize TestService: %v", err)
		os.Exit(1)
	}
	attemptService, err := service.NewAttemptService(
		db, testRepo, questionRepo, attemptRepo, resultRepo, userRepo,
		time.Duration(cfg.Assessment.AttemptGraceSeconds)*time.Second,
	)
	if err != nil {
		log.Printf("Failed to initialize AttemptService: %v", err)
		os.Exit(1)
	}
	resultService, err := service.NewResultService(resultRepo, questionRepo, assessCfg)
	if err != nil {
		log.Printf("Failed to initialize ResultService: %v", err)
		os.Exit(1)
	}
	assistantService, err := service.NewAssistantService(userRepo, resultRepo)
	if err != nil {
		log.Printf("Failed to initialize AssistantService: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	testHandler := handler.NewTestHandler(testService)
	attemptHandler := handler.NewAttemptHandler(attemptService)
	resultHandler := handler.NewResultHandler(resultService)
	assistantHandler := handler.NewAssistantHandler(
		assistantService, jwtService,
		time.Duration(cfg.Assistant.ReplyDelayMs)*time.Millisecond,
	)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiting для auth endpoints (защита от brute-force)
	rateLimiter := middleware.NewRateLimiter(redisClient)
	authRateLimit := rateLimiter.LimitByIP(middleware.StrictAuthRateLimitConfig())

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authRateLimit, authHandler.Register)
			authGroup.POST("/login", authRateLimit, authHandler.Login)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.GET("/me", authHandler.Me)
			}
		}

		// Каталог тестов (публичный: вопросы без правильных ответов)
		tests := api.Group("/tests")
		{
			tests.GET("", testHandler.ListTests)
			tests.GET("/:code", testHandler.GetTest)
		}

		// Попытки
		attempts := api.Group("/attempts")
		attempts.Use(authMiddleware.RequireAuth())
		{
			attempts.POST("", attemptHandler.StartAttempt)
			attempts.GET("/:id", attemptHandler.GetAttempt)
			attempts.PUT("/:id/answers", attemptHandler.SelectAnswer)
			attempts.POST("/:id/submit", attemptHandler.SubmitAttempt)
		}

		// Результаты
		results := api.Group("/results")
		results.Use(authMiddleware.RequireAuth())
		{
			results.GET("", resultHandler.GetMyResults)
			results.GET("/stats", resultHandler.GetMyStats)
			results.GET("/export", resultHandler.ExportMyResults)

			resultWithID := results.Group("/:id")
			resultWithID.Use(middleware.ExtractUintParam("id", "resultID"))
			{
				resultWithID.GET("", resultHandler.GetResultReport)
				resultWithID.GET("/export", resultHandler.ExportResultReport)
			}
		}

		// Ассистент
		assistant := api.Group("/assistant")
		assistant.Use(authMiddleware.RequireAuth())
		{
			assistant.POST("/message", assistantHandler.Message)
		}
	}

	// WebSocket маршрут чата с ассистентом
	router.GET("/ws/assistant", assistantHandler.HandleChat)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждём сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
