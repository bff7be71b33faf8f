package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/gradelens/gradelens-api/internal/cache"
	"github.com/gradelens/gradelens-api/internal/config"
	"github.com/gradelens/gradelens-api/internal/database"
	"github.com/gradelens/gradelens-api/internal/grading"
	"github.com/gradelens/gradelens-api/internal/handler"
	"github.com/gradelens/gradelens-api/internal/middleware"
	"github.com/gradelens/gradelens-api/internal/plagiarism"
	"github.com/gradelens/gradelens-api/internal/repository"
	"github.com/gradelens/gradelens-api/internal/router"
	"github.com/gradelens/gradelens-api/internal/service"
	"github.com/gradelens/gradelens-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var results cache.Store = cache.NewRedis(redisClient, cfg.ResultCachePrefix)

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, plagiarism events disabled")
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	var reviewer ai.Reviewer
	if cfg.ReviewerEnabled && cfg.OpenAIAPIKey != "" {
		openaiReviewer, err := ai.NewOpenAIReviewer(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai reviewer: %v", err)
		}
		reviewer = openaiReviewer
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	engine := grading.NewEngine(grading.DefaultConfig(), logger)
	detector := plagiarism.NewDetector(plagiarism.DefaultConfig(), logger)

	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	historyRepo := repository.NewGradingHistoryRepository(db)
	reportRepo := repository.NewPlagiarismReportRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, historyRepo, validate, logger)
	gradingService := service.NewGradingService(submissionRepo, historyRepo, engine, results, reviewer, validate, activityService, logger)
	plagiarismService := service.NewPlagiarismService(submissionRepo, reportRepo, detector, results, validate, activityService, logger, service.PlagiarismServiceOptions{
		NATS:              natsConn,
		NATSSubject:       cfg.NATSSubject,
		ComparisonTimeout: cfg.ComparisonTimeout,
		HistoryLimit:      cfg.PriorHistoryLimit,
	})
	analyticsService := service.NewAnalyticsService(analyticsRepo, redisClient, cfg.AnalyticsCacheTTL, logger)

	studentHandler := handler.NewStudentHandler(studentService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, logger)
	plagiarismHandler := handler.NewPlagiarismHandler(plagiarismService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		StudentHandler:    studentHandler,
		AssignmentHandler: assignmentHandler,
		SubmissionHandler: submissionHandler,
		GradingHandler:    gradingHandler,
		PlagiarismHandler: plagiarismHandler,
		AnalyticsHandler:  analyticsHandler,
		ActivityHandler:   activityHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
