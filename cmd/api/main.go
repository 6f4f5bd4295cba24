package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jansankalp/grievance-service/internal/ai"
	httptransport "github.com/jansankalp/grievance-service/internal/api/http"
	"github.com/jansankalp/grievance-service/internal/api/http/handlers"
	"github.com/jansankalp/grievance-service/internal/auth"
	"github.com/jansankalp/grievance-service/internal/config"
	"github.com/jansankalp/grievance-service/internal/events"
	"github.com/jansankalp/grievance-service/internal/notify"
	"github.com/jansankalp/grievance-service/internal/observability"
	"github.com/jansankalp/grievance-service/internal/persistence"
	"github.com/jansankalp/grievance-service/internal/repository"
	"github.com/jansankalp/grievance-service/internal/service"
	"github.com/jansankalp/grievance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	remarkRepo := repository.NewRemarkRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewAsyncDispatcher()
	realtime := notify.NewRedisPublisher(redis.Client)
	emailSender := notify.NewSendgridSender(cfg.Notification.SendgridAPIKey, cfg.Notification.EmailFrom)

	primaryClassifier := ai.NewHTTPClassifier(cfg.AI.ClassifierURL,
		time.Duration(cfg.AI.ClassifierTimeoutSec)*time.Second)
	fallbackClassifier := ai.NewLLMClassifier(cfg.AI.FallbackURL, cfg.AI.FallbackAPIKey,
		cfg.AI.FallbackModel, time.Duration(cfg.AI.FallbackTimeoutSec)*time.Second)
	verifier := ai.NewHTTPVerifier(cfg.AI.VerifierURL,
		time.Duration(cfg.AI.VerifierTimeoutSec)*time.Second)

	classificationService := service.NewClassificationService(primaryClassifier, fallbackClassifier, logger)
	intakeService := service.NewIntakeService(service.IntakeDependencies{
		ReportRepo:     reportRepo,
		UserRepo:       userRepo,
		Classification: classificationService,
		Realtime:       realtime,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		ReportRepo: reportRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	resolutionService := service.NewResolutionService(service.ResolutionDependencies{
		ReportRepo: reportRepo,
		RemarkRepo: remarkRepo,
		Verifier:   verifier,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		ReportRepo:     reportRepo,
		RemarkRepo:     remarkRepo,
		DepartmentRepo: departmentRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		Realtime:         realtime,
		Email:            emailSender,
		Metrics:          metrics,
		Logger:           logger,
		DispatchTimeout:  cfg.Notification.DispatchTimeout(),
	})

	worker.StartNotificationWorker(dispatcher, notificationService)

	escalationWorker := worker.NewEscalationWorker(reportRepo, dispatcher, cfg.Escalation, logger)
	if err := escalationWorker.Start(); err != nil {
		logger.Fatal("failed to start escalation worker", zap.Error(err))
	}
	defer escalationWorker.Stop()

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret)
	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, cfg.AI),
		Reports:        handlers.NewReportsHandler(intakeService, resolutionService),
		Officer:        handlers.NewOfficerHandler(resolutionService),
		Admin:          handlers.NewAdminHandler(adminService, assignmentService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
