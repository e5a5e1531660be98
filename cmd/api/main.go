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

	httptransport "github.com/propdesk/maintenance-service/internal/api/http"
	"github.com/propdesk/maintenance-service/internal/api/http/handlers"
	"github.com/propdesk/maintenance-service/internal/auth"
	"github.com/propdesk/maintenance-service/internal/config"
	"github.com/propdesk/maintenance-service/internal/events"
	"github.com/propdesk/maintenance-service/internal/observability"
	"github.com/propdesk/maintenance-service/internal/persistence"
	"github.com/propdesk/maintenance-service/internal/repository"
	"github.com/propdesk/maintenance-service/internal/service"
	"github.com/propdesk/maintenance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open snapshot backend", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer backend.Close()

	roster, err := repository.LoadRoster(cfg.Directory.File)
	if err != nil {
		logger.Fatal("failed to load directory", zap.Error(err))
	}
	if err := auth.HashDirectoryPasswords(roster.Users, cfg.Auth.BcryptCost); err != nil {
		logger.Fatal("failed to hash directory passwords", zap.Error(err))
	}

	ticketRepo, err := repository.NewTicketRepository(ctx, backend.Store)
	if err != nil {
		logger.Fatal("failed to load tickets", zap.Error(err))
	}
	notificationRepo, err := repository.NewNotificationRepository(ctx, backend.Store)
	if err != nil {
		logger.Fatal("failed to load notifications", zap.Error(err))
	}
	staffRepo := repository.NewStaffRepository(roster.Staff)
	userRepo := repository.NewUserRepository(roster.Users)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	dispatcher := events.NewInMemoryDispatcher()
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
		Strict:     cfg.Workflow.Strict,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		Tickets:   ticketService,
		StaffRepo: staffRepo,
		Logger:    logger,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Repo:       notificationRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})
	worker.StartNotificationWorker(cfg.Notify, notificationService, logger)

	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authService := service.NewAuthService(userRepo, tokenMgr, logger)
	authMiddleware := auth.NewAuthMiddleware(tokenMgr, userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, backend.Pingers()),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Assignments:    handlers.NewAssignmentHandler(assignmentService),
		Staff:          handlers.NewStaffHandler(assignmentService),
		Stats:          handlers.NewStatsHandler(ticketService, assignmentService, nil),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	logger.Info("maintenance service starting",
		zap.String("addr", cfg.App.Addr()),
		zap.String("backend", backend.Name),
		zap.Bool("strict_workflow", ticketService.Strict()),
		zap.Int("staff", len(roster.Staff)))

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
