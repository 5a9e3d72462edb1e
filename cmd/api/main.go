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
	"github.com/rs/zerolog"

	"github.com/publicpulse/publicpulse-api/internal/config"
	"github.com/publicpulse/publicpulse-api/internal/database"
	"github.com/publicpulse/publicpulse-api/internal/handler"
	"github.com/publicpulse/publicpulse-api/internal/middleware"
	"github.com/publicpulse/publicpulse-api/internal/repository"
	"github.com/publicpulse/publicpulse-api/internal/router"
	"github.com/publicpulse/publicpulse-api/internal/service"
	"github.com/publicpulse/publicpulse-api/pkg/localfs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	storage, err := localfs.New(cfg.UploadDir, logger)
	if err != nil {
		log.Fatalf("failed to prepare upload storage: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	issueRepo := repository.NewIssueRepository(db)
	contactRepo := repository.NewContactRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	reportLogRepo := repository.NewReportLogRepository(db)

	issueService := service.NewIssueService(issueRepo, reportLogRepo, storage, validate, cfg.MaxUploadMB, logger)
	contactService := service.NewContactService(contactRepo, validate, logger)
	adminService := service.NewAdminService(adminRepo, validate, logger)
	reportLogService := service.NewReportLogService(reportLogRepo, logger)

	issueHandler := handler.NewIssueHandler(issueService, logger)
	contactHandler := handler.NewContactHandler(contactService, logger)
	adminHandler := handler.NewAdminHandler(adminService, cfg.SessionSecret, cfg.SessionTTL, logger)
	reportLogHandler := handler.NewReportLogHandler(reportLogService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.MaxUploadBytes(),
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		IssueHandler:     issueHandler,
		ContactHandler:   contactHandler,
		AdminHandler:     adminHandler,
		ReportLogHandler: reportLogHandler,
		SessionGate:      middleware.SessionProtected(cfg.SessionSecret),
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
