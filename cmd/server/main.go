package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/anphu-security/guardops/internal/config"
	"github.com/anphu-security/guardops/internal/contract"
	"github.com/anphu-security/guardops/internal/domain/event"
	"github.com/anphu-security/guardops/internal/email"
	"github.com/anphu-security/guardops/internal/export"
	"github.com/anphu-security/guardops/internal/extract"
	httpadapter "github.com/anphu-security/guardops/internal/interfaces/http"
	"github.com/anphu-security/guardops/internal/job"
	"github.com/anphu-security/guardops/internal/mediator"
	"github.com/anphu-security/guardops/internal/notification"
	"github.com/anphu-security/guardops/internal/repository"
	"github.com/anphu-security/guardops/internal/shift"
	"github.com/anphu-security/guardops/internal/storage"
	"github.com/anphu-security/guardops/internal/validation"
	"github.com/anphu-security/guardops/pkg/database"
	"github.com/anphu-security/guardops/pkg/utils"
)

func main() {
	// Load .env if present, then configuration
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting GuardOps contract management system",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	contractRepo := repository.NewContractRepository(db.DB, logger)
	customerRepo := repository.NewCustomerRepository(db.DB, logger)
	locationRepo := repository.NewLocationRepository(db.DB, logger)
	scheduleRepo := repository.NewScheduleRepository(db.DB, logger)
	holidayRepo := repository.NewHolidayRepository(db.DB, logger)
	guardRepo := repository.NewGuardRepository(db.DB, logger)
	shiftRepo := repository.NewShiftRepository(db.DB, logger)
	leaveRepo := repository.NewLeaveRepository(db.DB, logger)

	// Initialize event dispatcher and the email fan-out
	dispatcher := event.NewDispatcher(logger)
	defer dispatcher.Close()

	if cfg.SMTP.Enabled {
		sender := email.NewSender(email.Config{
			Host:            cfg.SMTP.Host,
			Port:            cfg.SMTP.Port,
			Username:        cfg.SMTP.Username,
			Password:        cfg.SMTP.Password,
			From:            cfg.SMTP.From,
			OperationsEmail: cfg.SMTP.OperationsEmail,
		}, logger)
		notifier := notification.NewNotifier(sender, cfg.Validation.AlertThreshold, logger)
		notifier.Subscribe(dispatcher)
	} else {
		logger.Info("SMTP disabled, email notifications are off")
	}

	// Initialize the document validator
	store := repository.NewValidationStore(contractRepo, customerRepo, locationRepo, scheduleRepo, holidayRepo)
	extractor := extract.NewExtractor(logger)
	validator := validation.NewValidator(store, extractor, logger)

	// Initialize document archive storage
	docs, err := storage.NewDocumentStore(cfg.Storage.DocumentsDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize document storage", zap.Error(err))
	}

	// Initialize services
	contractService := contract.NewService(
		contractRepo,
		customerRepo,
		locationRepo,
		scheduleRepo,
		validator,
		docs,
		dispatcher,
		cfg.Storage.TemplatesDir,
		logger,
	)

	rosterExporter := export.NewRosterExporter(logger)
	shiftService := shift.NewService(
		db,
		contractRepo,
		scheduleRepo,
		shiftRepo,
		guardRepo,
		leaveRepo,
		rosterExporter,
		dispatcher,
		logger,
	)

	// Wire the mediator
	m := mediator.New(logger)
	contract.RegisterHandlers(m, contractService)
	shift.RegisterHandlers(m, shiftService)

	// Start the contract expiry sweeper
	sweeper := job.NewExpirySweeper(contractRepo, dispatcher, logger)
	if err := sweeper.Start(cfg.Jobs.ExpirySchedule); err != nil {
		logger.Fatal("Failed to start expiry sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	// Start the HTTP server; shut down on SIGINT/SIGTERM
	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
