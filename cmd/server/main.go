package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/finverge/payflow/internal/application/dispatcher"
	"github.com/finverge/payflow/internal/application/service"
	"github.com/finverge/payflow/internal/config"
	"github.com/finverge/payflow/internal/infrastructure/directory"
	"github.com/finverge/payflow/internal/infrastructure/notify"
	"github.com/finverge/payflow/internal/infrastructure/persistence/repository"
	"github.com/finverge/payflow/internal/infrastructure/persistence/sqlite"
	httpserver "github.com/finverge/payflow/internal/interfaces/http"
	"github.com/finverge/payflow/pkg/database"
	"github.com/finverge/payflow/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	configPath := "configs/config.yaml"
	if p := os.Getenv("PAYFLOW_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

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

	logger.Info("Starting payment approval workflow service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

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

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Workflow configuration becomes explicit domain values here; nothing
	// below this point reads configuration ambiently.
	ladder, err := cfg.Workflow.BuildLadder()
	if err != nil {
		logger.Fatal("Invalid ladder configuration", zap.Error(err))
	}
	slaPolicy, err := cfg.Workflow.BuildSLAPolicy()
	if err != nil {
		logger.Fatal("Invalid SLA configuration", zap.Error(err))
	}
	guard := cfg.Workflow.BuildGuard()

	dir, err := directory.NewStaticDirectory(cfg.Workflow.DirectoryUsers())
	if err != nil {
		logger.Fatal("Invalid directory configuration", zap.Error(err))
	}

	// Persistence
	txManager := sqlite.NewDB(db.DB, logger)
	requestRepo := repository.NewRequestRepository(db.DB, cfg.Workflow.ReferencePrefix, logger)
	stepRepo := repository.NewStepRepository(db.DB, logger)
	actionRepo := repository.NewActionRepository(db.DB, logger)
	breachRepo := repository.NewBreachRepository(db.DB, logger)
	notificationRepo := repository.NewNotificationRepository(db.DB, logger)

	sugar := appLogger{logger.Sugar()}

	// Events and notifications
	disp := dispatcher.NewDispatcher(dispatcher.WithLogger(sugar))
	defer disp.Close()

	notifier := notify.NewEmailNotifier(cfg.SMTP.SMTPSettings(), dir, notificationRepo, logger)
	notificationService := service.NewNotificationService(dir, notifier, sugar)
	notificationService.Register(disp)

	// Application services
	requestService := service.NewRequestService(
		requestRepo, stepRepo, actionRepo, breachRepo,
		txManager, dir, disp, ladder, slaPolicy, guard, sugar,
	)
	sweepService := service.NewSweepService(
		requestRepo, stepRepo, breachRepo, txManager, disp, sugar,
	)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		JWTSecret:    cfg.Auth.JWTSecret,
	}, requestService, sweepService, notificationRepo, dir, sugar)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// appLogger adapts the zap sugared logger to the key/value logging interface
// the application layer expects.
type appLogger struct {
	s *zap.SugaredLogger
}

func (l appLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l appLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}
