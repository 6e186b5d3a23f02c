// Command slasweep runs one SLA sweep and exits. Intended to be scheduled
// from cron; the exit code reports whether the sweep itself succeeded, not
// whether breaches were found.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/finverge/payflow/internal/application/dispatcher"
	"github.com/finverge/payflow/internal/application/service"
	"github.com/finverge/payflow/internal/config"
	"github.com/finverge/payflow/internal/infrastructure/directory"
	"github.com/finverge/payflow/internal/infrastructure/notify"
	"github.com/finverge/payflow/internal/infrastructure/persistence/repository"
	"github.com/finverge/payflow/internal/infrastructure/persistence/sqlite"
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

	dir, err := directory.NewStaticDirectory(cfg.Workflow.DirectoryUsers())
	if err != nil {
		logger.Fatal("Invalid directory configuration", zap.Error(err))
	}

	txManager := sqlite.NewDB(db.DB, logger)
	requestRepo := repository.NewRequestRepository(db.DB, cfg.Workflow.ReferencePrefix, logger)
	stepRepo := repository.NewStepRepository(db.DB, logger)
	breachRepo := repository.NewBreachRepository(db.DB, logger)
	notificationRepo := repository.NewNotificationRepository(db.DB, logger)

	sugar := appLogger{logger.Sugar()}

	disp := dispatcher.NewDispatcher(dispatcher.WithLogger(sugar))

	notifier := notify.NewEmailNotifier(cfg.SMTP.SMTPSettings(), dir, notificationRepo, logger)
	notificationService := service.NewNotificationService(dir, notifier, sugar)
	notificationService.Register(disp)

	sweep := service.NewSweepService(requestRepo, stepRepo, breachRepo, txManager, disp, sugar)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logged, err := sweep.Run(ctx)
	if err != nil {
		logger.Error("SLA sweep failed", zap.Error(err))
		disp.Close()
		os.Exit(1)
	}

	// Let in-flight breach alerts finish before exiting.
	disp.Close()

	fmt.Printf("sla sweep complete: %d new breach(es) logged\n", logged)
}

type appLogger struct {
	s *zap.SugaredLogger
}

func (l appLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l appLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}
