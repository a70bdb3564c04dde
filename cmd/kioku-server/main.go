package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/kioku-app/kioku/internal/bootstrap"
	"github.com/kioku-app/kioku/internal/config"
	"github.com/kioku-app/kioku/internal/database"
	"github.com/kioku-app/kioku/internal/fsrs"
	"github.com/kioku-app/kioku/internal/progress"
	"github.com/kioku-app/kioku/internal/review"
	"github.com/kioku-app/kioku/internal/server"
	"github.com/kioku-app/kioku/internal/session"
)

var configFile string

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "kioku-server",
		Short:         "Spaced repetition scheduling HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})),
	)
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	service, cleanup, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := server.NewHandler(service)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler.Router(),
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewLoader() > %w", err)
	}
	return loader.Load()
}

func buildService(cfg *config.Config) (*review.Service, func() error, error) {
	params, err := cfg.Scheduler.Parameters()
	if err != nil {
		return nil, nil, fmt.Errorf("scheduler config > %w", err)
	}
	scheduler, err := fsrs.NewScheduler(params)
	if err != nil {
		return nil, nil, fmt.Errorf("fsrs.NewScheduler() > %w", err)
	}

	composer := session.NewComposer()
	aggregator := progress.NewAggregator(cfg.Study.MasteryStabilityThresholdDays)
	limits := session.Limits{
		DailyNew:    cfg.Study.DailyNewLimit,
		DailyReview: cfg.Study.DailyReviewLimit,
	}

	cleanup := func() error { return nil }
	var (
		records      review.RecordRepository
		logs         review.LogRepository
		items        review.ItemRepository
		progressRepo review.ProgressRepository
	)
	switch cfg.Store.Backend {
	case "mysql":
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		cleanup = db.Close
		records = review.NewDBRecordRepository(db)
		logs = review.NewDBLogRepository(db)
		items = review.NewDBItemRepository(db)
		progressRepo = review.NewDBProgressRepository(db)
	case "yaml":
		store := review.NewYAMLStore(cfg.Store.YAMLDirectory)
		records = store
		logs = store
		items = review.NewYAMLItemRepository(cfg.Store.YAMLDirectory)
		progressRepo = store.ProgressRepository()
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	service := review.NewService(scheduler, composer, aggregator,
		records, logs, items, progressRepo, limits)
	return service, cleanup, nil
}
