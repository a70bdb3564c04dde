package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kioku-app/kioku/internal/config"
	"github.com/kioku-app/kioku/internal/database"
	"github.com/kioku-app/kioku/internal/fsrs"
	"github.com/kioku-app/kioku/internal/progress"
	"github.com/kioku-app/kioku/internal/review"
	"github.com/kioku-app/kioku/internal/session"
)

var (
	configFile string
)

func main() {
	var debugMode bool
	rootCommand := cobra.Command{
		Use:           "kioku",
		Short:         "Spaced repetition scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	rootCommand.AddCommand(
		newStudyCommand(),
		newStatsCommand(),
		newMigrateCommand(),
	)
	if err := rootCommand.Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewLoader() > %w", err)
	}
	return loader.Load()
}

// buildService wires the review service from configuration. The cleanup
// function closes the database connection when the mysql backend is used.
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
