package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/progress"
)

// StatsCLI prints collection progress to the terminal.
type StatsCLI struct {
	service      Service
	userID       uuid.UUID
	collectionID uuid.UUID

	stdoutWriter io.Writer
	bold         *color.Color
	green        *color.Color
	now          func() time.Time
}

// NewStatsCLI creates a StatsCLI writing to stdout.
func NewStatsCLI(service Service, userID, collectionID uuid.UUID) *StatsCLI {
	return &StatsCLI{
		service:      service,
		userID:       userID,
		collectionID: collectionID,
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		green:        color.New(color.FgGreen),
		now:          time.Now,
	}
}

// Run loads and renders the collection's progress.
func (cli *StatsCLI) Run(ctx context.Context) error {
	aggregate, err := cli.service.CollectionProgress(ctx, cli.userID, cli.collectionID, cli.now())
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	cli.render(aggregate)
	return nil
}

func (cli *StatsCLI) render(aggregate *progress.Aggregate) {
	total := aggregate.MasteredCount + aggregate.LearningCount + aggregate.NewCount

	cli.bold.Fprintf(cli.stdoutWriter, "Collection %s\n", aggregate.CollectionID)
	fmt.Fprintf(cli.stdoutWriter, "  Items:     %d total\n", total)
	cli.green.Fprintf(cli.stdoutWriter, "  Mastered:  %d\n", aggregate.MasteredCount)
	fmt.Fprintf(cli.stdoutWriter, "  Learning:  %d\n", aggregate.LearningCount)
	fmt.Fprintf(cli.stdoutWriter, "  New:       %d\n", aggregate.NewCount)
	fmt.Fprintf(cli.stdoutWriter, "  Accuracy:  %.1f%%\n", aggregate.AccuracyPercent)
	fmt.Fprintf(cli.stdoutWriter, "  Streak:    %d days\n", aggregate.StreakDays)
	fmt.Fprintf(cli.stdoutWriter, "  Today:     %d reviews, %d new\n",
		aggregate.ReviewsToday, aggregate.NewWordsToday)
}
