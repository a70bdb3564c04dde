// Package cli contains the interactive terminal frontend for study
// sessions and progress reporting.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/fsrs"
	"github.com/kioku-app/kioku/internal/progress"
	"github.com/kioku-app/kioku/internal/review"
	"github.com/kioku-app/kioku/internal/session"
)

//go:generate mockgen -source=study.go -destination=../mocks/cli/mock_service.go -package=mock_cli

// Service is the part of the review service the CLI needs.
type Service interface {
	SubmitReview(ctx context.Context, userID, itemID, collectionID uuid.UUID, rating fsrs.Rating, now time.Time) (*review.ReviewResult, error)
	PreviewItem(ctx context.Context, userID, itemID, collectionID uuid.UUID, now time.Time) (map[fsrs.Rating]string, error)
	TodaySession(ctx context.Context, userID, collectionID uuid.UUID, now time.Time) (*session.StudySession, error)
	CollectionProgress(ctx context.Context, userID, collectionID uuid.UUID, now time.Time) (*progress.Aggregate, error)
}

// errEnd signals a session finished by the user rather than by error.
var errEnd = errors.New("end of session")

// StudyCLI runs one interactive study session in the terminal.
type StudyCLI struct {
	service      Service
	userID       uuid.UUID
	collectionID uuid.UUID

	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	faint        *color.Color
	green        *color.Color
	red          *color.Color
	now          func() time.Time
}

// NewStudyCLI creates a StudyCLI reading from stdin and writing to stdout.
func NewStudyCLI(service Service, userID, collectionID uuid.UUID) *StudyCLI {
	return &StudyCLI{
		service:      service,
		userID:       userID,
		collectionID: collectionID,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		faint:        color.New(color.Faint),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
		now:          time.Now,
	}
}

// Run walks through today's queue until it is empty or the user quits.
func (cli *StudyCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	studySession, err := cli.service.TodaySession(ctx, cli.userID, cli.collectionID, cli.now())
	if err != nil {
		return fmt.Errorf("compose session: %w", err)
	}
	if studySession.TotalCount() == 0 {
		fmt.Fprintln(cli.stdoutWriter, "Nothing due today.")
		return nil
	}

	cli.bold.Fprintf(cli.stdoutWriter, "Study session: %d reviews, %d new items (~%d min)\n",
		len(studySession.ReviewItems), len(studySession.NewItemIDs), studySession.EstimatedMinutes)

	queue := make([]uuid.UUID, 0, studySession.TotalCount())
	for _, entry := range studySession.ReviewItems {
		queue = append(queue, entry.ItemID)
	}
	queue = append(queue, studySession.NewItemIDs...)

	reviewed := 0
	correct := 0
	for _, itemID := range queue {
		select {
		case <-ctx.Done():
			return cli.summarize(reviewed, correct)
		default:
		}
		ok, err := cli.reviewOne(ctx, itemID)
		if err != nil {
			if errors.Is(err, errEnd) || errors.Is(err, context.Canceled) {
				break
			}
			return err
		}
		reviewed++
		if ok {
			correct++
		}
	}

	return cli.summarize(reviewed, correct)
}

// reviewOne shows one item's preview, reads a rating and submits it. The
// returned bool reports whether the recall was rated a success.
func (cli *StudyCLI) reviewOne(ctx context.Context, itemID uuid.UUID) (bool, error) {
	preview, err := cli.service.PreviewItem(ctx, cli.userID, itemID, cli.collectionID, cli.now())
	if err != nil {
		return false, fmt.Errorf("preview item: %w", err)
	}

	fmt.Fprintln(cli.stdoutWriter)
	cli.bold.Fprintf(cli.stdoutWriter, "Item %s\n", itemID)
	cli.printPreview(preview)

	rating, err := cli.readRating()
	if err != nil {
		return false, err
	}

	result, err := cli.service.SubmitReview(ctx, cli.userID, itemID, cli.collectionID, rating, cli.now())
	if err != nil {
		return false, fmt.Errorf("submit review: %w", err)
	}

	if rating.Success() {
		cli.green.Fprintf(cli.stdoutWriter, "Next review: %s\n", formatDue(result.Record.DueAt, cli.now()))
	} else {
		cli.red.Fprintf(cli.stdoutWriter, "Again in %s\n", formatDue(result.Record.DueAt, cli.now()))
	}
	return rating.Success(), nil
}

func (cli *StudyCLI) printPreview(preview map[fsrs.Rating]string) {
	for _, rating := range fsrs.Ratings() {
		cli.faint.Fprintf(cli.stdoutWriter, "  [%d] %s (%s)\n", int(rating), rating, preview[rating])
	}
}

// readRating loops until the user enters 1-4 or quits with q.
func (cli *StudyCLI) readRating() (fsrs.Rating, error) {
	for {
		fmt.Fprint(cli.stdoutWriter, "How well did you recall it? [1-4, q to quit]: ")
		line, err := cli.stdinReader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, errEnd
			}
			return 0, fmt.Errorf("read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "q" || input == "quit" {
			return 0, errEnd
		}
		value, err := strconv.Atoi(input)
		if err == nil {
			rating := fsrs.Rating(value)
			if rating.Valid() {
				return rating, nil
			}
		}
		fmt.Fprintln(cli.stdoutWriter, "Please enter 1 (again), 2 (hard), 3 (good), 4 (easy) or q.")
	}
}

func (cli *StudyCLI) summarize(reviewed, correct int) error {
	fmt.Fprintln(cli.stdoutWriter)
	if reviewed == 0 {
		fmt.Fprintln(cli.stdoutWriter, "No items reviewed.")
		return nil
	}
	cli.bold.Fprintf(cli.stdoutWriter, "Session finished: %d reviewed, %d correct\n", reviewed, correct)
	return nil
}

func formatDue(dueAt, now time.Time) string {
	delta := dueAt.Sub(now)
	switch {
	case delta < time.Minute:
		return "less than a minute"
	case delta < time.Hour:
		return fmt.Sprintf("%d minutes", int(delta.Minutes()))
	case delta < 24*time.Hour:
		return fmt.Sprintf("%d hours", int(delta.Hours()))
	default:
		return fmt.Sprintf("%d days", int(delta.Hours()/24))
	}
}
