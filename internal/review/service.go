package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/fsrs"
	"github.com/kioku-app/kioku/internal/progress"
	"github.com/kioku-app/kioku/internal/session"
)

// concurrentUpdateAttempts bounds how often a lost save is replayed from
// the fresh record before giving up.
const concurrentUpdateAttempts = 3

// Service applies reviews end to end and answers session and progress
// queries. The engine itself stays pure; all I/O goes through the injected
// repositories.
type Service struct {
	scheduler  *fsrs.Scheduler
	composer   *session.Composer
	aggregator *progress.Aggregator

	records  RecordRepository
	logs     LogRepository
	items    ItemRepository
	progress ProgressRepository

	limits session.Limits
}

// NewService creates a Service.
func NewService(
	scheduler *fsrs.Scheduler,
	composer *session.Composer,
	aggregator *progress.Aggregator,
	records RecordRepository,
	logs LogRepository,
	items ItemRepository,
	progressRepo ProgressRepository,
	limits session.Limits,
) *Service {
	return &Service{
		scheduler:  scheduler,
		composer:   composer,
		aggregator: aggregator,
		records:    records,
		logs:       logs,
		items:      items,
		progress:   progressRepo,
		limits:     limits,
	}
}

// ReviewResult is the outcome of one submitted review.
type ReviewResult struct {
	Record   *Record
	Progress *progress.Aggregate
}

// SubmitReview applies one rating to an item. A missing record means the
// item is being reviewed for the first time and an initial record is
// created. A save lost to a concurrent writer is replayed from the fresh
// record; the transition itself is pure, so re-running it is safe.
func (s *Service) SubmitReview(ctx context.Context, userID, itemID, collectionID uuid.UUID, rating fsrs.Rating, now time.Time) (*ReviewResult, error) {
	var result *ReviewResult
	err := retry.Do(
		func() error {
			outcome, err := s.submitOnce(ctx, userID, itemID, collectionID, rating, now)
			if err != nil {
				if errors.Is(err, ErrConcurrentUpdate) {
					slog.Debug("review save lost to concurrent writer, replaying",
						"user_id", userID, "item_id", itemID)
					return err
				}
				return retry.Unrecoverable(err)
			}
			result = outcome
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(concurrentUpdateAttempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) submitOnce(ctx context.Context, userID, itemID, collectionID uuid.UUID, rating fsrs.Rating, now time.Time) (*ReviewResult, error) {
	record, err := s.records.Find(ctx, userID, itemID)
	isNewItem := false
	if errors.Is(err, ErrRecordNotFound) {
		record = NewItemRecord(userID, itemID, collectionID, now)
		isNewItem = true
	} else if err != nil {
		return nil, err
	}

	next, entry, err := s.scheduler.Review(record.Record, rating, now)
	if err != nil {
		return nil, fmt.Errorf("compute transition: %w", err)
	}
	record.Record = next

	if err := s.records.Save(ctx, record); err != nil {
		return nil, err
	}

	if err := s.logs.Append(ctx, &LogEntry{
		ReviewLog:    entry,
		UserID:       userID,
		ItemID:       itemID,
		CollectionID: collectionID,
	}); err != nil {
		return nil, fmt.Errorf("append review log: %w", err)
	}

	aggregate, err := s.refreshProgress(ctx, userID, collectionID, now, isNewItem)
	if err != nil {
		return nil, err
	}

	return &ReviewResult{Record: record, Progress: aggregate}, nil
}

// refreshProgress recomputes the collection counters from the full pool and
// advances the streak and daily counters for the review that just happened.
func (s *Service) refreshProgress(ctx context.Context, userID, collectionID uuid.UUID, now time.Time, isNewItem bool) (*progress.Aggregate, error) {
	aggregate, err := s.progress.Find(ctx, userID, collectionID)
	if errors.Is(err, ErrProgressNotFound) {
		aggregate = &progress.Aggregate{
			UserID:           userID,
			CollectionID:     collectionID,
			DailyNewLimit:    s.limits.DailyNew,
			DailyReviewLimit: s.limits.DailyReview,
		}
	} else if err != nil {
		return nil, err
	}

	pool, err := s.records.FindPool(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	totalItems, err := s.items.CountItems(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	s.aggregator.Recompute(aggregate, poolRecords(pool), totalItems)
	s.aggregator.RecordReview(aggregate, now, isNewItem)

	if err := s.progress.Save(ctx, aggregate); err != nil {
		return nil, err
	}
	return aggregate, nil
}

// PreviewItem returns the four per-rating delay labels for an item, without
// committing anything. Unknown items preview as brand-new records.
func (s *Service) PreviewItem(ctx context.Context, userID, itemID, collectionID uuid.UUID, now time.Time) (map[fsrs.Rating]string, error) {
	record, err := s.records.Find(ctx, userID, itemID)
	if errors.Is(err, ErrRecordNotFound) {
		record = NewItemRecord(userID, itemID, collectionID, now)
	} else if err != nil {
		return nil, err
	}
	labels, err := s.scheduler.PreviewAll(record.Record, now)
	if err != nil {
		return nil, fmt.Errorf("preview transitions: %w", err)
	}
	return labels, nil
}

// TodaySession composes the bounded study queue for a collection.
func (s *Service) TodaySession(ctx context.Context, userID, collectionID uuid.UUID, now time.Time) (*session.StudySession, error) {
	pool, err := s.records.FindPool(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}

	entries := make([]session.Entry, len(pool))
	seen := make([]uuid.UUID, len(pool))
	for i, record := range pool {
		entries[i] = session.Entry{ItemID: record.ItemID, Record: record.Record}
		seen[i] = record.ItemID
	}

	unseen, err := s.items.FindUnseenItemIDs(ctx, collectionID, seen)
	if err != nil {
		return nil, err
	}

	composed := s.composer.Compose(entries, unseen, now, s.limits)
	return &composed, nil
}

// CollectionProgress returns the collection's progress aggregate,
// recomputed from the live pool so the counts are never stale, with daily
// counters rolled over on date change.
func (s *Service) CollectionProgress(ctx context.Context, userID, collectionID uuid.UUID, now time.Time) (*progress.Aggregate, error) {
	aggregate, err := s.progress.Find(ctx, userID, collectionID)
	if errors.Is(err, ErrProgressNotFound) {
		aggregate = &progress.Aggregate{
			UserID:           userID,
			CollectionID:     collectionID,
			DailyNewLimit:    s.limits.DailyNew,
			DailyReviewLimit: s.limits.DailyReview,
		}
	} else if err != nil {
		return nil, err
	}

	pool, err := s.records.FindPool(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	totalItems, err := s.items.CountItems(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	s.aggregator.Recompute(aggregate, poolRecords(pool), totalItems)
	s.aggregator.RolloverIfStale(aggregate, now)
	return aggregate, nil
}

// Mastery returns the display classification of one item.
func (s *Service) Mastery(ctx context.Context, userID, itemID uuid.UUID) (progress.Mastery, error) {
	record, err := s.records.Find(ctx, userID, itemID)
	if errors.Is(err, ErrRecordNotFound) {
		return progress.MasteryNew, nil
	}
	if err != nil {
		return "", err
	}
	return progress.MasteryOf(record.State, record.Stability, s.aggregator.MasteryThresholdDays()), nil
}

func poolRecords(pool []Record) []fsrs.Record {
	records := make([]fsrs.Record, len(pool))
	for i, record := range pool {
		records[i] = record.Record
	}
	return records
}
