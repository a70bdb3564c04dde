package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kioku-app/kioku/internal/database"
	"github.com/kioku-app/kioku/internal/progress"
)

// DBRecordRepository implements RecordRepository using MySQL.
type DBRecordRepository struct {
	db *sqlx.DB
}

// NewDBRecordRepository creates a new DBRecordRepository.
func NewDBRecordRepository(db *sqlx.DB) *DBRecordRepository {
	return &DBRecordRepository{db: db}
}

// Find returns the scheduling record for a user and item.
func (r *DBRecordRepository) Find(ctx context.Context, userID, itemID uuid.UUID) (*Record, error) {
	var record Record
	err := r.db.GetContext(ctx, &record,
		"SELECT * FROM scheduling_records WHERE user_id = ? AND item_id = ?", userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load scheduling record: %w", err)
	}
	return &record, nil
}

// FindPool returns every scheduling record of the collection for the user.
func (r *DBRecordRepository) FindPool(ctx context.Context, userID, collectionID uuid.UUID) ([]Record, error) {
	var records []Record
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM scheduling_records WHERE user_id = ? AND collection_id = ? ORDER BY due_at",
		userID, collectionID)
	if err != nil {
		return nil, fmt.Errorf("load scheduling records: %w", err)
	}
	return records, nil
}

// Save replaces the record. A version mismatch means another writer got
// there first and is surfaced as ErrConcurrentUpdate; on success the
// record's version is advanced in place.
func (r *DBRecordRepository) Save(ctx context.Context, record *Record) error {
	if record.Version == 0 {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO scheduling_records (
				user_id, item_id, collection_id, state, difficulty, stability,
				elapsed_days, scheduled_days, reps, lapses, learning_step,
				is_learning_phase, total_reviews, correct_reviews,
				last_review_at, due_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			record.UserID, record.ItemID, record.CollectionID, record.State,
			record.Difficulty, record.Stability, record.ElapsedDays,
			record.ScheduledDays, record.Reps, record.Lapses, record.LearningStep,
			record.IsLearningPhase, record.TotalReviews, record.CorrectReviews,
			record.LastReviewAt, record.DueAt,
		)
		if err != nil {
			return fmt.Errorf("insert scheduling record: %w", err)
		}
		record.Version = 1
		return nil
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE scheduling_records SET
			state = ?, difficulty = ?, stability = ?, elapsed_days = ?,
			scheduled_days = ?, reps = ?, lapses = ?, learning_step = ?,
			is_learning_phase = ?, total_reviews = ?, correct_reviews = ?,
			last_review_at = ?, due_at = ?, version = version + 1
		WHERE user_id = ? AND item_id = ? AND version = ?`,
		record.State, record.Difficulty, record.Stability, record.ElapsedDays,
		record.ScheduledDays, record.Reps, record.Lapses, record.LearningStep,
		record.IsLearningPhase, record.TotalReviews, record.CorrectReviews,
		record.LastReviewAt, record.DueAt,
		record.UserID, record.ItemID, record.Version,
	)
	if err != nil {
		return fmt.Errorf("update scheduling record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check scheduling record update: %w", err)
	}
	if affected == 0 {
		return ErrConcurrentUpdate
	}
	record.Version++
	return nil
}

// DBLogRepository implements LogRepository using MySQL.
type DBLogRepository struct {
	db *sqlx.DB
}

// NewDBLogRepository creates a new DBLogRepository.
func NewDBLogRepository(db *sqlx.DB) *DBLogRepository {
	return &DBLogRepository{db: db}
}

var logColumns = []string{
	"user_id", "item_id", "collection_id", "rating", "reviewed_at",
	"state_before", "state_after", "difficulty_before", "difficulty_after",
	"stability_before", "stability_after", "scheduled_days_before",
	"scheduled_days_after", "elapsed_days",
}

func logArgs(entry *LogEntry) []interface{} {
	return []interface{}{
		entry.UserID, entry.ItemID, entry.CollectionID, entry.Rating, entry.ReviewedAt,
		entry.StateBefore, entry.StateAfter, entry.DifficultyBefore, entry.DifficultyAfter,
		entry.StabilityBefore, entry.StabilityAfter, entry.ScheduledDaysBefore,
		entry.ScheduledDaysAfter, entry.ElapsedDays,
	}
}

// Append inserts one review log entry.
func (r *DBLogRepository) Append(ctx context.Context, entry *LogEntry) error {
	query := database.BuildMultiRowInsert("review_logs", logColumns, 1)
	if _, err := r.db.ExecContext(ctx, query, logArgs(entry)...); err != nil {
		return fmt.Errorf("insert review log: %w", err)
	}
	return nil
}

// AppendBatch inserts multiple review log entries in a single transaction
// using a multi-row INSERT.
func (r *DBLogRepository) AppendBatch(ctx context.Context, entries []*LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		query := database.BuildMultiRowInsert("review_logs", logColumns, len(entries))
		var args []interface{}
		for _, entry := range entries {
			args = append(args, logArgs(entry)...)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert review logs: %w", err)
		}
		return nil
	})
}

// DBItemRepository implements ItemRepository using MySQL.
type DBItemRepository struct {
	db *sqlx.DB
}

// NewDBItemRepository creates a new DBItemRepository.
func NewDBItemRepository(db *sqlx.DB) *DBItemRepository {
	return &DBItemRepository{db: db}
}

// CountItems returns the number of items in the collection.
func (r *DBItemRepository) CountItems(ctx context.Context, collectionID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM items WHERE collection_id = ?", collectionID)
	if err != nil {
		return 0, fmt.Errorf("count collection items: %w", err)
	}
	return count, nil
}

// FindUnseenItemIDs returns the collection's item ids without a scheduling
// record, in collection order.
func (r *DBItemRepository) FindUnseenItemIDs(ctx context.Context, collectionID uuid.UUID, excluding []uuid.UUID) ([]uuid.UUID, error) {
	query := "SELECT id FROM items WHERE collection_id = ? ORDER BY position"
	args := []interface{}{collectionID}
	if len(excluding) > 0 {
		var err error
		query, args, err = sqlx.In(
			"SELECT id FROM items WHERE collection_id = ? AND id NOT IN (?) ORDER BY position",
			collectionID, excluding)
		if err != nil {
			return nil, fmt.Errorf("build unseen items query: %w", err)
		}
		query = r.db.Rebind(query)
	}

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("load unseen item ids: %w", err)
	}
	return ids, nil
}

// DBProgressRepository implements ProgressRepository using MySQL.
type DBProgressRepository struct {
	db *sqlx.DB
}

// NewDBProgressRepository creates a new DBProgressRepository.
func NewDBProgressRepository(db *sqlx.DB) *DBProgressRepository {
	return &DBProgressRepository{db: db}
}

// Find returns the progress aggregate for a user and collection.
func (r *DBProgressRepository) Find(ctx context.Context, userID, collectionID uuid.UUID) (*progress.Aggregate, error) {
	var aggregate progress.Aggregate
	err := r.db.GetContext(ctx, &aggregate,
		"SELECT * FROM collection_progress WHERE user_id = ? AND collection_id = ?",
		userID, collectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load progress aggregate: %w", err)
	}
	return &aggregate, nil
}

// Save upserts the progress aggregate.
func (r *DBProgressRepository) Save(ctx context.Context, aggregate *progress.Aggregate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collection_progress (
			user_id, collection_id, mastered_count, learning_count, new_count,
			streak_days, accuracy_percent, reviews_today, new_words_today,
			last_review_date, daily_new_limit, daily_review_limit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			mastered_count = VALUES(mastered_count),
			learning_count = VALUES(learning_count),
			new_count = VALUES(new_count),
			streak_days = VALUES(streak_days),
			accuracy_percent = VALUES(accuracy_percent),
			reviews_today = VALUES(reviews_today),
			new_words_today = VALUES(new_words_today),
			last_review_date = VALUES(last_review_date),
			daily_new_limit = VALUES(daily_new_limit),
			daily_review_limit = VALUES(daily_review_limit)`,
		aggregate.UserID, aggregate.CollectionID, aggregate.MasteredCount,
		aggregate.LearningCount, aggregate.NewCount, aggregate.StreakDays,
		aggregate.AccuracyPercent, aggregate.ReviewsToday, aggregate.NewWordsToday,
		aggregate.LastReviewDate, aggregate.DailyNewLimit, aggregate.DailyReviewLimit,
	)
	if err != nil {
		return fmt.Errorf("save progress aggregate: %w", err)
	}
	return nil
}
