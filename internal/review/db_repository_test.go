package review

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioku-app/kioku/internal/fsrs"
	"github.com/kioku-app/kioku/internal/progress"
)

var recordColumns = []string{
	"user_id", "item_id", "collection_id", "state", "difficulty", "stability",
	"elapsed_days", "scheduled_days", "reps", "lapses", "learning_step",
	"is_learning_phase", "total_reviews", "correct_reviews",
	"last_review_at", "due_at", "version",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestDBRecordRepository_Find(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	itemID := uuid.New()
	collectionID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "returns the record",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(recordColumns).
					AddRow(userID, itemID, collectionID, "review", 5.2, 12.5,
						3, 12, 4, 1, 0, false, 5, 4, now, now.Add(9*24*time.Hour), 3)
				mock.ExpectQuery("SELECT \\* FROM scheduling_records WHERE user_id = \\? AND item_id = \\?").
					WithArgs(userID, itemID).
					WillReturnRows(rows)
			},
		},
		{
			name: "missing record",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM scheduling_records").
					WithArgs(userID, itemID).
					WillReturnRows(sqlmock.NewRows(recordColumns))
			},
			wantErr: ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewDBRecordRepository(db)
			tt.setupMock(mock)

			got, err := repo.Find(context.Background(), userID, itemID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, userID, got.UserID)
			assert.Equal(t, fsrs.StateReview, got.State)
			assert.Equal(t, 12.5, got.Stability)
			assert.Equal(t, int64(3), got.Version)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRecordRepository_FindPool(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	collectionID := uuid.New()

	db, mock := newMockDB(t)
	repo := NewDBRecordRepository(db)

	rows := sqlmock.NewRows(recordColumns).
		AddRow(userID, uuid.New(), collectionID, "learning", 5.87, 0.6,
			0, 0, 0, 0, 1, true, 1, 1, now, now.Add(10*time.Minute), 1).
		AddRow(userID, uuid.New(), collectionID, "review", 4.9, 20.0,
			0, 18, 6, 0, 0, false, 6, 6, now, now.Add(18*24*time.Hour), 4)
	mock.ExpectQuery("SELECT \\* FROM scheduling_records WHERE user_id = \\? AND collection_id = \\? ORDER BY due_at").
		WithArgs(userID, collectionID).
		WillReturnRows(rows)

	got, err := repo.FindPool(context.Background(), userID, collectionID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, fsrs.StateLearning, got[0].State)
	assert.Equal(t, fsrs.StateReview, got[1].State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRecordRepository_Save(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	itemID := uuid.New()
	collectionID := uuid.New()

	tests := []struct {
		name        string
		version     int64
		setupMock   func(mock sqlmock.Sqlmock)
		wantVersion int64
		wantErr     error
	}{
		{
			name:    "inserts an unsaved record",
			version: 0,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO scheduling_records").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			wantVersion: 1,
		},
		{
			name:    "updates a saved record",
			version: 2,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE scheduling_records SET").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantVersion: 3,
		},
		{
			name:    "version mismatch",
			version: 2,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE scheduling_records SET").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantVersion: 2,
			wantErr:     ErrConcurrentUpdate,
		},
		{
			name:    "db error",
			version: 0,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO scheduling_records").
					WillReturnError(fmt.Errorf("connection refused"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewDBRecordRepository(db)
			tt.setupMock(mock)

			record := NewItemRecord(userID, itemID, collectionID, now)
			record.Version = tt.version

			err := repo.Save(context.Background(), record)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantVersion, record.Version)
				return
			}
			if tt.wantVersion == 0 {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, record.Version)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBLogRepository_Append(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	db, mock := newMockDB(t)
	repo := NewDBLogRepository(db)

	mock.ExpectExec("INSERT INTO review_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), &LogEntry{
		ReviewLog: fsrs.ReviewLog{
			Rating:     fsrs.Good,
			ReviewedAt: now,
		},
		UserID:       uuid.New(),
		ItemID:       uuid.New(),
		CollectionID: uuid.New(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBLogRepository_AppendBatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		entries   []*LogEntry
		setupMock func(mock sqlmock.Sqlmock)
	}{
		{
			name:      "empty batch is a no-op",
			entries:   nil,
			setupMock: func(mock sqlmock.Sqlmock) {},
		},
		{
			name: "inserts all entries in one statement",
			entries: []*LogEntry{
				{ReviewLog: fsrs.ReviewLog{Rating: fsrs.Good, ReviewedAt: now}, UserID: uuid.New(), ItemID: uuid.New()},
				{ReviewLog: fsrs.ReviewLog{Rating: fsrs.Again, ReviewedAt: now}, UserID: uuid.New(), ItemID: uuid.New()},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO review_logs").
					WillReturnResult(sqlmock.NewResult(2, 2))
				mock.ExpectCommit()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewDBLogRepository(db)
			tt.setupMock(mock)

			err := repo.AppendBatch(context.Background(), tt.entries)
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBItemRepository_CountItems(t *testing.T) {
	collectionID := uuid.New()
	db, mock := newMockDB(t)
	repo := NewDBItemRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM items WHERE collection_id = \\?").
		WithArgs(collectionID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountItems(context.Background(), collectionID)
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBItemRepository_FindUnseenItemIDs(t *testing.T) {
	collectionID := uuid.New()
	seenID := uuid.New()
	unseenID := uuid.New()

	tests := []struct {
		name      string
		excluding []uuid.UUID
		setupMock func(mock sqlmock.Sqlmock)
		want      []uuid.UUID
	}{
		{
			name: "no records yet returns every item",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id FROM items WHERE collection_id = \\? ORDER BY position").
					WithArgs(collectionID).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(unseenID).AddRow(seenID))
			},
			want: []uuid.UUID{unseenID, seenID},
		},
		{
			name:      "seen items are excluded",
			excluding: []uuid.UUID{seenID},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id FROM items WHERE collection_id = \\? AND id NOT IN \\(\\?\\) ORDER BY position").
					WithArgs(collectionID, seenID).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(unseenID))
			},
			want: []uuid.UUID{unseenID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewDBItemRepository(db)
			tt.setupMock(mock)

			got, err := repo.FindUnseenItemIDs(context.Background(), collectionID, tt.excluding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBProgressRepository_Find(t *testing.T) {
	userID := uuid.New()
	collectionID := uuid.New()

	progressColumns := []string{
		"user_id", "collection_id", "mastered_count", "learning_count", "new_count",
		"streak_days", "accuracy_percent", "reviews_today", "new_words_today",
		"last_review_date", "daily_new_limit", "daily_review_limit",
	}

	t.Run("returns the aggregate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDBProgressRepository(db)

		reviewDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT \\* FROM collection_progress WHERE user_id = \\? AND collection_id = \\?").
			WithArgs(userID, collectionID).
			WillReturnRows(sqlmock.NewRows(progressColumns).
				AddRow(userID, collectionID, 3, 5, 12, 7, 84.5, 10, 2, reviewDate, 10, 50))

		got, err := repo.Find(context.Background(), userID, collectionID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.MasteredCount)
		assert.Equal(t, 7, got.StreakDays)
		assert.Equal(t, 84.5, got.AccuracyPercent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing aggregate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDBProgressRepository(db)

		mock.ExpectQuery("SELECT \\* FROM collection_progress").
			WithArgs(userID, collectionID).
			WillReturnRows(sqlmock.NewRows(progressColumns))

		_, err := repo.Find(context.Background(), userID, collectionID)
		require.ErrorIs(t, err, ErrProgressNotFound)
	})
}

func TestDBProgressRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDBProgressRepository(db)

	mock.ExpectExec("INSERT INTO collection_progress").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Save(context.Background(), &progress.Aggregate{
		UserID:           uuid.New(),
		CollectionID:     uuid.New(),
		MasteredCount:    3,
		LearningCount:    5,
		NewCount:         12,
		StreakDays:       7,
		AccuracyPercent:  84.5,
		DailyNewLimit:    10,
		DailyReviewLimit: 50,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
