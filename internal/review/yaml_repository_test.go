package review

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioku-app/kioku/internal/fsrs"
	"github.com/kioku-app/kioku/internal/progress"
)

func TestYAMLStore_SaveAndFind(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	itemID := uuid.New()
	collectionID := uuid.New()

	store := NewYAMLStore(t.TempDir())
	ctx := context.Background()

	_, err := store.Find(ctx, userID, itemID)
	require.ErrorIs(t, err, ErrRecordNotFound)

	record := NewItemRecord(userID, itemID, collectionID, now)
	record.State = fsrs.StateLearning
	record.Stability = 2.4
	record.Difficulty = 4.93
	require.NoError(t, store.Save(ctx, record))
	assert.Equal(t, int64(1), record.Version)

	got, err := store.Find(ctx, userID, itemID)
	require.NoError(t, err)
	assert.Equal(t, fsrs.StateLearning, got.State)
	assert.Equal(t, 2.4, got.Stability)
	assert.Equal(t, 4.93, got.Difficulty)
	assert.True(t, got.DueAt.Equal(record.DueAt))
	assert.Equal(t, int64(1), got.Version)
}

func TestYAMLStore_Save_VersionConflict(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	itemID := uuid.New()

	store := NewYAMLStore(t.TempDir())
	ctx := context.Background()

	record := NewItemRecord(userID, itemID, uuid.New(), now)
	require.NoError(t, store.Save(ctx, record))

	stale := *record
	stale.Version = 0
	require.NoError(t, store.Save(ctx, record))

	err := store.Save(ctx, &stale)
	require.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestYAMLStore_FindPool(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	collectionID := uuid.New()
	otherCollection := uuid.New()

	store := NewYAMLStore(t.TempDir())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		record := NewItemRecord(userID, uuid.New(), collectionID, now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Save(ctx, record))
	}
	require.NoError(t, store.Save(ctx, NewItemRecord(userID, uuid.New(), otherCollection, now)))

	pool, err := store.FindPool(ctx, userID, collectionID)
	require.NoError(t, err)
	assert.Len(t, pool, 3)
	for _, record := range pool {
		assert.Equal(t, collectionID, record.CollectionID)
	}

	empty, err := store.FindPool(ctx, uuid.New(), collectionID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestYAMLStore_AppendAndFindLogs(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	itemID := uuid.New()

	store := NewYAMLStore(t.TempDir())
	ctx := context.Background()

	for i, rating := range []fsrs.Rating{fsrs.Good, fsrs.Again} {
		err := store.Append(ctx, &LogEntry{
			ReviewLog: fsrs.ReviewLog{
				Rating:     rating,
				ReviewedAt: now.Add(time.Duration(i) * time.Hour),
			},
			UserID: userID,
			ItemID: itemID,
		})
		require.NoError(t, err)
	}

	logs, err := store.FindLogs(ctx, userID, itemID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, fsrs.Good, logs[0].Rating)
	assert.Equal(t, fsrs.Again, logs[1].Rating)

	none, err := store.FindLogs(ctx, userID, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestYAMLStore_Progress(t *testing.T) {
	userID := uuid.New()
	collectionID := uuid.New()

	store := NewYAMLStore(t.TempDir())
	repo := store.ProgressRepository()
	ctx := context.Background()

	_, err := repo.Find(ctx, userID, collectionID)
	require.ErrorIs(t, err, ErrProgressNotFound)

	aggregate := &progress.Aggregate{
		UserID:          userID,
		CollectionID:    collectionID,
		MasteredCount:   2,
		LearningCount:   3,
		NewCount:        5,
		StreakDays:      4,
		AccuracyPercent: 80,
		DailyNewLimit:   10,
	}
	require.NoError(t, repo.Save(ctx, aggregate))

	aggregate.StreakDays = 5
	require.NoError(t, repo.Save(ctx, aggregate))

	got, err := repo.Find(ctx, userID, collectionID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MasteredCount)
	assert.Equal(t, 5, got.StreakDays)
	assert.Equal(t, 80.0, got.AccuracyPercent)
}

func TestYAMLStore_RoundTripSurvivesReopen(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	itemID := uuid.New()
	directory := t.TempDir()
	ctx := context.Background()

	record := NewItemRecord(userID, itemID, uuid.New(), now)
	require.NoError(t, NewYAMLStore(directory).Save(ctx, record))

	reopened := NewYAMLStore(directory)
	got, err := reopened.Find(ctx, userID, itemID)
	require.NoError(t, err)
	assert.Equal(t, record.ItemID, got.ItemID)
	assert.Equal(t, record.Version, got.Version)
}

func TestYAMLItemRepository(t *testing.T) {
	collectionID := uuid.New()
	itemA := uuid.New()
	itemB := uuid.New()
	itemC := uuid.New()

	directory := t.TempDir()
	content := fmt.Sprintf(`collections:
  - id: %s
    item_ids:
      - %s
      - %s
      - %s
`, collectionID, itemA, itemB, itemC)
	require.NoError(t, os.WriteFile(filepath.Join(directory, "collections.yaml"), []byte(content), 0o644))

	repo := NewYAMLItemRepository(directory)
	ctx := context.Background()

	count, err := repo.CountItems(ctx, collectionID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	unseen, err := repo.FindUnseenItemIDs(ctx, collectionID, []uuid.UUID{itemB})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{itemA, itemC}, unseen)

	missing, err := repo.CountItems(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, missing)
}
