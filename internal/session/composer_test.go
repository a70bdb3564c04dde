package session

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioku-app/kioku/internal/fsrs"
)

func testNow() time.Time {
	return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
}

func reviewEntry(dueOffset time.Duration, learningPhase bool) Entry {
	now := testNow()
	state := fsrs.StateReview
	if learningPhase {
		state = fsrs.StateLearning
	}
	return Entry{
		ItemID: uuid.New(),
		Record: fsrs.Record{
			State:           state,
			IsLearningPhase: learningPhase,
			Difficulty:      5,
			Stability:       3,
			DueAt:           now.Add(dueOffset),
		},
	}
}

func TestCompose_SelectsOnlyDueItems(t *testing.T) {
	c := NewComposerWithRand(rand.New(rand.NewSource(1)))
	now := testNow()

	due := reviewEntry(-time.Hour, false)
	dueExactly := reviewEntry(0, false)
	notDue := reviewEntry(time.Hour, false)

	session := c.Compose([]Entry{due, dueExactly, notDue}, nil, now, Limits{DailyReview: 10})

	require.Len(t, session.ReviewItems, 2)
	got := map[uuid.UUID]bool{}
	for _, e := range session.ReviewItems {
		got[e.ItemID] = true
	}
	assert.True(t, got[due.ItemID])
	assert.True(t, got[dueExactly.ItemID])
	assert.Empty(t, session.NewItemIDs)
}

func TestCompose_LearningPhaseSurfacesFirst(t *testing.T) {
	c := NewComposerWithRand(rand.New(rand.NewSource(1)))
	now := testNow()

	// Review items due much earlier than the learning items; the phase still
	// wins over the due time.
	entries := []Entry{
		reviewEntry(-48*time.Hour, false),
		reviewEntry(-time.Minute, true),
		reviewEntry(-24*time.Hour, false),
		reviewEntry(-2*time.Minute, true),
	}

	session := c.Compose(entries, nil, now, Limits{DailyReview: 10})

	require.Len(t, session.ReviewItems, 4)
	assert.True(t, session.ReviewItems[0].Record.IsLearningPhase)
	assert.True(t, session.ReviewItems[1].Record.IsLearningPhase)
	assert.False(t, session.ReviewItems[2].Record.IsLearningPhase)
	assert.False(t, session.ReviewItems[3].Record.IsLearningPhase)
}

func TestCompose_ReviewLimit(t *testing.T) {
	c := NewComposerWithRand(rand.New(rand.NewSource(1)))
	now := testNow()

	var entries []Entry
	for i := 0; i < 25; i++ {
		entries = append(entries, reviewEntry(-time.Duration(i+1)*time.Hour, i%3 == 0))
	}

	session := c.Compose(entries, nil, now, Limits{DailyReview: 10})
	assert.Len(t, session.ReviewItems, 10)

	// Learning-phase items fill the queue before pure review items.
	for _, e := range session.ReviewItems[:9] {
		assert.True(t, e.Record.IsLearningPhase)
	}
}

func TestCompose_NewItems(t *testing.T) {
	c := NewComposerWithRand(rand.New(rand.NewSource(1)))
	now := testNow()

	unseen := make([]uuid.UUID, 5)
	for i := range unseen {
		unseen[i] = uuid.New()
	}

	t.Run("limit above pool returns everything in order", func(t *testing.T) {
		session := c.Compose(nil, unseen, now, Limits{DailyNew: 20})
		assert.Equal(t, unseen, session.NewItemIDs)
		assert.Empty(t, session.ReviewItems)
	})

	t.Run("limit caps the set preserving order", func(t *testing.T) {
		session := c.Compose(nil, unseen, now, Limits{DailyNew: 3})
		assert.Equal(t, unseen[:3], session.NewItemIDs)
	})

	t.Run("no unseen items left", func(t *testing.T) {
		session := c.Compose(nil, nil, now, Limits{DailyNew: 20})
		assert.Empty(t, session.NewItemIDs)
	})
}

func TestCompose_ZeroLimits(t *testing.T) {
	c := NewComposerWithRand(rand.New(rand.NewSource(1)))
	now := testNow()

	entries := []Entry{reviewEntry(-time.Hour, false)}
	unseen := []uuid.UUID{uuid.New()}

	session := c.Compose(entries, unseen, now, Limits{})
	assert.Empty(t, session.ReviewItems)
	assert.Empty(t, session.NewItemIDs)
	assert.Equal(t, 0, session.EstimatedMinutes)
}

func TestCompose_EstimatedMinutes(t *testing.T) {
	c := NewComposerWithRand(rand.New(rand.NewSource(1)))
	now := testNow()

	tests := []struct {
		reviewCount int
		newCount    int
		expected    int
	}{
		{reviewCount: 0, newCount: 0, expected: 0},
		{reviewCount: 1, newCount: 0, expected: 1},
		{reviewCount: 1, newCount: 1, expected: 1},
		{reviewCount: 2, newCount: 1, expected: 2},
		{reviewCount: 10, newCount: 5, expected: 8},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d reviews %d new", tt.reviewCount, tt.newCount), func(t *testing.T) {
			var entries []Entry
			for i := 0; i < tt.reviewCount; i++ {
				entries = append(entries, reviewEntry(-time.Hour, false))
			}
			unseen := make([]uuid.UUID, tt.newCount)
			for i := range unseen {
				unseen[i] = uuid.New()
			}
			session := c.Compose(entries, unseen, now, Limits{DailyNew: 100, DailyReview: 100})
			assert.Equal(t, tt.expected, session.EstimatedMinutes)
		})
	}
}

func TestCompose_JitterIsReproducible(t *testing.T) {
	now := testNow()

	var entries []Entry
	for i := 0; i < 30; i++ {
		entries = append(entries, reviewEntry(-time.Duration(i+1)*time.Minute, false))
	}

	order := func(seed int64) []uuid.UUID {
		c := NewComposerWithRand(rand.New(rand.NewSource(seed)))
		session := c.Compose(entries, nil, now, Limits{DailyReview: 30})
		ids := make([]uuid.UUID, len(session.ReviewItems))
		for i, e := range session.ReviewItems {
			ids[i] = e.ItemID
		}
		return ids
	}

	assert.Equal(t, order(7), order(7))
	assert.NotEqual(t, order(7), order(8))
}
