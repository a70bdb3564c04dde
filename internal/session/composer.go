// Package session builds bounded daily study queues from a learner's item
// pool.
package session

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/fsrs"
)

// minutesPerItem is the fixed per-item time budget used for the session
// length estimate.
const minutesPerItem = 0.5

// maxJitter bounds the per-item ordering jitter.
const maxJitter = 5 * time.Minute

// Entry pairs an item with its scheduling record.
type Entry struct {
	ItemID uuid.UUID
	Record fsrs.Record
}

// StudySession is one day's bounded study queue.
type StudySession struct {
	ReviewItems      []Entry
	NewItemIDs       []uuid.UUID
	EstimatedMinutes int
}

// TotalCount returns the number of items in the session.
func (s StudySession) TotalCount() int {
	return len(s.ReviewItems) + len(s.NewItemIDs)
}

// Limits bounds the session size. Zero limits are valid and yield empty
// sets.
type Limits struct {
	DailyNew    int
	DailyReview int
}

// Composer selects and orders the day's study queue. The jitter source is
// injected so tests can seed it.
type Composer struct {
	rng *rand.Rand
}

// NewComposer creates a Composer with a clock-seeded jitter source.
func NewComposer() *Composer {
	return NewComposerWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewComposerWithRand creates a Composer with an injected jitter source.
func NewComposerWithRand(rng *rand.Rand) *Composer {
	return &Composer{rng: rng}
}

// Compose builds a session from the full pool of reviewed items and the
// collection's unseen item ids (in collection order). Due items surface
// learning-phase first, then by due time with a small per-item jitter so the
// order varies between sessions; both sets are capped by the limits.
func (c *Composer) Compose(pool []Entry, unseen []uuid.UUID, now time.Time, limits Limits) StudySession {
	due := make([]Entry, 0, len(pool))
	for _, entry := range pool {
		if entry.Record.Due(now) {
			due = append(due, entry)
		}
	}

	// Jitter is drawn per item before sorting so a seeded source yields a
	// reproducible order.
	jitter := make(map[uuid.UUID]time.Duration, len(due))
	for _, entry := range due {
		jitter[entry.ItemID] = time.Duration(c.rng.Int63n(int64(maxJitter)))
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if a.Record.IsLearningPhase != b.Record.IsLearningPhase {
			return a.Record.IsLearningPhase
		}
		return a.Record.DueAt.Add(jitter[a.ItemID]).Before(b.Record.DueAt.Add(jitter[b.ItemID]))
	})

	if limits.DailyReview < 0 {
		limits.DailyReview = 0
	}
	if len(due) > limits.DailyReview {
		due = due[:limits.DailyReview]
	}

	if limits.DailyNew < 0 {
		limits.DailyNew = 0
	}
	newIDs := unseen
	if len(newIDs) > limits.DailyNew {
		newIDs = newIDs[:limits.DailyNew]
	}

	session := StudySession{
		ReviewItems: due,
		NewItemIDs:  append([]uuid.UUID(nil), newIDs...),
	}
	session.EstimatedMinutes = int(math.Ceil(minutesPerItem * float64(session.TotalCount())))
	return session
}
