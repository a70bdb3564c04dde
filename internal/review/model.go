// Package review owns the persistence contract of the scheduling engine and
// the service that applies a review end to end: load the record, run the
// scheduler, save the replacement, append the audit log and refresh the
// collection progress.
package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/fsrs"
)

// Record is a scheduling record bound to a learner and an item. Version
// implements optimistic locking at the persistence boundary: a save against
// a stale version is rejected, never silently merged.
type Record struct {
	fsrs.Record

	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	ItemID       uuid.UUID `db:"item_id" json:"item_id"`
	CollectionID uuid.UUID `db:"collection_id" json:"collection_id"`
	Version      int64     `db:"version" json:"version"`
}

// NewItemRecord creates the record of an item that is starting to be
// learned, due immediately.
func NewItemRecord(userID, itemID, collectionID uuid.UUID, now time.Time) *Record {
	return &Record{
		Record:       fsrs.NewRecord(now),
		UserID:       userID,
		ItemID:       itemID,
		CollectionID: collectionID,
	}
}

// LogEntry is one persisted review log row. Entries are append-only and
// never mutated after creation.
type LogEntry struct {
	fsrs.ReviewLog

	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	ItemID       uuid.UUID `db:"item_id" json:"item_id"`
	CollectionID uuid.UUID `db:"collection_id" json:"collection_id"`
}
