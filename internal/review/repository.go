package review

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/progress"
)

//go:generate mockgen -source=repository.go -destination=../mocks/review/mock_repository.go -package=mock_review

var (
	// ErrRecordNotFound is returned when no scheduling record exists for the
	// user and item. Callers turn it into "create the initial record".
	ErrRecordNotFound = errors.New("review: scheduling record not found")

	// ErrProgressNotFound is returned when no progress aggregate exists yet
	// for the user and collection.
	ErrProgressNotFound = errors.New("review: progress aggregate not found")

	// ErrConcurrentUpdate is returned when a save targets a record version
	// that another writer has already replaced. The caller retries the whole
	// transition from the fresh record.
	ErrConcurrentUpdate = errors.New("review: record was updated concurrently")
)

// RecordRepository stores scheduling records. Save replaces the full record;
// partial patches are not part of the contract.
type RecordRepository interface {
	Find(ctx context.Context, userID, itemID uuid.UUID) (*Record, error)
	FindPool(ctx context.Context, userID, collectionID uuid.UUID) ([]Record, error)
	Save(ctx context.Context, record *Record) error
}

// LogRepository appends review log entries.
type LogRepository interface {
	Append(ctx context.Context, entry *LogEntry) error
	AppendBatch(ctx context.Context, entries []*LogEntry) error
}

// ItemRepository exposes the collection's item list to the session composer.
type ItemRepository interface {
	CountItems(ctx context.Context, collectionID uuid.UUID) (int, error)
	FindUnseenItemIDs(ctx context.Context, collectionID uuid.UUID, excluding []uuid.UUID) ([]uuid.UUID, error)
}

// ProgressRepository stores per-collection progress aggregates.
type ProgressRepository interface {
	Find(ctx context.Context, userID, collectionID uuid.UUID) (*progress.Aggregate, error)
	Save(ctx context.Context, aggregate *progress.Aggregate) error
}
