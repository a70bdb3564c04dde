package review

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kioku-app/kioku/internal/fsrs"
	"github.com/kioku-app/kioku/internal/progress"
)

// YAMLStore is a file-backed implementation of the record, log and progress
// repositories for the offline single-user mode. Each learner owns one YAML
// document under the store directory; writes rewrite the whole document.
//
// The optimistic version check is kept even though the store serializes all
// access behind a mutex, so the store honors the same contract as the
// database implementation.
type YAMLStore struct {
	directory string

	mu sync.Mutex
}

// NewYAMLStore creates a YAMLStore rooted at directory.
func NewYAMLStore(directory string) *YAMLStore {
	return &YAMLStore{directory: directory}
}

type yamlDocument struct {
	Records  []yamlRecord        `yaml:"records,omitempty"`
	Logs     []yamlLogEntry      `yaml:"logs,omitempty"`
	Progress []yamlProgressEntry `yaml:"progress,omitempty"`
}

type yamlRecord struct {
	ItemID          string     `yaml:"item_id"`
	CollectionID    string     `yaml:"collection_id"`
	State           string     `yaml:"state"`
	Difficulty      float64    `yaml:"difficulty"`
	Stability       float64    `yaml:"stability"`
	ElapsedDays     int        `yaml:"elapsed_days"`
	ScheduledDays   int        `yaml:"scheduled_days"`
	Reps            int        `yaml:"reps"`
	Lapses          int        `yaml:"lapses"`
	LearningStep    int        `yaml:"learning_step"`
	IsLearningPhase bool       `yaml:"is_learning_phase"`
	TotalReviews    int        `yaml:"total_reviews"`
	CorrectReviews  int        `yaml:"correct_reviews"`
	LastReviewAt    *time.Time `yaml:"last_review_at,omitempty"`
	DueAt           time.Time  `yaml:"due_at"`
	Version         int64      `yaml:"version"`
}

type yamlLogEntry struct {
	ItemID              string    `yaml:"item_id"`
	CollectionID        string    `yaml:"collection_id"`
	Rating              int       `yaml:"rating"`
	ReviewedAt          time.Time `yaml:"reviewed_at"`
	StateBefore         string    `yaml:"state_before"`
	StateAfter          string    `yaml:"state_after"`
	DifficultyBefore    float64   `yaml:"difficulty_before"`
	DifficultyAfter     float64   `yaml:"difficulty_after"`
	StabilityBefore     float64   `yaml:"stability_before"`
	StabilityAfter      float64   `yaml:"stability_after"`
	ScheduledDaysBefore int       `yaml:"scheduled_days_before"`
	ScheduledDaysAfter  int       `yaml:"scheduled_days_after"`
	ElapsedDays         int       `yaml:"elapsed_days"`
}

type yamlProgressEntry struct {
	CollectionID     string     `yaml:"collection_id"`
	MasteredCount    int        `yaml:"mastered_count"`
	LearningCount    int        `yaml:"learning_count"`
	NewCount         int        `yaml:"new_count"`
	StreakDays       int        `yaml:"streak_days"`
	AccuracyPercent  float64    `yaml:"accuracy_percent"`
	ReviewsToday     int        `yaml:"reviews_today"`
	NewWordsToday    int        `yaml:"new_words_today"`
	LastReviewDate   *time.Time `yaml:"last_review_date,omitempty"`
	DailyNewLimit    int        `yaml:"daily_new_limit"`
	DailyReviewLimit int        `yaml:"daily_review_limit"`
}

// Find returns the scheduling record for a user and item.
func (s *YAMLStore) Find(ctx context.Context, userID, itemID uuid.UUID) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	for _, raw := range doc.Records {
		if raw.ItemID == itemID.String() {
			return decodeRecord(userID, raw)
		}
	}
	return nil, ErrRecordNotFound
}

// FindPool returns every scheduling record of the collection for the user.
func (s *YAMLStore) FindPool(ctx context.Context, userID, collectionID uuid.UUID) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	var records []Record
	for _, raw := range doc.Records {
		if raw.CollectionID != collectionID.String() {
			continue
		}
		record, err := decodeRecord(userID, raw)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// Save replaces the record, enforcing the same version contract as the
// database store.
func (s *YAMLStore) Save(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(record.UserID)
	if err != nil {
		return err
	}

	for i, raw := range doc.Records {
		if raw.ItemID != record.ItemID.String() {
			continue
		}
		if raw.Version != record.Version {
			return ErrConcurrentUpdate
		}
		record.Version++
		doc.Records[i] = encodeRecord(record)
		return s.store(record.UserID, doc)
	}

	if record.Version != 0 {
		return ErrConcurrentUpdate
	}
	record.Version = 1
	doc.Records = append(doc.Records, encodeRecord(record))
	return s.store(record.UserID, doc)
}

// Append adds one review log entry to the user's document.
func (s *YAMLStore) Append(ctx context.Context, entry *LogEntry) error {
	return s.AppendBatch(ctx, []*LogEntry{entry})
}

// AppendBatch adds review log entries to the user's document.
func (s *YAMLStore) AppendBatch(ctx context.Context, entries []*LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(entries[0].UserID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		doc.Logs = append(doc.Logs, yamlLogEntry{
			ItemID:              entry.ItemID.String(),
			CollectionID:        entry.CollectionID.String(),
			Rating:              int(entry.Rating),
			ReviewedAt:          entry.ReviewedAt,
			StateBefore:         string(entry.StateBefore),
			StateAfter:          string(entry.StateAfter),
			DifficultyBefore:    entry.DifficultyBefore,
			DifficultyAfter:     entry.DifficultyAfter,
			StabilityBefore:     entry.StabilityBefore,
			StabilityAfter:      entry.StabilityAfter,
			ScheduledDaysBefore: entry.ScheduledDaysBefore,
			ScheduledDaysAfter:  entry.ScheduledDaysAfter,
			ElapsedDays:         entry.ElapsedDays,
		})
	}
	return s.store(entries[0].UserID, doc)
}

// FindLogs returns the review logs of one item in append order.
func (s *YAMLStore) FindLogs(ctx context.Context, userID, itemID uuid.UUID) ([]fsrs.ReviewLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	var logs []fsrs.ReviewLog
	for _, raw := range doc.Logs {
		if raw.ItemID != itemID.String() {
			continue
		}
		logs = append(logs, fsrs.ReviewLog{
			Rating:              fsrs.Rating(raw.Rating),
			ReviewedAt:          raw.ReviewedAt,
			StateBefore:         fsrs.State(raw.StateBefore),
			StateAfter:          fsrs.State(raw.StateAfter),
			DifficultyBefore:    raw.DifficultyBefore,
			DifficultyAfter:     raw.DifficultyAfter,
			StabilityBefore:     raw.StabilityBefore,
			StabilityAfter:      raw.StabilityAfter,
			ScheduledDaysBefore: raw.ScheduledDaysBefore,
			ScheduledDaysAfter:  raw.ScheduledDaysAfter,
			ElapsedDays:         raw.ElapsedDays,
		})
	}
	return logs, nil
}

// FindProgress returns the progress aggregate for a user and collection.
func (s *YAMLStore) FindProgress(ctx context.Context, userID, collectionID uuid.UUID) (*progress.Aggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	for _, raw := range doc.Progress {
		if raw.CollectionID == collectionID.String() {
			return decodeProgress(userID, raw)
		}
	}
	return nil, ErrProgressNotFound
}

// SaveProgress upserts the progress aggregate in the user's document.
func (s *YAMLStore) SaveProgress(ctx context.Context, aggregate *progress.Aggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(aggregate.UserID)
	if err != nil {
		return err
	}
	encoded := encodeProgress(aggregate)
	for i, raw := range doc.Progress {
		if raw.CollectionID == encoded.CollectionID {
			doc.Progress[i] = encoded
			return s.store(aggregate.UserID, doc)
		}
	}
	doc.Progress = append(doc.Progress, encoded)
	return s.store(aggregate.UserID, doc)
}

func (s *YAMLStore) path(userID uuid.UUID) string {
	return filepath.Join(s.directory, userID.String()+".yaml")
}

func (s *YAMLStore) load(userID uuid.UUID) (*yamlDocument, error) {
	content, err := os.ReadFile(s.path(userID))
	if errors.Is(err, os.ErrNotExist) {
		return &yamlDocument{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	var doc yamlDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	return &doc, nil
}

func (s *YAMLStore) store(userID uuid.UUID, doc *yamlDocument) error {
	if err := os.MkdirAll(s.directory, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	content, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	if err := os.WriteFile(s.path(userID), content, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}

func encodeRecord(record *Record) yamlRecord {
	return yamlRecord{
		ItemID:          record.ItemID.String(),
		CollectionID:    record.CollectionID.String(),
		State:           string(record.State),
		Difficulty:      record.Difficulty,
		Stability:       record.Stability,
		ElapsedDays:     record.ElapsedDays,
		ScheduledDays:   record.ScheduledDays,
		Reps:            record.Reps,
		Lapses:          record.Lapses,
		LearningStep:    record.LearningStep,
		IsLearningPhase: record.IsLearningPhase,
		TotalReviews:    record.TotalReviews,
		CorrectReviews:  record.CorrectReviews,
		LastReviewAt:    record.LastReviewAt,
		DueAt:           record.DueAt,
		Version:         record.Version,
	}
}

func decodeRecord(userID uuid.UUID, raw yamlRecord) (*Record, error) {
	itemID, err := uuid.Parse(raw.ItemID)
	if err != nil {
		return nil, fmt.Errorf("parse item id %q: %w", raw.ItemID, err)
	}
	collectionID, err := uuid.Parse(raw.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("parse collection id %q: %w", raw.CollectionID, err)
	}
	return &Record{
		Record: fsrs.Record{
			State:           fsrs.State(raw.State),
			Difficulty:      raw.Difficulty,
			Stability:       raw.Stability,
			ElapsedDays:     raw.ElapsedDays,
			ScheduledDays:   raw.ScheduledDays,
			Reps:            raw.Reps,
			Lapses:          raw.Lapses,
			LearningStep:    raw.LearningStep,
			IsLearningPhase: raw.IsLearningPhase,
			TotalReviews:    raw.TotalReviews,
			CorrectReviews:  raw.CorrectReviews,
			LastReviewAt:    raw.LastReviewAt,
			DueAt:           raw.DueAt,
		},
		UserID:       userID,
		ItemID:       itemID,
		CollectionID: collectionID,
		Version:      raw.Version,
	}, nil
}

func encodeProgress(aggregate *progress.Aggregate) yamlProgressEntry {
	return yamlProgressEntry{
		CollectionID:     aggregate.CollectionID.String(),
		MasteredCount:    aggregate.MasteredCount,
		LearningCount:    aggregate.LearningCount,
		NewCount:         aggregate.NewCount,
		StreakDays:       aggregate.StreakDays,
		AccuracyPercent:  aggregate.AccuracyPercent,
		ReviewsToday:     aggregate.ReviewsToday,
		NewWordsToday:    aggregate.NewWordsToday,
		LastReviewDate:   aggregate.LastReviewDate,
		DailyNewLimit:    aggregate.DailyNewLimit,
		DailyReviewLimit: aggregate.DailyReviewLimit,
	}
}

func decodeProgress(userID uuid.UUID, raw yamlProgressEntry) (*progress.Aggregate, error) {
	collectionID, err := uuid.Parse(raw.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("parse collection id %q: %w", raw.CollectionID, err)
	}
	return &progress.Aggregate{
		UserID:           userID,
		CollectionID:     collectionID,
		MasteredCount:    raw.MasteredCount,
		LearningCount:    raw.LearningCount,
		NewCount:         raw.NewCount,
		StreakDays:       raw.StreakDays,
		AccuracyPercent:  raw.AccuracyPercent,
		ReviewsToday:     raw.ReviewsToday,
		NewWordsToday:    raw.NewWordsToday,
		LastReviewDate:   raw.LastReviewDate,
		DailyNewLimit:    raw.DailyNewLimit,
		DailyReviewLimit: raw.DailyReviewLimit,
	}, nil
}
