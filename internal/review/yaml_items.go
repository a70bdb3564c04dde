package review

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kioku-app/kioku/internal/progress"
)

// yamlProgressAdapter exposes the YAMLStore's progress methods under the
// ProgressRepository contract; the record methods already occupy the Find
// and Save names on the store itself.
type yamlProgressAdapter struct {
	store *YAMLStore
}

func (a yamlProgressAdapter) Find(ctx context.Context, userID, collectionID uuid.UUID) (*progress.Aggregate, error) {
	return a.store.FindProgress(ctx, userID, collectionID)
}

func (a yamlProgressAdapter) Save(ctx context.Context, aggregate *progress.Aggregate) error {
	return a.store.SaveProgress(ctx, aggregate)
}

// ProgressRepository returns the store's ProgressRepository view.
func (s *YAMLStore) ProgressRepository() ProgressRepository {
	return yamlProgressAdapter{store: s}
}

// YAMLItemRepository reads collection item lists from one YAML file mapping
// collection ids to ordered item ids. It backs the session composer in the
// offline mode; item content lives elsewhere.
type YAMLItemRepository struct {
	path string
}

// NewYAMLItemRepository creates a YAMLItemRepository for the collections
// file under the store directory.
func NewYAMLItemRepository(directory string) *YAMLItemRepository {
	return &YAMLItemRepository{path: filepath.Join(directory, "collections.yaml")}
}

type yamlCollections struct {
	Collections []yamlCollection `yaml:"collections"`
}

type yamlCollection struct {
	ID      string   `yaml:"id"`
	ItemIDs []string `yaml:"item_ids"`
}

// CountItems returns the number of items in the collection.
func (r *YAMLItemRepository) CountItems(ctx context.Context, collectionID uuid.UUID) (int, error) {
	ids, err := r.itemIDs(collectionID)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// FindUnseenItemIDs returns the collection's item ids that are not in the
// exclusion set, preserving collection order.
func (r *YAMLItemRepository) FindUnseenItemIDs(ctx context.Context, collectionID uuid.UUID, excluding []uuid.UUID) ([]uuid.UUID, error) {
	ids, err := r.itemIDs(collectionID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool, len(excluding))
	for _, id := range excluding {
		seen[id] = true
	}
	var unseen []uuid.UUID
	for _, id := range ids {
		if !seen[id] {
			unseen = append(unseen, id)
		}
	}
	return unseen, nil
}

func (r *YAMLItemRepository) itemIDs(collectionID uuid.UUID) ([]uuid.UUID, error) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read collections file: %w", err)
	}
	var doc yamlCollections
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse collections file: %w", err)
	}
	for _, collection := range doc.Collections {
		if collection.ID != collectionID.String() {
			continue
		}
		ids := make([]uuid.UUID, 0, len(collection.ItemIDs))
		for _, raw := range collection.ItemIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("parse item id %q: %w", raw, err)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	return nil, nil
}
