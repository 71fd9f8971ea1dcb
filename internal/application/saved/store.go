// Package saved implements the per-user bookmark collection on top of a
// key/value store.
package saved

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/domain/recipe"
	"github.com/alchemorsel/recipe-explorer/internal/ports/inbound"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every user's collection in the store.
const KeyPrefix = "savedRecipes_"

// Key returns the store key for a user. User ids are used verbatim.
func Key(userID string) string {
	return KeyPrefix + userID
}

// Store implements inbound.SavedRecipeService. Each call performs one
// read-modify-write; concurrent writers for the same user must be
// serialised by the caller.
type Store struct {
	kv     outbound.KeyValueStore
	clock  func() time.Time
	logger *zap.Logger
}

// NewStore creates a saved-recipe store. A nil clock uses time.Now.
func NewStore(kv outbound.KeyValueStore, clock func() time.Time, logger *zap.Logger) inbound.SavedRecipeService {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		kv:     kv,
		clock:  clock,
		logger: logger.Named("saved-recipes"),
	}
}

// Save appends r to the user's collection, stamping SavedAt. It reports
// false for a missing user or recipe id, a duplicate, or a storage failure.
// A failed read leaves the stored collection untouched.
func (s *Store) Save(ctx context.Context, userID string, r recipe.Recipe) bool {
	if userID == "" || r.ID == "" {
		s.logger.Warn("Rejected save with missing identifier",
			zap.String("user_id", userID),
			zap.String("recipe_id", r.ID),
		)
		return false
	}

	current, err := s.read(ctx, userID)
	if err != nil {
		s.logger.Error("Refusing save after failed read", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	for _, existing := range current {
		if existing.ID == r.ID {
			return false
		}
	}

	current = append(current, recipe.SavedRecipe{Recipe: r, SavedAt: s.clock().UTC()})
	return s.persist(ctx, userID, current)
}

// Load returns the user's collection in insertion order. Absent, corrupt
// or unreadable data all yield an empty list.
func (s *Store) Load(ctx context.Context, userID string) []recipe.SavedRecipe {
	if userID == "" {
		return []recipe.SavedRecipe{}
	}

	list, err := s.read(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to read saved recipes", zap.String("user_id", userID), zap.Error(err))
		return []recipe.SavedRecipe{}
	}
	return list
}

// Remove deletes recipeID from the collection. It reports false when no
// entry matched, in which case nothing is written.
func (s *Store) Remove(ctx context.Context, userID, recipeID string) bool {
	if userID == "" {
		return false
	}

	current, err := s.read(ctx, userID)
	if err != nil {
		s.logger.Error("Refusing remove after failed read", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	kept := make([]recipe.SavedRecipe, 0, len(current))
	for _, r := range current {
		if r.ID != recipeID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(current) {
		return false
	}
	return s.persist(ctx, userID, kept)
}

// Clear drops the whole collection.
func (s *Store) Clear(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	if err := s.kv.Remove(ctx, Key(userID)); err != nil {
		s.logger.Error("Failed to clear saved recipes", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return true
}

// IsSaved reports whether recipeID is in the user's collection.
func (s *Store) IsSaved(ctx context.Context, userID, recipeID string) bool {
	for _, r := range s.Load(ctx, userID) {
		if r.ID == recipeID {
			return true
		}
	}
	return false
}

// read decodes the stored collection. Only a backend failure is an error;
// absent or malformed data reads as empty so a save can replace it.
func (s *Store) read(ctx context.Context, userID string) ([]recipe.SavedRecipe, error) {
	raw, found, err := s.kv.Get(ctx, Key(userID))
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return []recipe.SavedRecipe{}, nil
	}

	var list []recipe.SavedRecipe
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Warn("Ignoring malformed saved recipes", zap.String("user_id", userID), zap.Error(err))
		return []recipe.SavedRecipe{}, nil
	}
	if list == nil {
		return []recipe.SavedRecipe{}, nil
	}
	return list, nil
}

func (s *Store) persist(ctx context.Context, userID string, list []recipe.SavedRecipe) bool {
	payload, err := json.Marshal(list)
	if err != nil {
		s.logger.Error("Failed to encode saved recipes", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	if err := s.kv.Set(ctx, Key(userID), string(payload)); err != nil {
		s.logger.Error("Failed to persist saved recipes", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return true
}
