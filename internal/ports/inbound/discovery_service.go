// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/alchemorsel/recipe-explorer/internal/domain/recipe"
)

// DiscoveryService turns a list of ingredients into enriched recipes.
type DiscoveryService interface {
	Search(ctx context.Context, ingredients []string) ([]recipe.Recipe, error)
}

// SavedRecipeService manages a user's bookmarked recipes. Failures are
// reported as false or an empty list, never as errors.
type SavedRecipeService interface {
	Save(ctx context.Context, userID string, r recipe.Recipe) bool
	Load(ctx context.Context, userID string) []recipe.SavedRecipe
	Remove(ctx context.Context, userID, recipeID string) bool
	Clear(ctx context.Context, userID string) bool
	IsSaved(ctx context.Context, userID, recipeID string) bool
}
