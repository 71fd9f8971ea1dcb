package inbound

import (
	"context"

	"github.com/alchemorsel/recipe-explorer/internal/domain/recipe"
)

// DashboardService drives the ingredient-search screen.
type DashboardService interface {
	Search(ctx context.Context, userID string, ingredients []string) (*SearchView, error)
	SaveRecipe(ctx context.Context, userID string, r recipe.Recipe) SaveResult
	DetectIngredients(ctx context.Context, image []byte, selected []string) ([]string, error)
}

// RecipeCard is a search result as shown on the dashboard.
type RecipeCard struct {
	recipe.Recipe
	IsSaved      bool            `json:"isSaved"`
	DrinkPairing *recipe.Pairing `json:"drinkPairing,omitempty"`
}

// SearchView is the dashboard's result list.
type SearchView struct {
	Ingredients []string     `json:"ingredients"`
	Recipes     []RecipeCard `json:"recipes"`
	Total       int          `json:"total"`
	Message     string       `json:"message,omitempty"`
}

// SaveStatus is the outcome of a save request from the dashboard.
type SaveStatus string

const (
	SaveStatusSaved        SaveStatus = "saved"
	SaveStatusAlreadySaved SaveStatus = "already_saved"
	SaveStatusNotLoggedIn  SaveStatus = "not_logged_in"
	SaveStatusFailed       SaveStatus = "failed"
)

// SaveResult pairs a status with the message shown to the user.
type SaveResult struct {
	Status  SaveStatus `json:"status"`
	Message string     `json:"message"`
}
