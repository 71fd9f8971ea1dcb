package outbound

import "context"

// Candidate is one entry of a find-by-ingredients response.
type Candidate struct {
	ID                    string
	Title                 string
	Image                 string
	UsedIngredients       []string
	MissedIngredients     []string
	UsedIngredientCount   int
	MissedIngredientCount int
}

// RecipeInformation is the subset of the recipe-information response the
// service reads. Instructions is the raw newline-delimited text.
type RecipeInformation struct {
	Ingredients  []string
	Instructions string
	SourceURL    string
}

// RecipeSearchClient queries the recipe-search provider.
type RecipeSearchClient interface {
	FindByIngredients(ctx context.Context, ingredients []string, number int) ([]Candidate, error)
	RecipeInformation(ctx context.Context, recipeID string) (*RecipeInformation, error)
}

// IngredientDetector extracts ingredient names from a food photo.
type IngredientDetector interface {
	DetectIngredients(ctx context.Context, image []byte) ([]string, error)
}

// Drink is a cocktail returned by the drink provider.
type Drink struct {
	ID           string
	Name         string
	Instructions string
	ImageURL     string
}

// DrinkClient returns a random drink.
type DrinkClient interface {
	RandomDrink(ctx context.Context) (*Drink, error)
}

// MealSummary is one entry of a category listing.
type MealSummary struct {
	ID       string
	Name     string
	ImageURL string
}

// Meal is a full meal record.
type Meal struct {
	ID           string
	Name         string
	Instructions string
	ImageURL     string
}

// DessertClient lists desserts and looks up single meals.
type DessertClient interface {
	ListDesserts(ctx context.Context) ([]MealSummary, error)
	LookupMeal(ctx context.Context, mealID string) (*Meal, error)
}
