// Package recipe contains the core domain types of recipe discovery:
// the synthesised Recipe, its pairings and the food-group classifier.
package recipe

import "time"

// Recipe is one search result after enrichment. The JSON shape is the
// contract consumed by the dashboard client and persisted by the
// saved-recipe store.
type Recipe struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	ImageURL              string    `json:"imageUrl"`
	Ingredients           []string  `json:"ingredients"`
	Instructions          []string  `json:"instructions"`
	UsedIngredients       []string  `json:"usedIngredients"`
	MissedIngredients     []string  `json:"missedIngredients"`
	UsedIngredientCount   int       `json:"usedIngredientCount"`
	MissedIngredientCount int       `json:"missedIngredientCount"`
	FoodGroup             FoodGroup `json:"foodGroup"`
	SourceURL             *string   `json:"sourceUrl"`
	Pairings              []Pairing `json:"pairings"`
	IsFavorite            bool      `json:"isFavorite"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Validate checks the structural invariants of a recipe.
func (r Recipe) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if r.UsedIngredientCount != len(r.UsedIngredients) || r.MissedIngredientCount != len(r.MissedIngredients) {
		return ErrCountMismatch
	}
	if !r.FoodGroup.Valid() {
		return ErrUnknownFoodGroup
	}

	seen := make(map[PairingType]bool, len(r.Pairings))
	for _, p := range r.Pairings {
		if !p.Type.Valid() {
			return ErrInvalidPairing
		}
		if seen[p.Type] {
			return ErrDuplicatePairing
		}
		seen[p.Type] = true
	}
	return nil
}

// Pairing returns the first pairing of the given type.
func (r Recipe) Pairing(t PairingType) (Pairing, bool) {
	for _, p := range r.Pairings {
		if p.Type == t {
			return p, true
		}
	}
	return Pairing{}, false
}

// PairingType distinguishes drink from dessert suggestions.
type PairingType string

const (
	PairingTypeDrink   PairingType = "drink"
	PairingTypeDessert PairingType = "dessert"
)

// Valid reports whether t is a known pairing type.
func (t PairingType) Valid() bool {
	return t == PairingTypeDrink || t == PairingTypeDessert
}

// Pairing is a drink or dessert suggested alongside a recipe.
type Pairing struct {
	ID          string      `json:"id"`
	Type        PairingType `json:"type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
}

// SavedRecipe is a Recipe bookmarked by a user.
type SavedRecipe struct {
	Recipe
	SavedAt time.Time `json:"savedAt"`
}
