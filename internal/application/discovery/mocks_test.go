package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockRecipeSearchClient mocks outbound.RecipeSearchClient
type MockRecipeSearchClient struct {
	mock.Mock
}

func (m *MockRecipeSearchClient) FindByIngredients(ctx context.Context, ingredients []string, number int) ([]outbound.Candidate, error) {
	args := m.Called(ctx, ingredients, number)
	candidates, _ := args.Get(0).([]outbound.Candidate)
	return candidates, args.Error(1)
}

func (m *MockRecipeSearchClient) RecipeInformation(ctx context.Context, recipeID string) (*outbound.RecipeInformation, error) {
	args := m.Called(ctx, recipeID)
	info, _ := args.Get(0).(*outbound.RecipeInformation)
	return info, args.Error(1)
}

// MockDrinkClient mocks outbound.DrinkClient
type MockDrinkClient struct {
	mock.Mock
}

func (m *MockDrinkClient) RandomDrink(ctx context.Context) (*outbound.Drink, error) {
	args := m.Called(ctx)
	drink, _ := args.Get(0).(*outbound.Drink)
	return drink, args.Error(1)
}

// MockDessertClient mocks outbound.DessertClient
type MockDessertClient struct {
	mock.Mock
}

func (m *MockDessertClient) ListDesserts(ctx context.Context) ([]outbound.MealSummary, error) {
	args := m.Called(ctx)
	listing, _ := args.Get(0).([]outbound.MealSummary)
	return listing, args.Error(1)
}

func (m *MockDessertClient) LookupMeal(ctx context.Context, mealID string) (*outbound.Meal, error) {
	args := m.Called(ctx, mealID)
	meal, _ := args.Get(0).(*outbound.Meal)
	return meal, args.Error(1)
}

// recordingMetrics counts observations by source and outcome.
type recordingMetrics struct {
	mu          sync.Mutex
	searches    map[string]int
	enrichments map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{searches: map[string]int{}, enrichments: map[string]int{}}
}

func (m *recordingMetrics) ObserveSearch(outcome string, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[outcome]++
}

func (m *recordingMetrics) ObserveEnrichment(source, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrichments[source+"/"+outcome]++
}

func (m *recordingMetrics) enrichment(source, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enrichments[source+"/"+outcome]
}
