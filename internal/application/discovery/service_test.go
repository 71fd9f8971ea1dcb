package discovery

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/domain/recipe"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/alchemorsel/recipe-explorer/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 4, 10, 30, 0, 0, time.UTC)

// DiscoveryServiceTestSuite exercises the search orchestrator end to end
// against mocked upstream clients.
type DiscoveryServiceTestSuite struct {
	suite.Suite
	search   *MockRecipeSearchClient
	drinks   *MockDrinkClient
	desserts *MockDessertClient
	metrics  *recordingMetrics
	service  *Service
}

func (suite *DiscoveryServiceTestSuite) SetupTest() {
	suite.search = new(MockRecipeSearchClient)
	suite.drinks = new(MockDrinkClient)
	suite.desserts = new(MockDessertClient)
	suite.metrics = newRecordingMetrics()
	suite.service = suite.newService(Options{})
}

func (suite *DiscoveryServiceTestSuite) newService(opts Options) *Service {
	logger := zap.NewNop()
	opts.Clock = func() time.Time { return fixedNow }
	details := NewDetailFetcher(suite.search, suite.metrics, 0, logger)
	pairings := NewPairingFetcher(suite.drinks, suite.desserts, func(int) int { return 0 }, suite.metrics, 0, logger)
	return NewService(suite.search, details, pairings, opts, suite.metrics, logger).(*Service)
}

func (suite *DiscoveryServiceTestSuite) candidates(ids ...string) []outbound.Candidate {
	out := make([]outbound.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, outbound.Candidate{
			ID:                    id,
			Title:                 "Recipe " + id,
			Image:                 "https://img.example.com/" + id + ".jpg",
			UsedIngredients:       []string{"chicken"},
			MissedIngredients:     []string{"salt", "pepper"},
			UsedIngredientCount:   1,
			MissedIngredientCount: 2,
		})
	}
	return out
}

func (suite *DiscoveryServiceTestSuite) expectPairings() {
	suite.drinks.On("RandomDrink", mock.Anything).
		Return(&outbound.Drink{ID: "11007", Name: "Margarita", Instructions: "Shake well.", ImageURL: "m.jpg"}, nil)
	suite.desserts.On("ListDesserts", mock.Anything).
		Return([]outbound.MealSummary{{ID: "52768", Name: "Apple Frangipan Tart"}}, nil)
	suite.desserts.On("LookupMeal", mock.Anything, "52768").
		Return(&outbound.Meal{ID: "52768", Name: "Apple Frangipan Tart", Instructions: "Bake.", ImageURL: "t.jpg"}, nil)
}

func (suite *DiscoveryServiceTestSuite) TestSearch_PreservesCandidateOrder() {
	// Arrange
	suite.search.On("FindByIngredients", mock.Anything, []string{"chicken", "rice"}, DefaultCandidateLimit).
		Return(suite.candidates("1", "2", "3"), nil)
	suite.search.On("RecipeInformation", mock.Anything, "1").
		After(80*time.Millisecond).
		Return(&outbound.RecipeInformation{Ingredients: []string{"chicken thighs"}}, nil)
	suite.search.On("RecipeInformation", mock.Anything, "2").
		Return(&outbound.RecipeInformation{Ingredients: []string{"whole milk"}}, nil)
	suite.search.On("RecipeInformation", mock.Anything, "3").
		Return(&outbound.RecipeInformation{Ingredients: []string{"brown rice"}}, nil)
	suite.expectPairings()

	// Act
	results, err := suite.service.Search(context.Background(), []string{"chicken", "rice"})

	// Assert
	require.NoError(suite.T(), err)
	require.Len(suite.T(), results, 3)
	assert.Equal(suite.T(), "1", results[0].ID)
	assert.Equal(suite.T(), "2", results[1].ID)
	assert.Equal(suite.T(), "3", results[2].ID)
	assert.Equal(suite.T(), recipe.FoodGroupProtein, results[0].FoodGroup)
	assert.Equal(suite.T(), recipe.FoodGroupDairy, results[1].FoodGroup)
	assert.Equal(suite.T(), recipe.FoodGroupGrains, results[2].FoodGroup)
}

func (suite *DiscoveryServiceTestSuite) TestSearch_PrimaryFailureIsFatal() {
	// Arrange
	suite.search.On("FindByIngredients", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, stderrors.New("unexpected status 500"))

	// Act
	results, err := suite.service.Search(context.Background(), []string{"chicken"})

	// Assert
	assert.Nil(suite.T(), results)
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, errors.CodeUpstreamSearchFailed))
	suite.search.AssertNotCalled(suite.T(), "RecipeInformation", mock.Anything, mock.Anything)
	suite.drinks.AssertNotCalled(suite.T(), "RandomDrink", mock.Anything)
	assert.Equal(suite.T(), 1, suite.metrics.searches["failed"])
}

func (suite *DiscoveryServiceTestSuite) TestSearch_EmptyIngredientsRejected() {
	results, err := suite.service.Search(context.Background(), []string{"  ", ""})

	assert.Nil(suite.T(), results)
	assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	suite.search.AssertNotCalled(suite.T(), "FindByIngredients", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DiscoveryServiceTestSuite) TestSearch_NoCandidates() {
	suite.search.On("FindByIngredients", mock.Anything, mock.Anything, mock.Anything).
		Return([]outbound.Candidate{}, nil)

	results, err := suite.service.Search(context.Background(), []string{"xylophone"})

	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), results)
	assert.Empty(suite.T(), results)
}

func (suite *DiscoveryServiceTestSuite) TestSearch_DetailFailureKeepsPairings() {
	// Arrange
	suite.search.On("FindByIngredients", mock.Anything, mock.Anything, mock.Anything).
		Return(suite.candidates("42"), nil)
	suite.search.On("RecipeInformation", mock.Anything, "42").
		Return(nil, stderrors.New("connection reset"))
	suite.expectPairings()

	// Act
	results, err := suite.service.Search(context.Background(), []string{"chicken"})

	// Assert
	require.NoError(suite.T(), err)
	require.Len(suite.T(), results, 1)
	r := results[0]
	assert.Empty(suite.T(), r.Ingredients)
	assert.NotNil(suite.T(), r.Ingredients)
	assert.Empty(suite.T(), r.Instructions)
	assert.Nil(suite.T(), r.SourceURL)
	assert.Equal(suite.T(), recipe.FoodGroupOther, r.FoodGroup)
	require.Len(suite.T(), r.Pairings, 2)
	assert.Equal(suite.T(), recipe.PairingTypeDrink, r.Pairings[0].Type)
	assert.Equal(suite.T(), recipe.PairingTypeDessert, r.Pairings[1].Type)
	assert.Equal(suite.T(), 1, suite.metrics.enrichment(sourceDetails, string(OutcomeDegraded)))
}

func (suite *DiscoveryServiceTestSuite) TestSearch_PairingFailureKeepsDetails() {
	// Arrange
	suite.search.On("FindByIngredients", mock.Anything, mock.Anything, mock.Anything).
		Return(suite.candidates("7"), nil)
	suite.search.On("RecipeInformation", mock.Anything, "7").
		Return(&outbound.RecipeInformation{
			Ingredients:  []string{"1 lb ground beef", "1 onion"},
			Instructions: "Brown the beef.\n\n  Add onion.\n",
			SourceURL:    "https://example.com/beef",
		}, nil)
	suite.drinks.On("RandomDrink", mock.Anything).Return(nil, stderrors.New("status 503"))
	suite.desserts.On("ListDesserts", mock.Anything).Return(nil, stderrors.New("timeout"))

	// Act
	results, err := suite.service.Search(context.Background(), []string{"beef"})

	// Assert
	require.NoError(suite.T(), err)
	require.Len(suite.T(), results, 1)
	r := results[0]
	assert.Empty(suite.T(), r.Pairings)
	assert.Equal(suite.T(), []string{"1 lb ground beef", "1 onion"}, r.Ingredients)
	assert.Equal(suite.T(), []string{"Brown the beef.", "Add onion."}, r.Instructions)
	require.NotNil(suite.T(), r.SourceURL)
	assert.Equal(suite.T(), "https://example.com/beef", *r.SourceURL)
	assert.Equal(suite.T(), recipe.FoodGroupProtein, r.FoodGroup)
	suite.desserts.AssertNotCalled(suite.T(), "LookupMeal", mock.Anything, mock.Anything)
}

func (suite *DiscoveryServiceTestSuite) TestSearch_SynthesisedFields() {
	suite.search.On("FindByIngredients", mock.Anything, mock.Anything, mock.Anything).
		Return(suite.candidates("9"), nil)
	suite.search.On("RecipeInformation", mock.Anything, "9").
		Return(&outbound.RecipeInformation{Ingredients: []string{"banana"}}, nil)
	suite.expectPairings()

	results, err := suite.service.Search(context.Background(), []string{"chicken"})

	require.NoError(suite.T(), err)
	r := results[0]
	assert.NoError(suite.T(), r.Validate())
	assert.Equal(suite.T(), "Recipe 9", r.Title)
	assert.Equal(suite.T(), "https://img.example.com/9.jpg", r.ImageURL)
	assert.Equal(suite.T(), len(r.UsedIngredients), r.UsedIngredientCount)
	assert.Equal(suite.T(), len(r.MissedIngredients), r.MissedIngredientCount)
	assert.False(suite.T(), r.IsFavorite)
	assert.Equal(suite.T(), fixedNow, r.CreatedAt)
	assert.Equal(suite.T(), fixedNow, r.UpdatedAt)
	assert.Equal(suite.T(), 1, suite.metrics.searches["success"])
}

func (suite *DiscoveryServiceTestSuite) TestSearch_BoundedConcurrencyKeepsAllResults() {
	svc := suite.newService(Options{MaxConcurrency: 1, CandidateLimit: 4})
	suite.search.On("FindByIngredients", mock.Anything, mock.Anything, 4).
		Return(suite.candidates("a", "b", "c", "d"), nil)
	suite.search.On("RecipeInformation", mock.Anything, mock.Anything).
		Return(&outbound.RecipeInformation{}, nil)
	suite.expectPairings()

	results, err := svc.Search(context.Background(), []string{"chicken"})

	require.NoError(suite.T(), err)
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	assert.Equal(suite.T(), []string{"a", "b", "c", "d"}, ids)
}

func TestDiscoveryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DiscoveryServiceTestSuite))
}
