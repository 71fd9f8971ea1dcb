package recipe

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for the Recipe entity
type RecipeTestSuite struct {
	suite.Suite
}

func (suite *RecipeTestSuite) validRecipe() Recipe {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return Recipe{
		ID:                    "715538",
		Title:                 "Bruschetta",
		UsedIngredients:       []string{"tomato", "bread"},
		MissedIngredients:     []string{"basil"},
		UsedIngredientCount:   2,
		MissedIngredientCount: 1,
		FoodGroup:             FoodGroupGrains,
		Pairings: []Pairing{
			{ID: "11007", Type: PairingTypeDrink, Name: "Margarita"},
			{ID: "52768", Type: PairingTypeDessert, Name: "Apple Frangipan Tart"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (suite *RecipeTestSuite) TestValidate() {
	suite.Run("ValidRecipe_ShouldPass", func() {
		assert.NoError(suite.T(), suite.validRecipe().Validate())
	})

	suite.Run("MissingID_ShouldFail", func() {
		r := suite.validRecipe()
		r.ID = ""
		assert.ErrorIs(suite.T(), r.Validate(), ErrMissingID)
	})

	suite.Run("CountMismatch_ShouldFail", func() {
		r := suite.validRecipe()
		r.UsedIngredientCount = 5
		assert.ErrorIs(suite.T(), r.Validate(), ErrCountMismatch)
	})

	suite.Run("UnknownFoodGroup_ShouldFail", func() {
		r := suite.validRecipe()
		r.FoodGroup = "Sweets"
		assert.ErrorIs(suite.T(), r.Validate(), ErrUnknownFoodGroup)
	})

	suite.Run("TwoDrinks_ShouldFail", func() {
		r := suite.validRecipe()
		r.Pairings = []Pairing{{Type: PairingTypeDrink}, {Type: PairingTypeDrink}}
		assert.ErrorIs(suite.T(), r.Validate(), ErrDuplicatePairing)
	})

	suite.Run("UnknownPairingType_ShouldFail", func() {
		r := suite.validRecipe()
		r.Pairings = []Pairing{{Type: "appetizer"}}
		assert.ErrorIs(suite.T(), r.Validate(), ErrInvalidPairing)
	})
}

func (suite *RecipeTestSuite) TestPairingLookup() {
	r := suite.validRecipe()

	drink, ok := r.Pairing(PairingTypeDrink)
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "Margarita", drink.Name)

	r.Pairings = nil
	_, ok = r.Pairing(PairingTypeDessert)
	assert.False(suite.T(), ok)
}

func (suite *RecipeTestSuite) TestJSONShape() {
	source := "https://example.com/bruschetta"
	r := suite.validRecipe()
	r.SourceURL = &source

	raw, err := json.Marshal(SavedRecipe{Recipe: r, SavedAt: r.CreatedAt})
	require.NoError(suite.T(), err)

	var fields map[string]any
	require.NoError(suite.T(), json.Unmarshal(raw, &fields))

	for _, key := range []string{"id", "imageUrl", "usedIngredientCount", "missedIngredientCount", "foodGroup", "sourceUrl", "isFavorite", "savedAt"} {
		assert.Contains(suite.T(), fields, key)
	}
	assert.Equal(suite.T(), "Grains", fields["foodGroup"])
}

func (suite *RecipeTestSuite) TestJSONShape_AbsentSourceURLIsNull() {
	raw, err := json.Marshal(suite.validRecipe())
	require.NoError(suite.T(), err)

	var fields map[string]any
	require.NoError(suite.T(), json.Unmarshal(raw, &fields))
	value, present := fields["sourceUrl"]
	assert.True(suite.T(), present)
	assert.Nil(suite.T(), value)
}

func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}
