package dashboard

import (
	"context"

	"github.com/alchemorsel/recipe-explorer/internal/domain/recipe"
	"github.com/alchemorsel/recipe-explorer/internal/ports/inbound"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/alchemorsel/recipe-explorer/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// User-facing messages.
const (
	MsgSelectIngredient = "Please select at least one ingredient"
	MsgNoRecipes        = "No recipes found with selected ingredients"
	MsgSearchFailed     = "Failed to search recipes"
	MsgLoginToSave      = "Please log in to save recipes"
	MsgAlreadySaved     = "Recipe is already saved"
	MsgSaved            = "Recipe saved successfully!"
	MsgSaveFailed       = "Failed to save recipe"
	MsgNoImage          = "Please provide an image"
	MsgDetectFailed     = "Failed to analyze image"
)

// DefaultDisplayLimit is how many cards the dashboard shows.
const DefaultDisplayLimit = 6

// Controller implements inbound.DashboardService.
type Controller struct {
	discovery    inbound.DiscoveryService
	saved        inbound.SavedRecipeService
	detector     outbound.IngredientDetector
	displayLimit int
	tracer       trace.Tracer
	logger       *zap.Logger
}

// NewController creates the dashboard controller. detector may be nil when
// image analysis is not configured.
func NewController(
	discovery inbound.DiscoveryService,
	saved inbound.SavedRecipeService,
	detector outbound.IngredientDetector,
	displayLimit int,
	logger *zap.Logger,
) inbound.DashboardService {
	if displayLimit <= 0 {
		displayLimit = DefaultDisplayLimit
	}
	return &Controller{
		discovery:    discovery,
		saved:        saved,
		detector:     detector,
		displayLimit: displayLimit,
		tracer:       otel.Tracer("github.com/alchemorsel/recipe-explorer/dashboard"),
		logger:       logger.Named("dashboard"),
	}
}

// Search runs a discovery search for the selection and marks results the
// user has already saved. An empty userID means an anonymous visitor.
func (c *Controller) Search(ctx context.Context, userID string, ingredients []string) (*inbound.SearchView, error) {
	selection := NewSelection(ingredients...)
	if selection.Len() == 0 {
		return nil, errors.NewValidationError(MsgSelectIngredient)
	}

	ctx, span := c.tracer.Start(ctx, "dashboard.Search",
		trace.WithAttributes(attribute.Bool("authenticated", userID != "")))
	defer span.End()

	results, err := c.discovery.Search(ctx, selection.Items())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		if errors.GetCode(err) == errors.CodeUpstreamSearchFailed {
			return nil, err
		}
		return nil, errors.Wrap(err, MsgSearchFailed)
	}

	view := &inbound.SearchView{
		Ingredients: selection.Items(),
		Recipes:     []inbound.RecipeCard{},
		Total:       len(results),
	}
	if len(results) == 0 {
		view.Message = MsgNoRecipes
		return view, nil
	}

	savedIDs := c.savedIDs(ctx, userID)
	for i, r := range results {
		if i == c.displayLimit {
			break
		}
		card := inbound.RecipeCard{Recipe: r, IsSaved: savedIDs[r.ID]}
		if drink, ok := r.Pairing(recipe.PairingTypeDrink); ok {
			card.DrinkPairing = &drink
		}
		view.Recipes = append(view.Recipes, card)
	}
	span.SetAttributes(attribute.Int("displayed", len(view.Recipes)))
	return view, nil
}

// SaveRecipe bookmarks r for the user.
func (c *Controller) SaveRecipe(ctx context.Context, userID string, r recipe.Recipe) inbound.SaveResult {
	if userID == "" {
		return inbound.SaveResult{Status: inbound.SaveStatusNotLoggedIn, Message: MsgLoginToSave}
	}
	if c.saved.IsSaved(ctx, userID, r.ID) {
		return inbound.SaveResult{Status: inbound.SaveStatusAlreadySaved, Message: MsgAlreadySaved}
	}
	if !c.saved.Save(ctx, userID, r) {
		return inbound.SaveResult{Status: inbound.SaveStatusFailed, Message: MsgSaveFailed}
	}

	c.logger.Info("Recipe saved", zap.String("user_id", userID), zap.String("recipe_id", r.ID))
	return inbound.SaveResult{Status: inbound.SaveStatusSaved, Message: MsgSaved}
}

// DetectIngredients analyses a photo and merges the detected ingredients
// into the current selection.
func (c *Controller) DetectIngredients(ctx context.Context, image []byte, selected []string) ([]string, error) {
	if len(image) == 0 {
		return nil, errors.NewValidationError(MsgNoImage)
	}
	if c.detector == nil {
		return nil, errors.NewExternalServiceError("image analysis", errors.NewInternalError("detector not configured"))
	}

	detected, err := c.detector.DetectIngredients(ctx, image)
	if err != nil {
		c.logger.Error("Ingredient detection failed", zap.Error(err))
		return nil, errors.NewExternalServiceError("image analysis", err).WithMetadata("message", MsgDetectFailed)
	}

	selection := NewSelection(selected...)
	selection.Merge(detected)
	return selection.Items(), nil
}

func (c *Controller) savedIDs(ctx context.Context, userID string) map[string]bool {
	ids := map[string]bool{}
	if userID == "" {
		return ids
	}
	for _, r := range c.saved.Load(ctx, userID) {
		ids[r.ID] = true
	}
	return ids
}
