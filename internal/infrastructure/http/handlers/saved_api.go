package handlers

import (
	"net/http"

	"github.com/alchemorsel/recipe-explorer/internal/domain/recipe"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipe-explorer/internal/ports/inbound"
	"github.com/alchemorsel/recipe-explorer/pkg/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SavedHandlers serves the authenticated user's saved recipes. Every route
// is mounted behind RequireAuth.
type SavedHandlers struct {
	responder
	dashboard inbound.DashboardService
	saved     inbound.SavedRecipeService
}

// NewSavedHandlers creates saved-recipe handlers
func NewSavedHandlers(dashboard inbound.DashboardService, saved inbound.SavedRecipeService, logger *zap.Logger) *SavedHandlers {
	return &SavedHandlers{
		responder: newResponder(logger.Named("saved-api")),
		dashboard: dashboard,
		saved:     saved,
	}
}

// SavedListResponse is the saved list in insertion order
type SavedListResponse struct {
	Recipes []recipe.SavedRecipe `json:"recipes"`
	Total   int                  `json:"total"`
}

// List handles GET /api/v1/saved
func (h *SavedHandlers) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.CurrentUserID(r.Context())
	recipes := h.saved.Load(r.Context(), userID)
	h.writeJSON(w, http.StatusOK, SavedListResponse{Recipes: recipes, Total: len(recipes)})
}

// Save handles POST /api/v1/saved
func (h *SavedHandlers) Save(w http.ResponseWriter, r *http.Request) {
	var body recipe.Recipe
	if err := h.decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := body.Validate(); err != nil {
		h.writeError(w, r, errors.NewValidationError(err.Error()))
		return
	}

	userID, _ := middleware.CurrentUserID(r.Context())
	result := h.dashboard.SaveRecipe(r.Context(), userID, body)

	switch result.Status {
	case inbound.SaveStatusSaved:
		h.writeJSON(w, http.StatusCreated, result)
	case inbound.SaveStatusAlreadySaved:
		h.writeError(w, r, errors.NewConflictError(result.Message).
			WithMetadata("status", string(result.Status)).
			WithMetadata("recipe_id", body.ID))
	case inbound.SaveStatusNotLoggedIn:
		h.writeJSON(w, http.StatusUnauthorized, result)
	default:
		h.writeJSON(w, http.StatusInternalServerError, result)
	}
}

// Remove handles DELETE /api/v1/saved/{id}
func (h *SavedHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.CurrentUserID(r.Context())
	recipeID := chi.URLParam(r, "id")

	if !h.saved.IsSaved(r.Context(), userID, recipeID) {
		h.writeError(w, r, errors.NewNotFoundError("saved recipe"))
		return
	}
	if !h.saved.Remove(r.Context(), userID, recipeID) {
		h.writeError(w, r, errors.NewInternalError("Failed to remove recipe"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/v1/saved
func (h *SavedHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.CurrentUserID(r.Context())
	if !h.saved.Clear(r.Context(), userID) {
		h.writeError(w, r, errors.NewInternalError("Failed to clear saved recipes"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
