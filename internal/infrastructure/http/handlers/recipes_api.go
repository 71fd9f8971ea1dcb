package handlers

import (
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipe-explorer/internal/ports/inbound"
	"github.com/alchemorsel/recipe-explorer/pkg/errors"
	"go.uber.org/zap"
)

// RecipeHandlers serves ingredient search and photo detection
type RecipeHandlers struct {
	responder
	dashboard      inbound.DashboardService
	maxUploadBytes int64
}

// NewRecipeHandlers creates recipe handlers. maxUploadBytes caps the
// image upload size.
func NewRecipeHandlers(dashboard inbound.DashboardService, maxUploadBytes int64, logger *zap.Logger) *RecipeHandlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &RecipeHandlers{
		responder:      newResponder(logger.Named("recipes-api")),
		dashboard:      dashboard,
		maxUploadBytes: maxUploadBytes,
	}
}

// SearchRequest is the body of a recipe search
type SearchRequest struct {
	Ingredients []string `json:"ingredients" validate:"max=50,dive,max=100"`
}

// DetectResponse lists the merged ingredient selection
type DetectResponse struct {
	Ingredients []string `json:"ingredients"`
}

// Search handles POST /api/v1/recipes/search. Saved flags are filled in
// only for authenticated callers.
func (h *RecipeHandlers) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	userID, _ := middleware.CurrentUserID(r.Context())
	view, err := h.dashboard.Search(r.Context(), userID, req.Ingredients)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// DetectIngredients handles POST /api/v1/ingredients/detect. The photo is
// either the "image" part of a multipart form or the raw request body.
// Already selected ingredients come from "selected" form or query values.
func (h *RecipeHandlers) DetectIngredients(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	image, selected, err := h.readImage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ingredients, err := h.dashboard.DetectIngredients(r.Context(), image, selected)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, DetectResponse{Ingredients: ingredients})
}

func (h *RecipeHandlers) readImage(r *http.Request) ([]byte, []string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return nil, nil, uploadError(err)
		}
		selected := r.MultipartForm.Value["selected"]

		file, _, err := r.FormFile("image")
		if stderrors.Is(err, http.ErrMissingFile) {
			return nil, selected, nil
		}
		if err != nil {
			return nil, nil, errors.NewBadRequestError("Invalid image upload")
		}
		defer file.Close()

		image, err := io.ReadAll(file)
		if err != nil {
			return nil, nil, uploadError(err)
		}
		return image, selected, nil
	}

	image, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, uploadError(err)
	}
	return image, r.URL.Query()["selected"], nil
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return errors.NewBadRequestError("Image is too large")
	}
	return errors.NewBadRequestError("Could not read image upload")
}
