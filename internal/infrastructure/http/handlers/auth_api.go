package handlers

import (
	"net/http"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipe-explorer/internal/ports/inbound"
	"github.com/alchemorsel/recipe-explorer/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthAPIHandlers handles authentication API requests
type AuthAPIHandlers struct {
	responder
	users inbound.UserService
}

// NewAuthAPIHandlers creates a new authentication API handlers instance
func NewAuthAPIHandlers(users inbound.UserService, logger *zap.Logger) *AuthAPIHandlers {
	return &AuthAPIHandlers{
		responder: newResponder(logger.Named("auth-api")),
		users:     users,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthAPIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.RegisterCommand
	if err := h.decodeJSON(w, r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.users.Register(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login
func (h *AuthAPIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.LoginCommand
	if err := h.decodeJSON(w, r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.users.Login(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me
func (h *AuthAPIHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.CurrentUserID(r.Context())
	id, err := uuid.Parse(userID)
	if err != nil {
		h.writeError(w, r, errors.NewUnauthorizedError("Invalid token subject"))
		return
	}

	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}
