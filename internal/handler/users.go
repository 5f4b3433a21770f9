package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/milletcart/api/internal/middleware"
	"github.com/milletcart/api/internal/storage"
)

// ProfileStore defines the storage methods needed by the profile handler.
type ProfileStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (storage.User, error)
}

// UserHandler serves the authenticated caller's own profile.
type UserHandler struct {
	store ProfileStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store ProfileStore) *UserHandler {
	return &UserHandler{store: store}
}

// RegisterRoutes registers profile endpoints on the given Chi router.
// Expected to be mounted inside the authenticated group.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/me", h.Me)
}

type profileResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt string    `json:"created_at"`
}

// Me returns the caller's account.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	user, err := h.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "account not found"})
			return
		}
		slog.Error("profile lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Provider:  user.Provider,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	})
}
