package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/traduz/apiserver/internal/services"
	"github.com/traduz/apiserver/internal/store"
	"github.com/traduz/apiserver/types"
)

// ProfileHandler serves the current user's profile.
type ProfileHandler struct {
	users  *services.UserService
	logger *slog.Logger
}

func NewProfileHandler(users *services.UserService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, logger: logger}
}

// ProfileRouter registers the profile routes. The caller must have
// applied the auth middleware.
func ProfileRouter(r chi.Router, users *services.UserService, logger *slog.Logger) {
	handler := NewProfileHandler(users, logger)

	r.Get("/profile", handler.Get)
	r.Put("/profile", handler.Update)
}

// ProfileResponse wraps the current account.
type ProfileResponse struct {
	User types.User `json:"user"`
}

// ProfileUpdateResponse is returned after a successful profile change.
type ProfileUpdateResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
}

// UpdateProfileRequest carries the optional profile fields. Absent
// fields are left unchanged; the password cannot be changed here.
type UpdateProfileRequest struct {
	Name               *string `json:"name"`
	Email              *string `json:"email"`
	PreferredLanguage  *string `json:"preferred_language"`
	Theme              *string `json:"theme"`
	AutoDetectLanguage *bool   `json:"auto_detect_language"`
}

// Get returns the authenticated user's profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{User: user})
}

// Update applies a partial profile change.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, services.ProfileUpdate{
		Name:               req.Name,
		Email:              req.Email,
		PreferredLanguage:  req.PreferredLanguage,
		Theme:              req.Theme,
		AutoDetectLanguage: req.AutoDetectLanguage,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeMessage(w, http.StatusBadRequest, "Email já cadastrado")
			return
		}
		h.logger.Error("update profile", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro ao atualizar perfil")
		return
	}

	writeJSON(w, http.StatusOK, ProfileUpdateResponse{
		Message: "Perfil atualizado com sucesso",
		User:    updated,
	})
}
