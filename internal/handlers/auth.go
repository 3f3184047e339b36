package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/traduz/apiserver/internal/auth"
	"github.com/traduz/apiserver/internal/services"
	"github.com/traduz/apiserver/internal/store"
	"github.com/traduz/apiserver/types"
)

const msgInvalidPayload = "Dados inválidos"

// AuthHandler provides the registration and login endpoints.
type AuthHandler struct {
	users  *services.UserService
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(users *services.UserService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// AuthRouter registers the unauthenticated account routes.
func AuthRouter(r chi.Router, users *services.UserService, tokens *auth.TokenService, logger *slog.Logger) {
	handler := NewAuthHandler(users, tokens, logger)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both register and login: a session token
// plus the account it belongs to.
type AuthResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    types.User `json:"user"`
}

// Register creates a new account and returns a session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeMessage(w, http.StatusBadRequest, "Email já cadastrado")
			return
		}
		h.logger.Error("register user", "email", req.Email, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro ao registrar usuário")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue token", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro ao registrar usuário")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Message: "Usuário registrado com sucesso",
		Token:   token,
		User:    user,
	})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Email ou senha inválidos")
			return
		}
		h.logger.Error("login", "email", req.Email, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro ao fazer login")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue token", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro ao fazer login")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message: "Login realizado com sucesso",
		Token:   token,
		User:    user,
	})
}
