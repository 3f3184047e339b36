package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/traduz/apiserver/internal/auth"
	"github.com/traduz/apiserver/internal/services"
	"github.com/traduz/apiserver/internal/store"
)

// Responses for the authorization failure modes. Each mode is
// distinguishable by its message.
const (
	msgTokenMissing = "Token não fornecido"
	msgTokenInvalid = "Token inválido"
	msgTokenExpired = "Token expirado"
	msgUserNotFound = "Usuário não encontrado"
)

// RequireAuth builds the middleware protecting every route except
// registration, login, and the liveness probe. It extracts the bearer
// token, validates it, resolves the user, and injects the user into
// the request context.
func RequireAuth(tokens *auth.TokenService, users *services.UserService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}
			if tokenString == "" {
				writeMessage(w, http.StatusUnauthorized, msgTokenMissing)
				return
			}

			userID, err := tokens.Validate(tokenString)
			if err != nil {
				if errors.Is(err, auth.ErrExpired) {
					writeMessage(w, http.StatusUnauthorized, msgTokenExpired)
					return
				}
				writeMessage(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					writeMessage(w, http.StatusUnauthorized, msgUserNotFound)
					return
				}
				logger.Error("resolve token user", "user_id", userID, "error", err)
				writeMessage(w, http.StatusInternalServerError, "Erro inesperado")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// bearerToken pulls the token out of an "Authorization: Bearer <token>"
// header. The second return is false when the header is present but not
// exactly two space-separated parts.
func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", true
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
