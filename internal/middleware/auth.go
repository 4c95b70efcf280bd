package middleware

import (
	"context"
	"errors"
	"net/http"

	"fishmart-be/internal/access"
	"fishmart-be/internal/auth"
	"fishmart-be/internal/logger"
	"fishmart-be/internal/user"
	"fishmart-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserLookup resolves the account behind a token.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

// AuthMiddleware attaches the caller to the request context. Requests
// without a token pass through anonymously and are rejected later by the
// services that need an actor. A token that is present but does not verify,
// or names an unknown account, is answered with 401 here.
func AuthMiddleware(tokens *auth.TokenManager, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.BearerToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := logger.FromCtx(r.Context()).With(zap.String("layer", "middleware"))

			userID, _, err := tokens.Parse(tokenStr)
			if err != nil {
				log.Debug("rejected token", zap.Error(err))
				utils.WriteJSONError(w, "Token is not valid", http.StatusUnauthorized)
				return
			}

			// the role always comes from the store, never from the token
			u, err := users.FindByID(r.Context(), userID)
			if errors.Is(err, user.ErrUserNotFound) {
				utils.WriteJSONError(w, "Token is not valid", http.StatusUnauthorized)
				return
			}
			if err != nil {
				log.Error("failed to load token owner", zap.Error(err))
				utils.WriteJSONError(w, "Server error", http.StatusInternalServerError)
				return
			}

			ctx := access.WithActor(r.Context(), access.Actor{ID: u.ID, Role: u.Role})
			ctx = logger.WithUserID(ctx, u.ID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth answers 401 for anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := access.ActorFrom(r.Context()); !ok {
			utils.WriteJSONError(w, "No token, authorization denied", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
