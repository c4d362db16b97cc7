package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
	"github.com/alituydurr/sanatmerkezi-sub001/internal/service"
)

// AuthMiddleware validates the bearer token and stores the caller's id and
// role on the request context.
func AuthMiddleware(authService *service.AuthService, logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Warn("Malformed Authorization header")
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			userID, role, err := authService.ParseToken(parts[1])
			if err != nil {
				logger.WithError(err).Warn("Invalid token")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), "userID", userID)
			ctx = context.WithValue(ctx, "userRole", role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles rejects callers whose role is not in the allow list.
func RequireRoles(logger *logrus.Logger, roles ...model.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value("userRole").(model.Role)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.WithField("role", role).Warn("Role not allowed for this endpoint")
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

// callerID returns the authenticated user id from the context.
func callerID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value("userID").(uuid.UUID)
	return id, ok
}

func callerRole(r *http.Request) (model.Role, bool) {
	role, ok := r.Context().Value("userRole").(model.Role)
	return role, ok
}
