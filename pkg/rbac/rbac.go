// Package rbac guards routes by permission slug. Authenticate must run first.
package rbac

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// Checker answers whether a user holds a permission through any of its roles.
type Checker interface {
	HasPermission(ctx context.Context, userID uint, permission string) (bool, error)
}

// Can allows the request only when the authenticated user holds every
// listed permission.
func Can(checker Checker, permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := middleware.UserIDFromCtx(r)
			if !ok {
				response.Unauthorized(w)
				return
			}
			for _, p := range permissions {
				allowed, err := checker.HasPermission(r.Context(), userID, p)
				if err != nil {
					logger.WithCtx(r.Context()).Error("permission check failed", "permission", p, "error", err)
					response.Error(w, http.StatusInternalServerError, "Internal Server Error")
					return
				}
				if !allowed {
					response.Forbidden(w)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
