package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/repository"
)

type contextKey string

// roleKey carries the resolved role through the request context.
const roleKey contextKey = "role"

// Role resolves the caller's access level. The X-User-Role header set by the
// auth proxy wins; without one the stored assignment for the {userID} route
// param applies; everything else is a viewer. The backend does no
// authentication of its own.
func Role(roleRepo *repository.RoleRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := model.Role(r.Header.Get("X-User-Role"))

			if !role.Valid() {
				role = model.RoleViewer
				if userID := chi.URLParam(r, "userID"); userID != "" && roleRepo != nil {
					if stored, err := roleRepo.GetRole(userID); err == nil {
						role = stored
					}
				}
			}

			ctx := context.WithValue(r.Context(), roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleFrom returns the role resolved for the request, defaulting to viewer.
func RoleFrom(ctx context.Context) model.Role {
	if role, ok := ctx.Value(roleKey).(model.Role); ok {
		return role
	}
	return model.RoleViewer
}
