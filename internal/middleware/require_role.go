package middleware

import (
	"errors"
	"net/http"
	"time"

	"airport-ops/tarmac/internal/auth"
	"airport-ops/tarmac/internal/common"
	"airport-ops/tarmac/internal/constants"
)

// RequireRole lets the request through only for the listed roles
func RequireRole(roles ...constants.ActorRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				common.RespondError(w, time.Now(), errors.New("Unauthorized"), "", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if claims.Role() == role.String() {
					next.ServeHTTP(w, r)
					return
				}
			}
			common.RespondError(w, time.Now(), errors.New("Forbidden. Need "+rolesLabel(roles)+" role"), "", http.StatusForbidden)
		})
	}
}

// RequirePermission lets the request through when the caller's role grants perm
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				common.RespondError(w, time.Now(), errors.New("Unauthorized"), "", http.StatusUnauthorized)
				return
			}
			if !claims.HasPermission(perm) {
				common.RespondError(w, time.Now(), errors.New("Forbidden. Missing permission "+perm), "", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rolesLabel(roles []constants.ActorRole) string {
	label := ""
	for i, role := range roles {
		if i > 0 {
			label += " or "
		}
		label += role.String()
	}
	return label
}
