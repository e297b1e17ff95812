package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"airport-ops/tarmac/internal/auth"
	"airport-ops/tarmac/internal/common"
)

// AuthMiddleware accepts a bearer JWT signed with secret and stores its claims
// on the request context
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, initTime, errors.New("Unauthorized. Missing bearer token"), "", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(secret, strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				common.RespondError(w, initTime, errors.New("Unauthorized. Invalid token"), "", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
