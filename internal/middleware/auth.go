package middleware

import (
	"net/http"
	"strings"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/user"
)

// AuthMiddleware resolves the bearer token into an Actor. Requests without
// a valid token pass through anonymous; handlers that need an actor reject
// them at the service boundary.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		actor := auth.Actor{
			UserID:  claims.UserID,
			Email:   claims.Email,
			Role:    auth.Role(claims.Role),
			StoreID: claims.StoreID,
		}
		next.ServeHTTP(w, r.WithContext(auth.SetActorContext(r.Context(), actor)))
	})
}

// RequireAuth rejects anonymous requests before they reach the handler.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.ActorFromContext(r.Context()); !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
