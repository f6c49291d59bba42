package chi

import (
	"context"
	"net/http"
	"strings"
)

// exemptPaths are routes that bypass authentication.
var exemptPaths = map[string]struct{}{
	"/health":        {},
	"/metrics":       {},
	"/auth/login":    {},
	"/auth/register": {},
}

// TokenResolver maps a bearer token to a user ID.
type TokenResolver interface {
	UserByToken(token string) (string, bool)
}

type userKey struct{}

// userIDFrom returns the authenticated user ID set by BearerAuthMiddleware.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

// BearerAuthMiddleware returns a middleware that resolves Bearer tokens to
// users and stores the user ID in the request context.
func BearerAuthMiddleware(tokens TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, "Authorization header must use Bearer scheme")
				return
			}

			userID, ok := tokens.UserByToken(auth[len(bearerPrefix):])
			if !ok {
				writeError(w, http.StatusUnauthorized, "Token is not valid")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, userID)))
		})
	}
}
