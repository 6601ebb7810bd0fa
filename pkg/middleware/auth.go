package middleware

import (
	"net/http"

	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/logger"
	"github.com/shopfront/storefront/pkg/response"
)

// Auth resolves the bearer token through resolver and stores the Identity in
// the request context. Missing, invalid and revoked tokens get a 401.
func Auth(resolver auth.Resolver) func(http.Handler) http.Handler {
	return authenticate(resolver, false)
}

// AuthQuery is Auth that also accepts ?access_token= for clients that cannot
// set headers, such as browser WebSocket handshakes.
func AuthQuery(resolver auth.Resolver) func(http.Handler) http.Handler {
	return authenticate(resolver, true)
}

func authenticate(resolver auth.Resolver, allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.BearerToken(r)
			if token == "" && allowQuery {
				token = r.URL.Query().Get("access_token")
			}
			if token == "" {
				response.Unauthorized(w)
				return
			}

			id, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("bearer token rejected", "error", err)
				response.Unauthorized(w)
				return
			}

			ctx := auth.WithIdentity(r.Context(), id)
			ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("user_id", id.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
