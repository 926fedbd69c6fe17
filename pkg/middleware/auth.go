package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/logger"
	"github.com/shashiranjanraj/pizzeria/pkg/response"
)

const bearerPrefix = "Bearer "

// Authenticate is the token gate for protected routes. A valid bearer
// token puts the caller's auth.Identity into the request context for this
// request only; anything else is answered with 401 through the shared
// error body.
func Authenticate(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				response.Error(w, r, apperror.Unauthorized("Full authentication is required to access this resource"))
				return
			}

			id, err := tokens.Validate(strings.TrimSpace(header[len(bearerPrefix):]))
			if err != nil {
				response.Error(w, r, apperror.Unauthorized("%s", err.Error()).Wrap(err))
				return
			}

			ctx := auth.WithIdentity(r.Context(), id)
			ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("username", id.Username))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
