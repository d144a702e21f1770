package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/clog"
)

type contextKey struct{}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok && userID != ""
}

// Middleware verifies the bearer token and stores the caller's user ID on the
// request context. Paths accepted by skip pass through unauthenticated.
func Middleware(issuer *TokenIssuer, skip func(r *http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip != nil && skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "missing bearer token", nil)
				return
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				cerr.SetJSONError(r.Context(), err)
				return
			}

			ctx := ContextWithUserID(r.Context(), claims.UserID)
			clog.AddAttribute(ctx, "user_id", claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
