package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/pkg/problem"
)

type ctxKey struct{}

// Authenticator resolves a bearer token to the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (core.Principal, error)
}

// RequireAuth validates the Bearer token and stores the principal in the
// request context.
func RequireAuth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				problem.Write(w, http.StatusUnauthorized, "Unauthorized", "Missing or invalid Authorization header")
				return
			}

			p, err := a.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				switch {
				case errors.Is(err, core.ErrForbidden):
					problem.Write(w, http.StatusForbidden, "Forbidden", "Account is not approved")
				case errors.Is(err, core.ErrUnauthorized):
					problem.Write(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
				default:
					problem.Write(w, http.StatusInternalServerError, "Internal Server Error", "Authentication failed")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRoles lets the request through only when the principal holds one
// of the given roles. It must run after RequireAuth.
func RequireRoles(roles ...core.Role) func(http.Handler) http.Handler {
	allowed := make(map[core.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				problem.Write(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				problem.Write(w, http.StatusForbidden, "Forbidden", "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithPrincipal(ctx context.Context, p core.Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func PrincipalFrom(ctx context.Context) (core.Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(core.Principal)
	return p, ok
}
