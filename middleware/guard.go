// Package middleware exposes the HTTP session gate and the role check.
//
// Each guard extracts the bearer token from the Authorization header or the
// jwt cookie, resolves the principal through [auth.Engine.Authenticate],
// and injects it into the request context. Authentication decisions are
// never made here — they are delegated to the engine.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/LiquidN2/natours/auth"
	"github.com/LiquidN2/natours/store"
)

// CookieName is the bearer-token cookie shared with the httpapi layer.
const CookieName = "jwt"

type userContextKey struct{}

// UserFromContext returns the principal resolved by [Protect] or
// [MaybeUser], if any.
func UserFromContext(ctx context.Context) (*store.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*store.User)
	return user, ok
}

// ContextWithUser injects a resolved principal. Exposed for handler tests.
func ContextWithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// Protect rejects requests without a valid, fresh credential. The rejection
// is always 401 with no detail: invalid signature, expiry, a deleted
// principal, and a stale token are indistinguishable to the caller.
func Protect(engine *auth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			user, err := engine.Authenticate(r.Context(), tok)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// MaybeUser resolves the principal when a valid token is present and stays
// silent otherwise. For pages that render differently for anonymous and
// authenticated visitors.
func MaybeUser(engine *auth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok, ok := bearerToken(r); ok {
				if user, err := engine.Authenticate(r.Context(), tok); err == nil {
					r = r.WithContext(ContextWithUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route on role membership. Must run after [Protect];
// an unresolved principal is a 401, a resolved one outside the set a 403.
func RequireRole(roles ...store.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if err := auth.RequireRole(user, roles...); err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken prefers the Authorization header and falls back to the jwt
// cookie, the same order the original client contract uses.
func bearerToken(r *http.Request) (string, bool) {
	const bearer = "Bearer "
	if value := r.Header.Get("Authorization"); strings.HasPrefix(value, bearer) {
		if tok := value[len(bearer):]; tok != "" {
			return tok, true
		}
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
