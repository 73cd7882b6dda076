package auth

import (
	"context"

	"github.com/LiquidN2/natours/store"
)

// Authenticate resolves a bearer token string to its principal. Signature
// mismatch, expiry, a missing or soft-deleted principal, and a token issued
// before the principal's last password change all collapse into
// [ErrUnauthenticated] — the distinction is an oracle an attacker must not
// get.
func (e *Engine) Authenticate(ctx context.Context, tokenStr string) (*store.User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if tokenStr == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := e.tokens.Validate(tokenStr)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := e.users.FindByID(ctx, claims.PrincipalID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	if user.PasswordChangedAfter(claims.IssuedAt) {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// RequireRole is the authorization predicate: a pure membership test over
// an already resolved principal. Run it only after Authenticate.
func RequireRole(user *store.User, allowed ...store.Role) error {
	if user == nil {
		return ErrUnauthenticated
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
