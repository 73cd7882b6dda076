package auth

import (
	"context"
	"errors"

	"github.com/LiquidN2/natours/store"
)

// ConfirmEmail consumes an email-confirmation token. Confirmation tokens do
// not expire but are single-use: the stored hash is cleared in the same
// update that flips the confirmed flag.
func (e *Engine) ConfirmEmail(ctx context.Context, plainToken string) (*store.User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if plainToken == "" {
		return nil, ErrInvalidToken
	}

	user, err := e.users.FindByConfirmTokenHash(ctx, hashOneTimeToken(plainToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	confirmed := true
	clearToken := ""
	return e.users.UpdateByID(ctx, user.ID, store.Update{
		EmailConfirmed:    &confirmed,
		EmailConfirmToken: &clearToken,
	})
}
