package auth

import (
	"context"
	"errors"

	"github.com/LiquidN2/natours/store"
)

// ChangePassword rehashes the principal's password after verifying the
// current one. PasswordChangedAt is stamped one second before the save, so
// every token issued before the change fails the session gate while the
// fresh token returned here stays valid.
func (e *Engine) ChangePassword(ctx context.Context, principalID, current, newPassword, newPasswordConfirm string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.users.FindByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if !e.hasher.Verify(current, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if err := e.validateNewPassword(newPassword, newPasswordConfirm); err != nil {
		return nil, err
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	e.touchPasswordChangedAt(user)

	if err := e.users.Save(ctx, user); err != nil {
		return nil, err
	}

	e.clearLoginBudget(ctx, user.Email, clientIPFromContext(ctx))

	tok, err := e.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, Remember: true, User: user}, nil
}
