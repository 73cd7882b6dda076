package auth

import (
	"context"
	"errors"

	"github.com/LiquidN2/natours/internal/rate"
	"github.com/LiquidN2/natours/store"
)

// RequestPasswordReset starts the reset flow. The outcome is success-shaped
// whether or not the email is registered: an unknown email silently skips
// token generation and mail delivery, so the response reveals nothing.
//
// When the mail cannot be sent, the stored token state is rolled back and
// [ErrNotificationFailed] is returned — the link in a lost mail must not
// stay live.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if email == "" {
		return errValidationf("please provide your email")
	}

	email = store.NormalizeEmail(email)

	if e.limiter != nil {
		if err := e.limiter.CheckResetRequest(ctx, email); err != nil {
			if errors.Is(err, rate.ErrLimited) {
				return ErrTooManyAttempts
			}
			return err
		}
	}

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	plain, hashed, err := newOneTimeToken()
	if err != nil {
		return err
	}

	expires := e.now().Add(e.config.Reset.TokenTTL)
	user.PasswordResetToken = hashed
	user.PasswordResetExpires = &expires
	if err := e.users.Save(ctx, user); err != nil {
		return err
	}

	resetURL := e.config.PublicURL + "/reset-password/" + plain
	if err := e.mailer.SendPasswordReset(ctx, user, resetURL); err != nil {
		// Roll back so the undelivered token cannot be consumed.
		user.PasswordResetToken = ""
		user.PasswordResetExpires = nil
		_ = e.users.Save(ctx, user)
		return ErrNotificationFailed
	}
	return nil
}

// ResetPassword consumes a reset token. The presented plaintext is hashed
// and matched against a stored hash with an unexpired window; anything else
// is [ErrInvalidOrExpiredToken]. The token fields are cleared in the same
// save that installs the new password, so a token is usable exactly once.
func (e *Engine) ResetPassword(ctx context.Context, plainToken, newPassword, newPasswordConfirm string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if plainToken == "" {
		return nil, ErrInvalidOrExpiredToken
	}
	if err := e.validateNewPassword(newPassword, newPasswordConfirm); err != nil {
		return nil, err
	}

	user, err := e.users.FindByResetTokenHash(ctx, hashOneTimeToken(plainToken), e.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
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
