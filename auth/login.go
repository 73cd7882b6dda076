package auth

import (
	"context"
	"errors"

	"github.com/LiquidN2/natours/internal/rate"
	"github.com/LiquidN2/natours/store"
)

// Login verifies an email/password pair. With the second factor disabled it
// issues a bearer token directly; with it enabled it returns a
// TwoFactorRequired result carrying no token — the credential does not
// exist until the TOTP step succeeds.
//
// Unknown email and wrong password produce the same [ErrInvalidCredentials],
// and the unknown-email path still burns a hash verification so the two
// cases cost the same.
func (e *Engine) Login(ctx context.Context, email, pw string, remember bool) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if email == "" || pw == "" {
		return nil, errValidationf("please provide both email and password")
	}

	email = store.NormalizeEmail(email)
	ip := clientIPFromContext(ctx)

	if err := e.checkLoginBudget(ctx, email, ip); err != nil {
		return nil, err
	}

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.hasher.Verify(pw, e.dummyHash)
			return nil, e.failLogin(ctx, email, ip)
		}
		return nil, err
	}

	if !e.hasher.Verify(pw, user.PasswordHash) {
		return nil, e.failLogin(ctx, email, ip)
	}

	if user.TwoFactorEnabled {
		return &LoginResult{
			TwoFactorRequired: true,
			Email:             user.Email,
			Remember:          remember,
		}, nil
	}

	e.clearLoginBudget(ctx, email, ip)

	tok, err := e.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, Remember: remember, User: user}, nil
}

// LoginWithTOTP completes a pending two-factor login. The email comes from
// the pending-2FA cookie or the request body; both absent is
// [ErrMissingCredentials]. Verification failure and unknown principal are
// the same [ErrInvalidCredentials].
func (e *Engine) LoginWithTOTP(ctx context.Context, email, code string, remember bool) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if email == "" || code == "" {
		return nil, ErrMissingCredentials
	}

	email = store.NormalizeEmail(email)
	ip := clientIPFromContext(ctx)

	if err := e.checkLoginBudget(ctx, email, ip); err != nil {
		return nil, err
	}

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, e.failLogin(ctx, email, ip)
		}
		return nil, err
	}

	if !user.TwoFactorEnabled || !e.totp.Verify(user.TwoFactorSecret, code, e.now()) {
		return nil, e.failLogin(ctx, email, ip)
	}

	e.clearLoginBudget(ctx, email, ip)

	tok, err := e.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, Remember: remember, User: user}, nil
}

func (e *Engine) checkLoginBudget(ctx context.Context, email, ip string) error {
	if e.limiter == nil {
		return nil
	}
	if err := e.limiter.CheckLogin(ctx, email, ip); err != nil {
		if errors.Is(err, rate.ErrLimited) {
			return ErrTooManyAttempts
		}
		return err
	}
	return nil
}

// failLogin records the failure against the attempt budget and returns the
// caller-facing error, which is ErrTooManyAttempts when this failure spends
// the last of the budget.
func (e *Engine) failLogin(ctx context.Context, email, ip string) error {
	if e.limiter != nil {
		if err := e.limiter.RecordLoginFailure(ctx, email, ip); errors.Is(err, rate.ErrLimited) {
			return ErrTooManyAttempts
		}
	}
	return ErrInvalidCredentials
}

func (e *Engine) clearLoginBudget(ctx context.Context, email, ip string) {
	if e.limiter != nil {
		_ = e.limiter.ResetLogin(ctx, email, ip)
	}
}
