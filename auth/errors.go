package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers malformed or missing input. Wrapped with field
	// detail at the call site; the detail is safe to show to callers.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidCredentials is the single answer for unknown email and
	// wrong password alike. The two cases must stay indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrMissingCredentials means the second-factor step received neither
	// an email nor a code to verify.
	ErrMissingCredentials = errors.New("missing login credentials")

	// ErrInvalidOrExpiredToken is returned for a reset token that does not
	// match any stored hash or whose window has elapsed.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrInvalidToken is returned for an email-confirmation token with no
	// matching record.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthenticated is the session gate's only failure answer.
	// Signature mismatch, expiry, a vanished principal, and a stale
	// issued-at all collapse into it.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden means the resolved principal's role is not in the
	// permitted set.
	ErrForbidden = errors.New("permission denied")

	// ErrEmailTaken is signup's duplicate-email answer. Deliberately not
	// genericized; see DESIGN.md.
	ErrEmailTaken = errors.New("email already registered")

	// ErrTooManyAttempts means the attempt budget for the window is spent.
	ErrTooManyAttempts = errors.New("too many attempts, try again later")

	// ErrNotificationFailed means a reset mail could not be sent; the
	// stored token state has already been rolled back.
	ErrNotificationFailed = errors.New("could not send email, try again later")

	// ErrEngineNotReady guards calls on a nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// errValidationf wraps ErrValidation with caller-safe field detail.
func errValidationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
