package auth

import (
	"time"

	"github.com/LiquidN2/natours/internal/rate"
	"github.com/LiquidN2/natours/mail"
	"github.com/LiquidN2/natours/password"
	"github.com/LiquidN2/natours/store"
	"github.com/LiquidN2/natours/token"
)

// Engine orchestrates the credential lifecycle. Construct it through
// [Builder.Build]; the zero value is not usable.
type Engine struct {
	config  Config
	users   store.UserStore
	mailer  mail.Mailer
	hasher  *password.Hasher
	tokens  *token.Manager
	totp    *totpManager
	limiter *rate.Limiter

	// dummyHash absorbs a verification for unknown emails so the login
	// failure path costs the same whether or not the account exists.
	dummyHash string

	now func() time.Time
}

func (e *Engine) issueToken(principalID string) (string, error) {
	return e.tokens.Issue(principalID, e.now())
}

// validateNewPassword applies the password policy shared by signup, change,
// and reset.
func (e *Engine) validateNewPassword(pw, confirm string) error {
	if len(pw) < e.config.Password.MinLength {
		return errValidationf("password must be at least %d characters", e.config.Password.MinLength)
	}
	if pw != confirm {
		return errValidationf("confirm password must be the same as password")
	}
	return nil
}

// touchPasswordChangedAt stamps the record one second before now so a token
// issued immediately after the save carries an issued-at strictly later
// than the change.
func (e *Engine) touchPasswordChangedAt(u *store.User) {
	changed := e.now().Add(-time.Second)
	u.PasswordChangedAt = &changed
}
