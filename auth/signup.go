package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/LiquidN2/natours/store"
)

// Signup registers a new principal, issues a bearer token, and triggers the
// welcome mail carrying the email-confirmation link. A mail delivery
// failure does not fail signup; the account simply stays unconfirmed until
// the link is re-requested through support channels.
//
// Duplicate emails surface as [ErrEmailTaken]. That message is not
// genericized; see DESIGN.md for the enumeration trade-off.
func (e *Engine) Signup(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, errValidationf("please provide your name")
	}
	email := store.NormalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errValidationf("please provide a valid email")
	}
	if err := e.validateNewPassword(req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}

	passwordHash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	confirmPlain, confirmHash, err := newOneTimeToken()
	if err != nil {
		return nil, err
	}

	user := &store.User{
		Name:              strings.TrimSpace(req.Name),
		Email:             email,
		Photo:             "default.jpg",
		Role:              store.RoleUser,
		PasswordHash:      passwordHash,
		EmailConfirmToken: confirmHash,
		Active:            true,
	}
	if err := e.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// Fire-and-forget: the confirmation link can be resent later, the
	// account must not be lost to a mail outage.
	confirmURL := e.config.PublicURL + "/email-confirm/" + confirmPlain
	_ = e.mailer.SendWelcome(ctx, user, confirmURL)

	tok, err := e.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &SignupResult{User: user, Token: tok}, nil
}
