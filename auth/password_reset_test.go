package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPasswordResetFlow(t *testing.T) {
	e, users, mailer := newTestEngine(t)
	advance := setClock(e, time.Now().Add(-time.Minute))
	signed := mustSignup(t, e, "lily@example.com")
	ctx := context.Background()

	if err := e.RequestPasswordReset(ctx, "lily@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if !strings.HasPrefix(mailer.resetURL, "https://natours.test/reset-password/") {
		t.Fatalf("reset url = %q", mailer.resetURL)
	}
	plain := tokenFromURL(t, mailer.resetURL)

	stored, err := users.FindByID(ctx, signed.User.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.PasswordResetToken == "" || stored.PasswordResetExpires == nil {
		t.Fatal("reset state not persisted")
	}
	if stored.PasswordResetToken == plain {
		t.Fatal("plaintext token stored")
	}

	advance(time.Minute)
	res, err := e.ResetPassword(ctx, plain, "battery-staple", "battery-staple")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if res.Token == "" {
		t.Fatal("no token issued after reset")
	}

	// The reset state is gone and the token cannot be replayed.
	stored, _ = users.FindByID(ctx, signed.User.ID)
	if stored.PasswordResetToken != "" || stored.PasswordResetExpires != nil {
		t.Fatal("reset state survived consumption")
	}
	if _, err := e.ResetPassword(ctx, plain, "another-pass-123", "another-pass-123"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("replayed token: %v", err)
	}

	// And the pre-reset token is dead.
	if _, err := e.Authenticate(ctx, signed.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("pre-reset token: %v", err)
	}
	if _, err := e.Login(ctx, "lily@example.com", "battery-staple", false); err != nil {
		t.Fatalf("new password: %v", err)
	}
}

func TestPasswordResetTokenExpires(t *testing.T) {
	e, _, mailer := newTestEngine(t)
	advance := setClock(e, time.Now())
	mustSignup(t, e, "lily@example.com")
	ctx := context.Background()

	if err := e.RequestPasswordReset(ctx, "lily@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	plain := tokenFromURL(t, mailer.resetURL)

	advance(11 * time.Minute)
	if _, err := e.ResetPassword(ctx, plain, "battery-staple", "battery-staple"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("expired token: %v", err)
	}
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	e, _, mailer := newTestEngine(t)

	if err := e.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unknown email: %v", err)
	}
	if mailer.resetURL != "" {
		t.Fatal("no mail should be sent for an unknown email")
	}
}

func TestPasswordResetRollsBackOnMailFailure(t *testing.T) {
	e, users, mailer := newTestEngine(t)
	signed := mustSignup(t, e, "lily@example.com")
	mailer.failReset = true
	ctx := context.Background()

	err := e.RequestPasswordReset(ctx, "lily@example.com")
	if !errors.Is(err, ErrNotificationFailed) {
		t.Fatalf("err = %v, want ErrNotificationFailed", err)
	}
	stored, _ := users.FindByID(ctx, signed.User.ID)
	if stored.PasswordResetToken != "" || stored.PasswordResetExpires != nil {
		t.Fatal("undelivered token left live")
	}
}

func TestPasswordResetBadToken(t *testing.T) {
	e, _, _ := newTestEngine(t)
	mustSignup(t, e, "lily@example.com")
	ctx := context.Background()

	if _, err := e.ResetPassword(ctx, "", "battery-staple", "battery-staple"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("empty token: %v", err)
	}
	if _, err := e.ResetPassword(ctx, "deadbeef", "battery-staple", "battery-staple"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("unknown token: %v", err)
	}
	// Policy runs before the lookup so a weak password cannot be probed in.
	if _, err := e.ResetPassword(ctx, "deadbeef", "short", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("weak password: %v", err)
	}
}
