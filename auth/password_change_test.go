package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestChangePassword(t *testing.T) {
	e, _, _ := newTestEngine(t)
	// Issue the first token nominally in the past so the one-second
	// granularity of the changed-at stamp cannot mask the invalidation.
	advance := setClock(e, time.Now().Add(-time.Minute))
	signed := mustSignup(t, e, "lily@example.com")
	oldToken := signed.Token

	advance(time.Minute)
	res, err := e.ChangePassword(context.Background(), signed.User.ID, "correct-horse", "battery-staple", "battery-staple")
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if res.Token == "" || res.Token == oldToken {
		t.Fatal("expected a fresh token")
	}

	// Tokens issued before the change are dead.
	if _, err := e.Authenticate(context.Background(), oldToken); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("pre-change token: %v", err)
	}
	if _, err := e.Authenticate(context.Background(), res.Token); err != nil {
		t.Fatalf("fresh token: %v", err)
	}

	// Old password no longer verifies; the new one does.
	if _, err := e.Login(context.Background(), "lily@example.com", "correct-horse", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password: %v", err)
	}
	if _, err := e.Login(context.Background(), "lily@example.com", "battery-staple", false); err != nil {
		t.Fatalf("new password: %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	e, _, _ := newTestEngine(t)
	signed := mustSignup(t, e, "lily@example.com")

	_, err := e.ChangePassword(context.Background(), signed.User.ID, "not-my-password", "battery-staple", "battery-staple")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePasswordPolicy(t *testing.T) {
	e, _, _ := newTestEngine(t)
	signed := mustSignup(t, e, "lily@example.com")

	if _, err := e.ChangePassword(context.Background(), signed.User.ID, "correct-horse", "short", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password: %v", err)
	}
	if _, err := e.ChangePassword(context.Background(), signed.User.ID, "correct-horse", "battery-staple", "different-pass"); !errors.Is(err, ErrValidation) {
		t.Fatalf("mismatched confirm: %v", err)
	}
}
