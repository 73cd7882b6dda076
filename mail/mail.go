// Package mail defines the outbound-notification contract the auth engine
// depends on, plus SMTP and no-op implementations. Delivery failures are
// transient from the engine's point of view; nothing here retries.
package mail

import (
	"context"

	"github.com/LiquidN2/natours/store"
)

// Mailer sends account-lifecycle notifications. Implementations may block;
// they must honor ctx cancellation.
type Mailer interface {
	// SendWelcome delivers the signup welcome message with the email
	// confirmation link.
	SendWelcome(ctx context.Context, user *store.User, confirmURL string) error
	// SendPasswordReset delivers the reset link. The link embeds the only
	// plaintext copy of the reset token.
	SendPasswordReset(ctx context.Context, user *store.User, resetURL string) error
}

// NoOp discards all messages. Used in tests and local development.
type NoOp struct{}

func (NoOp) SendWelcome(context.Context, *store.User, string) error       { return nil }
func (NoOp) SendPasswordReset(context.Context, *store.User, string) error { return nil }
