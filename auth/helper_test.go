package auth

import (
	"context"
	"encoding/base32"
	"errors"
	"testing"
	"time"

	"github.com/LiquidN2/natours/mail"
	"github.com/LiquidN2/natours/store"
	"github.com/LiquidN2/natours/store/memory"
)

func testConfig() Config {
	return Config{
		Token: TokenConfig{
			Secret:   []byte("0123456789abcdef0123456789abcdef"),
			Lifetime: time.Hour,
			Issuer:   "natours-test",
			Leeway:   time.Second,
		},
		Password: PasswordConfig{
			Cost:      10,
			MinLength: 8,
		},
		TOTP: TOTPConfig{
			Issuer:    "Natours",
			Digits:    6,
			Period:    30,
			Skew:      1,
			Algorithm: "SHA1",
		},
		Reset: ResetConfig{
			TokenTTL: 10 * time.Minute,
		},
		PublicURL: "https://natours.test",
	}
}

// captureMailer records delivered links and can be told to fail.
type captureMailer struct {
	welcomeURL string
	resetURL   string

	failWelcome bool
	failReset   bool
}

func (m *captureMailer) SendWelcome(_ context.Context, _ *store.User, confirmURL string) error {
	if m.failWelcome {
		return errors.New("smtp unavailable")
	}
	m.welcomeURL = confirmURL
	return nil
}

func (m *captureMailer) SendPasswordReset(_ context.Context, _ *store.User, resetURL string) error {
	if m.failReset {
		return errors.New("smtp unavailable")
	}
	m.resetURL = resetURL
	return nil
}

var _ mail.Mailer = (*captureMailer)(nil)

func newTestEngine(t *testing.T) (*Engine, *memory.Store, *captureMailer) {
	t.Helper()
	users := memory.New()
	mailer := &captureMailer{}
	engine, err := New().
		WithConfig(testConfig()).
		WithStore(users).
		WithMailer(mailer).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	return engine, users, mailer
}

// setClock pins the engine clock. Returns a function that shifts it.
func setClock(e *Engine, at time.Time) func(d time.Duration) {
	current := at
	e.now = func() time.Time { return current }
	return func(d time.Duration) { current = current.Add(d) }
}

func mustSignup(t *testing.T, e *Engine, email string) *SignupResult {
	t.Helper()
	res, err := e.Signup(context.Background(), SignupRequest{
		Name:            "Lily Tran",
		Email:           email,
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return res
}

func newTestEngineStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.New()
}

// totpCodeAt computes the code an authenticator app would show for the
// window containing at.
func totpCodeAt(t *testing.T, secretBase32 string, at time.Time) string {
	t.Helper()
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	secret, err := enc.DecodeString(secretBase32)
	if err != nil {
		t.Fatalf("decode secret: %v", err)
	}
	code, err := hotpCode(secret, at.Unix()/30, 6, "SHA1")
	if err != nil {
		t.Fatalf("hotp: %v", err)
	}
	return code
}

// tokenFromURL pulls the one-time token off a mailed link.
func tokenFromURL(t *testing.T, url string) string {
	t.Helper()
	i := -1
	for j := len(url) - 1; j >= 0; j-- {
		if url[j] == '/' {
			i = j
			break
		}
	}
	if i < 0 || i == len(url)-1 {
		t.Fatalf("no token in url %q", url)
	}
	return url[i+1:]
}
