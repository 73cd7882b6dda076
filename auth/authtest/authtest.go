// Package authtest provides engine configuration for tests in other
// packages: a fixed signing secret and the cheapest bcrypt cost so suites
// stay fast. Never use these values outside tests.
package authtest

import (
	"time"

	"github.com/LiquidN2/natours/auth"
)

// Secret is the well-known signing key test engines run with.
var Secret = []byte("0123456789abcdef0123456789abcdef")

// Config returns an engine configuration suitable for tests.
func Config() auth.Config {
	return auth.Config{
		Token: auth.TokenConfig{
			Secret:   Secret,
			Lifetime: time.Hour,
			Issuer:   "natours-test",
			Leeway:   time.Second,
		},
		Password: auth.PasswordConfig{
			Cost:      10,
			MinLength: 8,
		},
		TOTP: auth.TOTPConfig{
			Issuer:    "Natours",
			Digits:    6,
			Period:    30,
			Skew:      1,
			Algorithm: "SHA1",
		},
		Reset: auth.ResetConfig{
			TokenTTL: 10 * time.Minute,
		},
		PublicURL: "http://localhost:8080",
	}
}
