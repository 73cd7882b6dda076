package auth

import (
	"errors"
	"strings"
	"time"
)

// Config is the engine configuration, passed in at construction. No part of
// the engine reads ambient globals.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	TOTP     TOTPConfig
	Reset    ResetConfig
	Security SecurityConfig

	// PublicURL is the externally reachable base URL used to build the
	// confirmation and reset links embedded in outbound mail.
	PublicURL string
}

// TokenConfig configures the bearer-token codec.
type TokenConfig struct {
	// Secret signs every issued token. Missing or short secrets fail
	// Build; the engine never issues unsigned or weakly signed tokens.
	Secret   []byte
	Lifetime time.Duration
	Issuer   string
	Leeway   time.Duration
}

// PasswordConfig configures the bcrypt hasher.
type PasswordConfig struct {
	Cost int
	// MinLength applies to new passwords at signup, change, and reset.
	MinLength int
}

// TOTPConfig configures the second-factor engine.
type TOTPConfig struct {
	Issuer    string
	Digits    int
	Period    int
	Skew      int
	Algorithm string
}

// ResetConfig configures one-time token lifetimes.
type ResetConfig struct {
	// TokenTTL bounds how long a password-reset token stays usable.
	TokenTTL time.Duration
}

// SecurityConfig configures attempt throttling. It only takes effect when a
// Redis client is supplied to the Builder.
type SecurityConfig struct {
	EnableIPThrottle bool
	MaxLoginAttempts int
	LoginCooldown    time.Duration
	MaxResetRequests int
	ResetCooldown    time.Duration
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			Lifetime: 90 * 24 * time.Hour,
			Issuer:   "natours",
			Leeway:   30 * time.Second,
		},
		Password: PasswordConfig{
			Cost:      12,
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
		Security: SecurityConfig{
			EnableIPThrottle: true,
			MaxLoginAttempts: 10,
			LoginCooldown:    15 * time.Minute,
			MaxResetRequests: 3,
			ResetCooldown:    time.Hour,
		},
		PublicURL: "http://localhost:8080",
	}
}

// Validate checks cross-field consistency. Called by Build.
func (c Config) Validate() error {
	if c.Token.Lifetime <= 0 {
		return errors.New("token lifetime must be positive")
	}
	if c.Password.MinLength < 8 {
		return errors.New("password minimum length must be >= 8")
	}
	if c.Reset.TokenTTL <= 0 {
		return errors.New("reset token ttl must be positive")
	}
	if c.TOTP.Digits < 6 || c.TOTP.Digits > 8 {
		return errors.New("totp digits must be between 6 and 8")
	}
	if c.TOTP.Period <= 0 {
		return errors.New("totp period must be positive")
	}
	if c.TOTP.Skew < 0 || c.TOTP.Skew > 2 {
		return errors.New("totp skew must be between 0 and 2")
	}
	switch strings.ToUpper(c.TOTP.Algorithm) {
	case "", "SHA1", "SHA256", "SHA512":
	default:
		return errors.New("unsupported totp algorithm")
	}
	if c.Security.MaxLoginAttempts < 0 || c.Security.MaxResetRequests < 0 {
		return errors.New("attempt budgets must not be negative")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = append([]byte(nil), cfg.Token.Secret...)
	return out
}
