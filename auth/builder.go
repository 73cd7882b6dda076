package auth

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LiquidN2/natours/internal/rate"
	"github.com/LiquidN2/natours/mail"
	"github.com/LiquidN2/natours/password"
	"github.com/LiquidN2/natours/store"
	"github.com/LiquidN2/natours/token"
)

// Builder assembles an [Engine]. Construction is allocation-only until
// Build, which validates configuration and fails closed: an engine that
// cannot sign tokens is never returned.
type Builder struct {
	config Config
	users  store.UserStore
	mailer mail.Mailer
	redis  redis.UniversalClient

	built bool
}

// New returns a Builder seeded with default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore sets the user record store. Required.
func (b *Builder) WithStore(users store.UserStore) *Builder {
	b.users = users
	return b
}

// WithMailer sets the outbound mailer. Defaults to [mail.NoOp].
func (b *Builder) WithMailer(m mail.Mailer) *Builder {
	b.mailer = m
	return b
}

// WithRedis enables attempt throttling backed by the given client. Without
// a client the engine runs with throttling disabled.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// Build validates the configuration and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.users == nil {
		return nil, errors.New("user store required")
	}

	hasher, err := password.NewHasher(password.Config{Cost: cfg.Password.Cost})
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		Secret:   cfg.Token.Secret,
		Lifetime: cfg.Token.Lifetime,
		Issuer:   cfg.Token.Issuer,
		Leeway:   cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	// Paid once here so unknown-email logins can burn the same hashing
	// cost as real verification failures.
	dummyHash, err := hasher.Hash("natours-timing-equalizer")
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:    cfg,
		users:     b.users,
		mailer:    b.mailer,
		hasher:    hasher,
		tokens:    tokens,
		totp:      newTOTPManager(cfg.TOTP),
		dummyHash: dummyHash,
		now:       time.Now,
	}
	if engine.mailer == nil {
		engine.mailer = mail.NoOp{}
	}
	if b.redis != nil && cfg.Security.MaxLoginAttempts > 0 {
		engine.limiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle: cfg.Security.EnableIPThrottle,
			MaxLoginAttempts: cfg.Security.MaxLoginAttempts,
			LoginCooldown:    cfg.Security.LoginCooldown,
			MaxResetRequests: cfg.Security.MaxResetRequests,
			ResetCooldown:    cfg.Security.ResetCooldown,
		})
	}

	b.built = true
	return engine, nil
}
