// Package token creates and verifies the signed bearer tokens that carry a
// principal identifier between requests. Tokens are self-contained; the
// server keeps no session table.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningKeyMisconfigured means the codec cannot safely sign tokens.
	// It is fatal: construction fails rather than issuing weak tokens.
	ErrSigningKeyMisconfigured = errors.New("token signing key misconfigured")
	// ErrInvalid covers malformed tokens and signature mismatches.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired means the token verified but its lifetime has elapsed.
	// Callers must not expose the distinction to unauthenticated clients.
	ErrExpired = errors.New("token expired")
)

const minSecretBytes = 32

// Config holds the signing secret and token lifetime.
type Config struct {
	Secret   []byte
	Lifetime time.Duration
	Issuer   string
	Leeway   time.Duration
}

// Claims is the decoded payload of a valid bearer token.
type Claims struct {
	PrincipalID string
	IssuedAt    time.Time
}

// Manager signs and verifies bearer tokens with HS256.
type Manager struct {
	config Config
}

type bearerClaims struct {
	jwt.RegisteredClaims
}

// NewManager validates cfg and returns a Manager. A missing or short secret
// is ErrSigningKeyMisconfigured.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < minSecretBytes {
		return nil, ErrSigningKeyMisconfigured
	}
	if cfg.Lifetime <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Manager{config: cfg}, nil
}

// Issue signs a token for principalID with the given issue instant. The
// instant is truncated to second precision, same as the wire format.
func (m *Manager) Issue(principalID string, issuedAt time.Time) (string, error) {
	if principalID == "" {
		return "", errors.New("principal id required")
	}

	claims := bearerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.config.Lifetime)),
			Issuer:    m.config.Issuer,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.config.Secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate parses and verifies a token string. Expired tokens return
// ErrExpired; everything else that fails returns ErrInvalid.
func (m *Manager) Validate(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &bearerClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*bearerClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, ErrInvalid
	}

	return &Claims{
		PrincipalID: claims.Subject,
		IssuedAt:    claims.IssuedAt.Time,
	}, nil
}
