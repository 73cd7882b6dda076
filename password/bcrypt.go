// Package password provides one-way password hashing with per-call salts.
//
// The cost factor is fixed at construction and deliberately slow; Verify
// treats any malformed stored hash as a mismatch rather than a fault.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	minCost = 10
	// bcrypt ignores input beyond 72 bytes; longer passwords are rejected
	// outright instead of silently truncated.
	maxPasswordBytes = 72
)

// Config holds hashing parameters.
type Config struct {
	Cost int
}

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	config Config
}

// NewHasher validates cfg and returns a Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	if cfg.Cost < minCost {
		return nil, errors.New("password cost must be >= 10")
	}
	if cfg.Cost > bcrypt.MaxCost {
		return nil, errors.New("password cost exceeds bcrypt maximum")
	}
	return &Hasher{config: cfg}, nil
}

// Hash returns a salted hash of password. Two calls with the same input
// produce different strings.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password must not be empty")
	}
	if len(password) > maxPasswordBytes {
		return "", errors.New("password must be at most 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.config.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches encodedHash. Malformed hashes
// verify as false; no error escapes.
func (h *Hasher) Verify(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}
