package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const oneTimeTokenBytes = 32

// newOneTimeToken returns a fresh single-use token in both forms: the plain
// hex string handed to the caller exactly once, and the digest that is the
// only thing ever persisted. Read access to the record store is useless for
// forging a link.
func newOneTimeToken() (plain, hashed string, err error) {
	raw := make([]byte, oneTimeTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate one-time token: %w", err)
	}
	plain = hex.EncodeToString(raw)
	return plain, hashOneTimeToken(plain), nil
}

// hashOneTimeToken is the lookup-side digest of a presented token.
func hashOneTimeToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
