package password

import (
	"strings"
	"testing"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(Config{Cost: 10})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return h
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal plaintext")
	}
	if !h.Verify("secret123", hash) {
		t.Fatal("expected hash to verify")
	}
	if h.Verify("wrong-password", hash) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyMalformedHashReturnsFalse(t *testing.T) {
	h := newTestHasher(t)

	for _, malformed := range []string{"", "not-a-hash", "$2a$garbage"} {
		if h.Verify("secret123", malformed) {
			t.Fatalf("expected malformed hash %q to fail verification", malformed)
		}
	}
}

func TestHashRejectsOversizedPassword(t *testing.T) {
	h := newTestHasher(t)

	if _, err := h.Hash(strings.Repeat("a", 73)); err == nil {
		t.Fatal("expected error for password over 72 bytes")
	}
}

func TestNewHasherRejectsLowCost(t *testing.T) {
	if _, err := NewHasher(Config{Cost: 4}); err == nil {
		t.Fatal("expected error for cost below minimum")
	}
}
