package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewToken returns 256 bits of hex-encoded randomness. Used for magic link
// tokens and session IDs; uniqueness is additionally enforced by unique
// constraints at the store.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
