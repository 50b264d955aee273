package auth_test

import (
	"encoding/hex"
	"testing"

	"github.com/tasksafe/backend/internal/auth"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !auth.CheckPassword("secret123", hash) {
		t.Fatal("expected the original password to verify")
	}
	if auth.CheckPassword("secret124", hash) {
		t.Fatal("expected a different password to fail")
	}
	if auth.CheckPassword("", hash) {
		t.Fatal("expected an empty password to fail")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := auth.HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := auth.HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ (salt)")
	}
}

func TestNewToken(t *testing.T) {
	tok, err := auth.NewToken()
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	raw, err := hex.DecodeString(tok)
	if err != nil {
		t.Fatalf("token is not hex: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("expected 32 bytes of entropy, got %d", len(raw))
	}

	other, err := auth.NewToken()
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	if tok == other {
		t.Fatal("two tokens must not collide")
	}
}
