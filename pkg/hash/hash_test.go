package hash

import (
	"encoding/hex"
	"testing"
)

func TestNewSalt(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt() error: %v", err)
	}

	// 32 random bytes, hex encoded
	if len(salt) != 64 {
		t.Errorf("salt length = %d, want 64", len(salt))
	}
	if _, err := hex.DecodeString(salt); err != nil {
		t.Errorf("salt is not valid hex: %v", err)
	}

	other, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt() error: %v", err)
	}
	if salt == other {
		t.Error("two salts should not collide")
	}
}

func TestPassword_Deterministic(t *testing.T) {
	salt := "aabbccdd"

	first := Password("secret1", salt)
	second := Password("secret1", salt)
	if first != second {
		t.Error("same password and salt should produce the same hash")
	}

	// 64-byte derived key, hex encoded
	if len(first) != 128 {
		t.Errorf("hash length = %d, want 128", len(first))
	}
}

func TestPassword_SaltMatters(t *testing.T) {
	if Password("secret1", "salt-a") == Password("secret1", "salt-b") {
		t.Error("different salts should produce different hashes")
	}
	if Password("secret1", "salt-a") == Password("secret2", "salt-a") {
		t.Error("different passwords should produce different hashes")
	}
}

func TestVerifyPassword(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt() error: %v", err)
	}
	stored := Password("secret1", salt)

	if !VerifyPassword("secret1", salt, stored) {
		t.Error("correct password should verify")
	}
	if VerifyPassword("wrongpass", salt, stored) {
		t.Error("wrong password should not verify")
	}
	if VerifyPassword("secret1", "other-salt", stored) {
		t.Error("wrong salt should not verify")
	}
}
