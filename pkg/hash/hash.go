package hash

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 32
	iterations = 100000
	keyBytes   = 64
)

// NewSalt returns a hex-encoded random salt for password hashing.
func NewSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Password derives a hex-encoded PBKDF2-SHA512 hash of the password
// with the given salt. 100k iterations, 64-byte key.
func Password(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyBytes, sha512.New)
	return hex.EncodeToString(key)
}

// VerifyPassword recomputes the salted hash and compares it in constant time.
func VerifyPassword(password, salt, storedHash string) bool {
	computed := Password(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
