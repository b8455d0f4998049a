package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPIN returns the bcrypt hash stored for a cashier PIN.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	return string(hash), err
}

// PINMatches reports whether pin hashes to hash. An empty hash never matches.
func PINMatches(pin, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
