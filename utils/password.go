package utils

import (
	"github.com/matthewhartstonge/argon2"
)

func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// VerifyPassword reports whether password matches the encoded argon2 hash.
// A malformed hash never matches.
func VerifyPassword(encodedHash, password string) bool {
	if encodedHash == "" {
		return false
	}
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false
	}
	return ok
}
