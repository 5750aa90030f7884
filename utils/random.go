package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

// RandomDigits returns n decimal digits from crypto/rand.
func RandomDigits(n int) (string, error) {
	var b strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

// RandomToken returns 2*n hex characters.
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// NewReference builds identifiers such as ORD-9F86D081884C7D65.
func NewReference(prefix string) (string, error) {
	token, err := RandomToken(8)
	if err != nil {
		return "", err
	}
	return prefix + "-" + strings.ToUpper(token), nil
}
