package util

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// GenerateSecureToken generates a cryptographically random hex token
// (used for password reset links)
func GenerateSecureToken(byteLen int) (string, error) {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GenerateTempPassword generates a random temporary password for
// owner-portal credentials. 紛らわしい文字 (l/1/O/0) は除外する
func GenerateTempPassword(length int) (string, error) {
	const chars = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		password[i] = chars[n.Int64()]
	}
	return string(password), nil
}
