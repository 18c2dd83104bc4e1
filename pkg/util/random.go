// Package util holds small helpers shared by packages that have nothing else
// in common
package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"

	idLength = 16
)

// RandStr returns n random letters. Safe for concurrent use.
func RandStr(n int) string {
	return gonanoid.MustGenerate(letters, n)
}

// NewID returns the id given to accounts and documents
func NewID() (string, error) {
	return gonanoid.Generate(letters+digits, idLength)
}

// GenerateToken returns n bytes from crypto/rand as a hex string of 2n
// characters. Used for links sent by e-mail.
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes, %w", err)
	}

	return hex.EncodeToString(b), nil
}
