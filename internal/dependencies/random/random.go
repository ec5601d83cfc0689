package random

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// Random provides random identifier generation that can be mocked for testing
type Random interface {
	// Token returns a URL-safe random string from nbytes of entropy
	Token(nbytes int) string

	// Hex returns a lowercase hex random string from nbytes of entropy
	Hex(nbytes int) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token returns a URL-safe base64 string from nbytes of random data
func (r *CryptoRandom) Token(nbytes int) string {
	return base64.RawURLEncoding.EncodeToString(r.read(nbytes))
}

// Hex returns a hex string from nbytes of random data
func (r *CryptoRandom) Hex(nbytes int) string {
	return hex.EncodeToString(r.read(nbytes))
}

func (r *CryptoRandom) read(nbytes int) []byte {
	b := make([]byte, nbytes)
	// crypto/rand.Read never fails on supported platforms
	_, _ = rand.Read(b)
	return b
}
