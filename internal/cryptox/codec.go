// Package cryptox holds the password hashing and encoding primitives used by
// the credential store and the authentication service.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize = 32
	KeySize  = 32

	// MinIterations is the lowest PBKDF2-SHA256 round count accepted.
	MinIterations = 100_000
)

// KDF derives password keys with PBKDF2-HMAC-SHA256.
//
// The zero value is usable: it runs MinIterations rounds and reads salts from
// crypto/rand. Rand can be replaced in tests.
type KDF struct {
	Iterations int
	Rand       io.Reader
}

// NewKDF returns a KDF with the given round count. Counts below MinIterations
// are rejected.
func NewKDF(iterations int) (KDF, error) {
	if iterations < MinIterations {
		return KDF{}, fmt.Errorf("kdf iterations %d below minimum %d", iterations, MinIterations)
	}
	return KDF{Iterations: iterations}, nil
}

func (k KDF) iterations() int {
	if k.Iterations < MinIterations {
		return MinIterations
	}
	return k.Iterations
}

func (k KDF) random() io.Reader {
	if k.Rand == nil {
		return rand.Reader
	}
	return k.Rand
}

// DeriveKey hashes password with salt and returns the salt that was used
// together with the derived key.
//
// When salt is empty a fresh SaltSize-byte salt is generated, which is what
// registration does. Verification passes the stored salt back in, and the
// output is then fully determined by (password, salt, iterations).
func (k KDF) DeriveKey(password, salt []byte) ([]byte, []byte, error) {
	if len(salt) == 0 {
		salt = make([]byte, SaltSize)
		if _, err := io.ReadFull(k.random(), salt); err != nil {
			return nil, nil, fmt.Errorf("salt: %w", err)
		}
	}
	return salt, deriveKey(password, salt, k.iterations()), nil
}

func deriveKey(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
}

// Encode converts b to padded standard base64 text.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode is the inverse of Encode.
func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	return b, nil
}

// Equal reports whether a and b hold the same bytes, in constant time for
// equal-length inputs.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
