package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the size of the application key and of every derived key.
	KeySize = 32 // 256 bits

	// saltInfo is mixed into every derivation for domain separation.
	saltInfo = "frontdoor-secrets-v1"

	base64Prefix = "base64:"
)

// ParseAppKey decodes an application key from configuration.
// Keys prefixed with "base64:" are decoded; any other value is used as raw bytes.
// The decoded key must be at least KeySize bytes long.
func ParseAppKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyAppKey
	}

	key := []byte(s)
	if encoded, ok := strings.CutPrefix(s, base64Prefix); ok {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errors.Join(ErrInvalidAppKey, err)
		}
		key = decoded
	}

	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return key, nil
}

// ValidateKey checks that the application key is long enough.
func ValidateKey(appKey []byte) error {
	if len(appKey) < KeySize {
		return ErrInvalidAppKey
	}
	return nil
}

// DeriveKey derives a KeySize-byte subkey for the given purpose using HKDF-SHA-256.
// Different purposes yield independent keys from the same application key.
func DeriveKey(appKey []byte, purpose string) ([]byte, error) {
	if err := ValidateKey(appKey); err != nil {
		return nil, err
	}
	if purpose == "" {
		return nil, ErrEmptyPurpose
	}

	hkdfReader := hkdf.New(sha256.New, appKey, []byte(purpose), []byte(saltInfo))

	derivedKey := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdfReader, derivedKey); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return derivedKey, nil
}

// clearBytes zeroes a slice holding key material.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateKey creates a new random application key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// EncodeKey formats a key the way ParseAppKey expects it in configuration.
func EncodeKey(key []byte) string {
	return base64Prefix + base64.StdEncoding.EncodeToString(key)
}
