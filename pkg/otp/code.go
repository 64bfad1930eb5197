package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"math/big"
	"strings"
)

// Identifier derives the storage key for an email: hex SHA-256 of the
// trimmed, lowercased address. Keys never contain the address itself.
func Identifier(email string) string {
	sum := sha256.Sum256([]byte(normalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newCode draws a uniform number in [0, 10^length) and zero-pads it.
func newCode(r io.Reader, length int) (string, error) {
	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(r, upper)
	if err != nil {
		return "", errors.Join(ErrCodeGeneration, err)
	}
	digits := n.String()
	return strings.Repeat("0", length-len(digits)) + digits, nil
}

func hashCode(key []byte, code string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// matches compares in constant time. Codes of the wrong shape still go
// through the HMAC so that they cost the same as a wrong guess.
func matches(key []byte, code, storedHash string) bool {
	want, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strings.TrimSpace(code)))
	return hmac.Equal(mac.Sum(nil), want)
}
