package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// EncryptBytes encrypts data with a key derived from appKey for the given purpose.
// Returns ciphertext in format: nonce + encrypted data + tag
func EncryptBytes(appKey []byte, purpose string, data []byte) ([]byte, error) {
	key, err := DeriveKey(appKey, purpose)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	return aesGCM.Seal(nonce, nonce, data, nil), nil
}

// DecryptBytes reverses EncryptBytes. The purpose must match the one used to encrypt.
func DecryptBytes(appKey []byte, purpose string, ciphertext []byte) ([]byte, error) {
	key, err := DeriveKey(appKey, purpose)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrInvalidCiphertext
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
