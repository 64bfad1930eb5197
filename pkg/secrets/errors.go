package secrets

import "errors"

var (
	ErrEmptyAppKey         = errors.New("secrets: app key is empty")
	ErrInvalidAppKey       = errors.New("secrets: app key must decode to at least 32 bytes")
	ErrEmptyPurpose        = errors.New("secrets: key purpose is empty")
	ErrKeyDerivationFailed = errors.New("secrets: key derivation failed")

	ErrEncryptionFailed  = errors.New("secrets: encrypt failed")
	ErrDecryptionFailed  = errors.New("secrets: decrypt failed")
	ErrInvalidCiphertext = errors.New("secrets: malformed ciphertext")
)
