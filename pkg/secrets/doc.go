// Package secrets derives purpose-bound keys from a single application key
// and encrypts small payloads with them.
//
// The application key is configured once (FRONTDOOR_APP_KEY) either as raw text
// of at least 32 bytes or as "base64:" followed by the encoded key. Every consumer
// derives its own subkey with HKDF-SHA-256, using the purpose string as salt, so
// that the OTP hashing key and the mail archive key never coincide.
//
//	appKey, err := secrets.ParseAppKey(cfg.AppKey)
//	if err != nil {
//		return err
//	}
//	hmacKey, err := secrets.DeriveKey(appKey, "otp-hmac")
//
// EncryptBytes and DecryptBytes use AES-256-GCM with the nonce prepended to the
// ciphertext.
package secrets
