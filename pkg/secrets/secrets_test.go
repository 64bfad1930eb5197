package secrets_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daikazu/frontdoor/pkg/secrets"
)

func TestParseAppKey(t *testing.T) {
	t.Parallel()

	raw := strings.Repeat("k", 32)
	generated, err := secrets.GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr error
	}{
		{"raw key", raw, []byte(raw), nil},
		{"base64 key", secrets.EncodeKey(generated), generated, nil},
		{"trims whitespace", "  " + raw + "\n", []byte(raw), nil},
		{"empty", "", nil, secrets.ErrEmptyAppKey},
		{"too short", "short", nil, secrets.ErrInvalidAppKey},
		{"bad base64", "base64:!!!", nil, secrets.ErrInvalidAppKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			key, err := secrets.ParseAppKey(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	appKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	a1, err := secrets.DeriveKey(appKey, "otp-hmac")
	require.NoError(t, err)
	a2, err := secrets.DeriveKey(appKey, "otp-hmac")
	require.NoError(t, err)
	b, err := secrets.DeriveKey(appKey, "mail-archive")
	require.NoError(t, err)

	assert.Len(t, a1, secrets.KeySize)
	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
	assert.NotEqual(t, appKey, a1)

	_, err = secrets.DeriveKey(appKey, "")
	assert.ErrorIs(t, err, secrets.ErrEmptyPurpose)

	_, err = secrets.DeriveKey([]byte("short"), "otp-hmac")
	assert.ErrorIs(t, err, secrets.ErrInvalidAppKey)
}

func TestEncryptDecryptBytes(t *testing.T) {
	t.Parallel()

	appKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"text", []byte("Your code is 123456")},
		{"html", []byte("<p>Your sign-in code: <strong>000042</strong></p>")},
		{"binary", []byte{0x00, 0xff, 0x10, 0x7f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ciphertext, err := secrets.EncryptBytes(appKey, "mail-archive", tt.data)
			require.NoError(t, err)

			if len(tt.data) > 0 {
				assert.False(t, bytes.Contains(ciphertext, tt.data))
			}

			plaintext, err := secrets.DecryptBytes(appKey, "mail-archive", ciphertext)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.data, plaintext))
		})
	}
}

func TestDecryptBytes_Failures(t *testing.T) {
	t.Parallel()

	appKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := secrets.EncryptBytes(appKey, "mail-archive", []byte("payload"))
	require.NoError(t, err)

	t.Run("wrong purpose", func(t *testing.T) {
		t.Parallel()
		_, err := secrets.DecryptBytes(appKey, "otp-hmac", ciphertext)
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()
		other, err := secrets.GenerateKey()
		require.NoError(t, err)
		_, err = secrets.DecryptBytes(other, "mail-archive", ciphertext)
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()
		_, err := secrets.DecryptBytes(appKey, "mail-archive", ciphertext[:4])
		assert.ErrorIs(t, err, secrets.ErrInvalidCiphertext)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		tampered := bytes.Clone(ciphertext)
		tampered[len(tampered)-1] ^= 0xff
		_, err := secrets.DecryptBytes(appKey, "mail-archive", tampered)
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})
}
