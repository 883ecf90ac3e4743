// internal/common/secrets/secrets_test.go
package secrets

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	sealed, err := codec.Encrypt("sk_live_secret")
	require.NoError(t, err)
	assert.NotEqual(t, "sk_live_secret", sealed)

	opened, err := codec.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_secret", opened)
}

func TestNewCodec_RejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "not base64", key: "%%%"},
		{name: "wrong length", key: base64.StdEncoding.EncodeToString([]byte("short"))},
		{name: "empty", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(tt.key)
			assert.Error(t, err)
		})
	}
}

func TestCodec_Decrypt_RejectsTamperedCiphertext(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	sealed, err := codec.Encrypt("sk_live_secret")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = codec.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestCodec_Decrypt_RejectsWrongKey(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	otherKey := make([]byte, 32)
	for i := range otherKey {
		otherKey[i] = byte(255 - i)
	}
	other, err := NewCodec(base64.StdEncoding.EncodeToString(otherKey))
	require.NoError(t, err)

	sealed, err := codec.Encrypt("sk_live_secret")
	require.NoError(t, err)

	_, err = other.Decrypt(sealed)
	assert.Error(t, err)
}

func TestCodec_Decrypt_RejectsTruncatedInput(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	_, err = codec.Decrypt(base64.StdEncoding.EncodeToString([]byte("tiny")))
	assert.Error(t, err)
}
