package crypto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func TestNewFieldCipher(t *testing.T) {
	t.Run("hex key", func(t *testing.T) {
		fc, err := NewFieldCipher(testKey)
		require.NoError(t, err)
		assert.NotNil(t, fc)
	})

	t.Run("passphrase is stretched", func(t *testing.T) {
		fc, err := NewFieldCipher("not-a-hex-key")
		require.NoError(t, err)
		assert.NotNil(t, fc)
	})

	t.Run("empty secret refused", func(t *testing.T) {
		_, err := NewFieldCipher("")
		assert.Error(t, err)
	})
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	fc, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	for _, plaintext := range []string{
		"",
		"9876543210",
		"HDFC0001234",
		strings.Repeat("long input ", 500),
		"unicode ₹ 42",
	} {
		field, err := fc.Encrypt(plaintext)
		require.NoError(t, err)
		assert.Equal(t, "aes-256-gcm", field.Algorithm)

		got, err := fc.Decrypt(field)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestEncryptUsesFreshIV(t *testing.T) {
	fc, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	a, err := fc.Encrypt("same value")
	require.NoError(t, err)
	b, err := fc.Encrypt("same value")
	require.NoError(t, err)

	assert.NotEqual(t, a.IV, b.IV)
	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
}

func TestDecryptFailsClosed(t *testing.T) {
	fc, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	field, err := fc.Encrypt("account 123")
	require.NoError(t, err)

	t.Run("tampered auth tag", func(t *testing.T) {
		bad := *field
		bad.AuthTag = flipHexDigit(bad.AuthTag)
		_, err := fc.Decrypt(&bad)
		assert.Error(t, err)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		bad := *field
		bad.Ciphertext = flipHexDigit(bad.Ciphertext)
		_, err := fc.Decrypt(&bad)
		assert.Error(t, err)
	})

	t.Run("malformed iv", func(t *testing.T) {
		bad := *field
		bad.IV = "zz"
		_, err := fc.Decrypt(&bad)
		assert.Error(t, err)
	})

	t.Run("nil field", func(t *testing.T) {
		_, err := fc.Decrypt(nil)
		assert.Error(t, err)
	})
}

func TestHashDeterministic(t *testing.T) {
	assert.Equal(t, Hash("data"), Hash("data"))
	assert.NotEqual(t, Hash("data"), Hash("other"))
	assert.Len(t, Hash("data"), 64)
}

func TestEncryptFields(t *testing.T) {
	fc, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	obj := map[string]string{
		"phone":          "9876543210",
		"bank_account":   "00112233445566",
		"wallet_balance": "1500.25",
		"email":          "user@example.com",
	}
	require.NoError(t, fc.EncryptFields(obj))

	// Unrecognized fields pass through untouched.
	assert.Equal(t, "user@example.com", obj["email"])

	// Every sensitive field, balance included, gets the envelope.
	for _, name := range []string{"phone", "bank_account", "wallet_balance"} {
		var envelope EncryptedField
		require.NoError(t, json.Unmarshal([]byte(obj[name]), &envelope), name)
		assert.Equal(t, "aes-256-gcm", envelope.Algorithm, name)
	}

	fc.DecryptFields(obj)
	assert.Equal(t, "9876543210", obj["phone"])
	assert.Equal(t, "00112233445566", obj["bank_account"])
	assert.Equal(t, "1500.25", obj["wallet_balance"])
}

func TestDecryptFieldsRetainsUndecryptable(t *testing.T) {
	fc, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	obj := map[string]string{
		"phone":        "9876543210",
		"bank_account": "00112233445566",
	}
	require.NoError(t, fc.EncryptFields(obj))

	// Corrupt one field's envelope; the other must still decrypt and
	// the corrupted one keeps its stored value instead of aborting.
	var envelope EncryptedField
	require.NoError(t, json.Unmarshal([]byte(obj["phone"]), &envelope))
	envelope.AuthTag = flipHexDigit(envelope.AuthTag)
	corrupted, err := json.Marshal(envelope)
	require.NoError(t, err)
	obj["phone"] = string(corrupted)

	fc.DecryptFields(obj)
	assert.Equal(t, string(corrupted), obj["phone"])
	assert.Equal(t, "00112233445566", obj["bank_account"])
}

func TestDecryptFieldsLeavesPlaintextLegacyValues(t *testing.T) {
	fc, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	// Rows written before encryption was introduced hold plaintext.
	obj := map[string]string{"phone": "raw-legacy-value"}
	fc.DecryptFields(obj)
	assert.Equal(t, "raw-legacy-value", obj["phone"])
}

func flipHexDigit(s string) string {
	b := []byte(s)
	if b[0] == 'a' {
		b[0] = 'b'
	} else {
		b[0] = 'a'
	}
	return string(b)
}
