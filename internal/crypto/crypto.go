// Package crypto provides field-level encryption for sensitive stored
// data (phone numbers, bank details, wallet balances) using AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	algorithm = "aes-256-gcm"
	ivSize    = 12
	keySize   = 32
)

// pbkdf2 parameters used when the secret is a passphrase rather than a
// hex-encoded key.
const (
	derivationIterations = 100000
	derivationSalt       = "prequity-field-encryption"
)

// SensitiveFields is the fixed set of object fields the bulk helpers
// operate on. Anything else passes through untouched.
var SensitiveFields = []string{"phone", "wallet_balance", "bank_account", "bank_ifsc"}

// EncryptedField is the storable envelope for one encrypted value. All
// parts are hex-encoded.
type EncryptedField struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	AuthTag    string `json:"auth_tag"`
	Algorithm  string `json:"algorithm"`
}

// FieldCipher encrypts and decrypts individual fields with a key
// derived once at construction.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher derives the AES-256 key from secret and prepares the
// GCM cipher. A 64-character hex secret is used as the key directly;
// anything else is stretched with PBKDF2-SHA256. An empty secret is an
// error: callers must fail startup rather than run unencrypted.
func NewFieldCipher(secret string) (*FieldCipher, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is required")
	}

	var key []byte
	if decoded, err := hex.DecodeString(secret); err == nil && len(decoded) == keySize {
		key = decoded
	} else {
		key = pbkdf2.Key([]byte(secret), []byte(derivationSalt), derivationIterations, keySize, sha256.New)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher creation failed: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, fmt.Errorf("GCM creation failed: %w", err)
	}
	return &FieldCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random 12-byte IV. The IV is
// never reused; GCM's auth tag is stored separately so tampering with
// either component fails decryption.
func (fc *FieldCipher) Encrypt(plaintext string) (*EncryptedField, error) {
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("iv generation failed: %w", err)
	}

	sealed := fc.aead.Seal(nil, iv, []byte(plaintext), nil)
	tagStart := len(sealed) - fc.aead.Overhead()

	return &EncryptedField{
		Ciphertext: hex.EncodeToString(sealed[:tagStart]),
		IV:         hex.EncodeToString(iv),
		AuthTag:    hex.EncodeToString(sealed[tagStart:]),
		Algorithm:  algorithm,
	}, nil
}

// Decrypt is the exact inverse of Encrypt. It fails closed: a malformed
// component or a non-verifying auth tag returns an error, never wrong
// plaintext.
func (fc *FieldCipher) Decrypt(field *EncryptedField) (string, error) {
	if field == nil {
		return "", errors.New("nil encrypted field")
	}
	ciphertext, err := hex.DecodeString(field.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("malformed ciphertext: %w", err)
	}
	iv, err := hex.DecodeString(field.IV)
	if err != nil || len(iv) != ivSize {
		return "", errors.New("malformed iv")
	}
	tag, err := hex.DecodeString(field.AuthTag)
	if err != nil || len(tag) != fc.aead.Overhead() {
		return "", errors.New("malformed auth tag")
	}

	plaintext, err := fc.aead.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plaintext), nil
}

// Hash returns the deterministic SHA-256 hex digest of data. Used for
// lookups and de-duplication over values that are stored encrypted.
func Hash(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
