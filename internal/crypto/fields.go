package crypto

import (
	"encoding/json"
	"log"
)

// EncryptFields encrypts the recognized sensitive fields of obj in
// place, replacing each value with the JSON-serialized EncryptedField
// envelope. Unrecognized fields are left untouched.
func (fc *FieldCipher) EncryptFields(obj map[string]string) error {
	for _, name := range SensitiveFields {
		value, ok := obj[name]
		if !ok || value == "" {
			continue
		}
		field, err := fc.Encrypt(value)
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(field)
		if err != nil {
			return err
		}
		obj[name] = string(encoded)
	}
	return nil
}

// DecryptFields reverses EncryptFields. A field that fails to decrypt
// keeps its stored value: rows written before a field joined the
// sensitive set still hold plaintext, and refusing the whole object for
// one such field would break every older record. This is a
// backward-compatibility policy, not a security guarantee.
func (fc *FieldCipher) DecryptFields(obj map[string]string) {
	for _, name := range SensitiveFields {
		value, ok := obj[name]
		if !ok || value == "" {
			continue
		}
		var field EncryptedField
		if err := json.Unmarshal([]byte(value), &field); err != nil {
			continue
		}
		plaintext, err := fc.Decrypt(&field)
		if err != nil {
			log.Printf("field %s retained encrypted: %v", name, err)
			continue
		}
		obj[name] = plaintext
	}
}
