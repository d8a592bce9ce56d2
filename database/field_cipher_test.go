package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donnyhardyanto/dxdata/utils"
)

func TestNewFieldCipher(t *testing.T) {
	tests := []struct {
		name      string
		secretKey string
		method    string
		wantErr   bool
	}{
		{"aes-128-cbc", "secret", CipherMethodAES128CBC, false},
		{"aes-192-cbc", "secret", CipherMethodAES192CBC, false},
		{"aes-256-cbc", "secret", CipherMethodAES256CBC, false},
		{"aes-256-gcm", "secret", CipherMethodAES256GCM, false},
		{"unsupported method", "secret", "des-ede3-cbc", true},
		{"empty secret", "", CipherMethodAES256CBC, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFieldCipher(tt.secretKey, "0123456789abcdef", tt.method)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFieldCipher() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFieldCipherValueRoundTrip(t *testing.T) {
	for _, method := range []string{CipherMethodAES128CBC, CipherMethodAES192CBC, CipherMethodAES256CBC, CipherMethodAES256GCM} {
		t.Run(method, func(t *testing.T) {
			fc, err := NewFieldCipher("the secret", "iv material longer than needed", method)
			require.NoError(t, err)

			encrypted, err := fc.EncryptValue("123-45-6789")
			require.NoError(t, err)
			assert.NotEqual(t, "123-45-6789", encrypted)

			decrypted, err := fc.DecryptValue(encrypted)
			require.NoError(t, err)
			assert.Equal(t, "123-45-6789", decrypted)
		})
	}
}

func TestFieldCipherDeterministic(t *testing.T) {
	fc, err := NewFieldCipher("the secret", "0123456789abcdef", CipherMethodAES256CBC)
	require.NoError(t, err)

	e1, err := fc.EncryptValue("same plaintext")
	require.NoError(t, err)
	e2, err := fc.EncryptValue("same plaintext")
	require.NoError(t, err)
	assert.Equal(t, e1, e2, "fixed key/IV must produce matchable ciphertext")
}

func TestFieldCipherShortIVMaterial(t *testing.T) {
	// IV material shorter than the required length is zero-padded, never
	// rejected.
	fc, err := NewFieldCipher("the secret", "short", CipherMethodAES256CBC)
	require.NoError(t, err)

	encrypted, err := fc.EncryptValue("x")
	require.NoError(t, err)
	decrypted, err := fc.DecryptValue(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "x", decrypted)
}

func TestEncryptFields(t *testing.T) {
	fc, err := NewFieldCipher("the secret", "0123456789abcdef", CipherMethodAES256CBC)
	require.NoError(t, err)

	data := utils.JSON{"name": "Ann", "ssn": "123-45-6789"}
	encrypted, err := fc.EncryptFields(data, []string{"ssn", "not_present"})
	require.NoError(t, err)

	assert.Equal(t, "Ann", encrypted["name"])
	assert.NotEqual(t, "123-45-6789", encrypted["ssn"])
	assert.NotContains(t, encrypted, "not_present", "fields absent from data are silently skipped")
	assert.Equal(t, "123-45-6789", data["ssn"], "caller's map must not be mutated")
}

func TestEncryptFieldsSkipsNilValues(t *testing.T) {
	fc, err := NewFieldCipher("the secret", "0123456789abcdef", CipherMethodAES256CBC)
	require.NoError(t, err)

	data := utils.JSON{"ssn": nil, "name": "Ann"}
	encrypted, err := fc.EncryptFields(data, []string{"ssn"})
	require.NoError(t, err)
	assert.Nil(t, encrypted["ssn"], "nil must survive encryption untouched so it still renders as is null")
}

func TestDecryptFieldsRoundTrip(t *testing.T) {
	fc, err := NewFieldCipher("the secret", "0123456789abcdef", CipherMethodAES256CBC)
	require.NoError(t, err)

	data := utils.JSON{"ssn": "123-45-6789", "phone": "555-0100"}
	encrypted, err := fc.EncryptFields(data, []string{"ssn", "phone"})
	require.NoError(t, err)

	rows := []utils.JSON{encrypted}
	err = fc.DecryptFields(rows, []string{"ssn", "phone"})
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", rows[0]["ssn"])
	assert.Equal(t, "555-0100", rows[0]["phone"])
}

func TestDecryptFieldsMalformedCiphertext(t *testing.T) {
	fc, err := NewFieldCipher("the secret", "0123456789abcdef", CipherMethodAES256CBC)
	require.NoError(t, err)

	rows := []utils.JSON{{"ssn": "not-a-ciphertext"}}
	err = fc.DecryptFields(rows, []string{"ssn"})
	assert.Error(t, err, "malformed ciphertext must fail the pass, not yield wrong plaintext")
}

func TestDecryptFieldsWrongKey(t *testing.T) {
	fc1, err := NewFieldCipher("secret one", "0123456789abcdef", CipherMethodAES256GCM)
	require.NoError(t, err)
	fc2, err := NewFieldCipher("secret two", "0123456789abcdef", CipherMethodAES256GCM)
	require.NoError(t, err)

	encrypted, err := fc1.EncryptValue("123-45-6789")
	require.NoError(t, err)
	_, err = fc2.DecryptValue(encrypted)
	assert.Error(t, err)
}
