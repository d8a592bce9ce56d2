package database

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/donnyhardyanto/dxdata/utils"
	"github.com/donnyhardyanto/dxdata/utils/crypto/aes"
)

const (
	CipherMethodAES128CBC = "aes-128-cbc"
	CipherMethodAES192CBC = "aes-192-cbc"
	CipherMethodAES256CBC = "aes-256-cbc"
	CipherMethodAES256GCM = "aes-256-gcm"
)

const fieldCipherKeySalt = "dxdata.field_cipher"
const fieldCipherKeyIterations = 4096

// CipherMethodKeyLength returns the cipher key size in bytes, 0 for an
// unsupported method.
func CipherMethodKeyLength(method string) int {
	switch method {
	case CipherMethodAES128CBC:
		return 16
	case CipherMethodAES192CBC:
		return 24
	case CipherMethodAES256CBC, CipherMethodAES256GCM:
		return 32
	default:
		return 0
	}
}

// CipherMethodIVLength returns the IV size in bytes the method requires,
// 0 for an unsupported method.
func CipherMethodIVLength(method string) int {
	switch method {
	case CipherMethodAES128CBC, CipherMethodAES192CBC, CipherMethodAES256CBC:
		return 16
	case CipherMethodAES256GCM:
		return aes.GCMNonceSize
	default:
		return 0
	}
}

// DXFieldCipher encrypts a designated subset of fields in a data mapping
// before write and decrypts them in fetched rows after read. Key, IV source
// and method are fixed at construction; callers pick which fields get the
// treatment per call, never how.
type DXFieldCipher struct {
	Method string
	key    []byte
	iv     []byte
}

// NewFieldCipher derives the working key from secretKey with PBKDF2-SHA256
// and the working IV by truncating ivMaterial to the method's IV length
// (zero-padded when the material is shorter).
func NewFieldCipher(secretKey string, ivMaterial string, method string) (*DXFieldCipher, error) {
	keyLength := CipherMethodKeyLength(method)
	if keyLength == 0 {
		return nil, fmt.Errorf("UNSUPPORTED_CIPHER_METHOD:%s", method)
	}
	if secretKey == "" {
		return nil, fmt.Errorf("EMPTY_CIPHER_SECRET_KEY")
	}
	ivLength := CipherMethodIVLength(method)
	iv := make([]byte, ivLength)
	copy(iv, ivMaterial)
	return &DXFieldCipher{
		Method: method,
		key:    pbkdf2.Key([]byte(secretKey), []byte(fieldCipherKeySalt), fieldCipherKeyIterations, keyLength, sha256.New),
		iv:     iv,
	}, nil
}

// EncryptValue encrypts a scalar and returns the ciphertext base64-encoded
// so it can be stored in a plain text column. The fixed IV makes the output
// deterministic, which keeps encrypted columns matchable in conditions.
func (fc *DXFieldCipher) EncryptValue(v any) (string, error) {
	plaintext := scalarAsString(v)
	var ciphertext []byte
	var err error
	switch fc.Method {
	case CipherMethodAES256GCM:
		ciphertext, err = aes.EncryptGCM(fc.key, fc.iv, []byte(plaintext))
	default:
		ciphertext, err = aes.EncryptCBC(fc.key, fc.iv, []byte(plaintext))
	}
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptValue is the exact inverse of EncryptValue. Malformed ciphertext is
// an error, never a silently-wrong plaintext.
func (fc *DXFieldCipher) DecryptValue(s string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("MALFORMED_CIPHERTEXT: %w", err)
	}
	var plaintext []byte
	switch fc.Method {
	case CipherMethodAES256GCM:
		plaintext, err = aes.DecryptGCM(fc.key, fc.iv, ciphertext)
	default:
		plaintext, err = aes.DecryptCBC(fc.key, fc.iv, ciphertext)
	}
	if err != nil {
		return "", fmt.Errorf("MALFORMED_CIPHERTEXT: %w", err)
	}
	return string(plaintext), nil
}

// EncryptFields replaces data[name] with its ciphertext for every name
// present both in fieldNames and as a key in data. Names absent from data
// are silently skipped, as are nil values: a nil condition must keep
// rendering as `is null`, never as an equality match on encrypted nil.
// The caller's map is never mutated.
func (fc *DXFieldCipher) EncryptFields(data utils.JSON, fieldNames []string) (utils.JSON, error) {
	if len(fieldNames) == 0 {
		return data, nil
	}
	r := utils.ShallowCopy(data)
	for _, fieldName := range fieldNames {
		v, ok := r[fieldName]
		if !ok || v == nil {
			continue
		}
		encrypted, err := fc.EncryptValue(v)
		if err != nil {
			return nil, fmt.Errorf("ENCRYPT_FIELD_ERROR:%s: %w", fieldName, err)
		}
		r[fieldName] = encrypted
	}
	return r, nil
}

// DecryptFields replaces the requested fields of every row with their
// plaintext, in place. Any failure aborts the whole pass; no partially
// decrypted row set is returned.
func (fc *DXFieldCipher) DecryptFields(rows []utils.JSON, fieldNames []string) error {
	if len(fieldNames) == 0 {
		return nil
	}
	for _, row := range rows {
		for _, fieldName := range fieldNames {
			v, ok := row[fieldName]
			if !ok || v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("DECRYPT_FIELD_NOT_STRING:%s (%s)", fieldName, utils.TypeAsString(v))
			}
			decrypted, err := fc.DecryptValue(s)
			if err != nil {
				return fmt.Errorf("DECRYPT_FIELD_ERROR:%s: %w", fieldName, err)
			}
			row[fieldName] = decrypted
		}
	}
	return nil
}

func scalarAsString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", v)
	}
}
