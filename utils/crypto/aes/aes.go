package aes

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

const GCMNonceSize = 12

func Pad(data []byte, blocksize int) []byte {
	padding := blocksize - len(data)%blocksize
	if padding == 0 {
		padding = blocksize
	}
	padtext := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(data, padtext...)
}

// RemovePad removes padding from data
func RemovePad(data []byte) ([]byte, error) {
	length := len(data)
	if length == 0 {
		return nil, errors.New("Invalid Padding/2")
	}
	unpadding := int(data[length-1])
	if unpadding > length || unpadding > aes.BlockSize {
		return nil, errors.New("Invalid Padding/2")
	}
	return data[:(length - unpadding)], nil
}

// EncryptCBC encrypts with a caller-supplied IV. The IV is not prepended to
// the ciphertext; the caller owns the IV and must supply the same one to
// DecryptCBC. iv must be exactly aes.BlockSize bytes.
func EncryptCBC(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, errors.New("Invalid IV Length")
	}
	data = Pad(data, aes.BlockSize)

	ciphertext := make([]byte, len(data))
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(ciphertext, data)

	return ciphertext, nil
}

func DecryptCBC(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, errors.New("Invalid IV Length")
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, errors.New("Invalid Ciphertext Length")
	}

	plainText := make([]byte, len(data))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(plainText, data)

	// Verify the padding before using it
	padding := plainText[len(plainText)-1]
	if int(padding) > aes.BlockSize || int(padding) < 1 {
		return nil, errors.New("Invalid Padding/1")
	}
	plainText, err = RemovePad(plainText)
	if err != nil {
		return nil, err
	}
	return plainText, nil
}

// EncryptGCM encrypts with a caller-supplied nonce of GCMNonceSize bytes.
func EncryptGCM(key, nonce, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("Invalid Nonce Length")
	}
	return gcm.Seal(nil, nonce, data, nil), nil
}

func DecryptGCM(key, nonce, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("Invalid Nonce Length")
	}
	return gcm.Open(nil, nonce, data, nil)
}
