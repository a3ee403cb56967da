package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

// Crypter seals device records with AES-256-GCM before they leave the
// process. Stored settings carry per-device calibration baselines, so
// anything written to a shared Redis goes out encrypted.
type Crypter struct {
	key []byte
}

// NewCrypter derives a 256 bit key from the passphrase.
func NewCrypter(passphrase string) (*Crypter, error) {
	l := len(passphrase)
	if l < 16 {
		return nil, fmt.Errorf("passphrase length must be >= 16 bytes, got %d", l)
	}
	k := sha256.Sum256([]byte(passphrase))
	return &Crypter{key: k[:]}, nil
}

// Encrypt seals data, the random nonce is prepended to the ciphertext.
func (c *Crypter) Encrypt(data []byte) ([]byte, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, data, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt
func (c *Crypter) Decrypt(data []byte) ([]byte, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := aesgcm.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
