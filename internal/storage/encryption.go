package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyLength    = 32
	nonceLength  = 12
	saltLength   = 32
	secretLength = 32
	iterations   = 100000
)

var ErrCorrupted = errors.New("wrong key or corrupted data")

// EncryptedData is an AES-GCM sealed payload with the salt its key was derived with.
type EncryptedData struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

func newGCM(secret, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(secret, salt, iterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func seal(plaintext, secret []byte) (*EncryptedData, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	aesGCM, err := newGCM(secret, salt)
	if err != nil {
		return nil, err
	}

	return &EncryptedData{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aesGCM.Seal(nil, nonce, plaintext, nil),
	}, nil
}

func open(data *EncryptedData, secret []byte) ([]byte, error) {
	if data == nil {
		return nil, errors.New("encrypted data is nil")
	}
	if len(data.Nonce) != nonceLength {
		return nil, ErrCorrupted
	}

	aesGCM, err := newGCM(secret, data.Salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, data.Nonce, data.Ciphertext, nil)
	if err != nil {
		return nil, ErrCorrupted
	}
	return plaintext, nil
}

// sealJSON marshals v and encrypts it with a key derived from secret.
func sealJSON(v any, secret []byte) (*EncryptedData, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return seal(plaintext, secret)
}

func openJSON(data *EncryptedData, secret []byte, v any) error {
	plaintext, err := open(data, secret)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}
