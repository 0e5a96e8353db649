package credential

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

var errSealedPayload = errors.New("invalid sealed credential payload")

// sealKey encrypts plaintext with XChaCha20-Poly1305. The credential id is
// bound as associated data so a sealed key cannot be moved to another row.
func sealKey(key, id, plaintext string) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	payload := aead.Seal(nonce, nonce, []byte(plaintext), []byte(id))
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

func openKey(key, id, encoded string) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	if len(payload) < aead.NonceSize() {
		return "", errSealedPayload
	}
	nonce, ciphertext := payload[:aead.NonceSize()], payload[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(id))
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func newAEAD(key string) (cipher.AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.New("credential encryption key must be 32 bytes")
	}
	return chacha20poly1305.NewX([]byte(key))
}
