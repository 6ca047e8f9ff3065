package e2ee

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

const (
	// NonceSize is the only accepted GCM nonce length.
	NonceSize = 12
	// TagSize is the GCM authentication tag length appended to ciphertext.
	TagSize = 16
)

// ErrIVSize is returned before any cipher work when the nonce has the wrong
// length.
var ErrIVSize = errors.New("e2ee: IV size incorrect")

// buildAAD constructs the additional authenticated data for an edit payload:
// messageID || 0x00 || assistant identity.
func buildAAD(messageID, botJID string) []byte {
	aad := make([]byte, 0, len(messageID)+1+len(botJID))
	aad = append(aad, messageID...)
	aad = append(aad, 0x00)
	aad = append(aad, botJID...)
	return aad
}

// Open decrypts data (ciphertext || 16-byte tag) with AES-256-GCM. The nonce
// must be exactly 12 bytes; tag mismatch or truncated input fails without
// returning any plaintext.
func Open(key, nonce, data, aad []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, ErrIVSize
	}
	if len(data) < TagSize {
		return nil, fmt.Errorf("e2ee: ciphertext too short (%d bytes)", len(data))
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, data, aad)
	if err != nil {
		return nil, fmt.Errorf("e2ee: GCM authentication failed: %w", err)
	}
	return plaintext, nil
}

// Seal is the encrypt direction of the codec, producing ciphertext || tag.
// The inbound pipeline never calls it; it exists for senders and for
// round-trip verification against Open.
func Seal(key, nonce, plaintext, aad []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, ErrIVSize
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, aad), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("e2ee: aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("e2ee: cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
