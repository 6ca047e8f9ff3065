// Package e2ee implements the symmetric side of Lutra's end-to-end
// encryption for inbound messages: the two-stage key derivation chain, the
// AES-256-GCM codec with structured AAD, random-padding removal, and the
// assistant message-edit decryptor composing them.
package e2ee

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// messageSecretInfo is the HKDF info string binding stage one of the chain
// to assistant message secrets.
const messageSecretInfo = "Bot Message"

// KeySize is the AES-256 key length produced by both derivation stages.
const KeySize = 32

// MessageAddressKey identifies the exact message an edit key is derived for.
// Binding all three identities into the derivation info prevents a derived
// key from being reused across messages, targets, or assistants.
type MessageAddressKey struct {
	TargetID    string // id of the message being edited
	Participant string // the assistant's identity
	MeID        string // the recipient's own identity in the matching namespace
}

// DeriveMessageSecret derives the 32-byte per-message secret from the shared
// secret stored with the original message.
//
// messageSecret = HKDF-SHA256(sharedSecret, 32, info="Bot Message")
func DeriveMessageSecret(sharedSecret []byte) ([]byte, error) {
	return expand(sharedSecret, messageSecretInfo)
}

// DeriveMessageKey derives the AEAD key for one edit payload. The edit
// targets a message the recipient owns, so the recipient's identity comes
// before the assistant's in the derivation info.
//
// key = HKDF-SHA256(messageSecret, 32, info = targetID || meID || participant)
func DeriveMessageKey(messageSecret []byte, addr MessageAddressKey) ([]byte, error) {
	return expand(messageSecret, addr.TargetID+addr.MeID+addr.Participant)
}

func expand(secret []byte, info string) ([]byte, error) {
	out := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), out); err != nil {
		return nil, fmt.Errorf("e2ee: HKDF expand failed: %w", err)
	}
	return out, nil
}
