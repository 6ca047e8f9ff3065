package e2ee

import "fmt"

// DecryptBotEdit decrypts a message-secret-protected assistant edit payload.
//
// Algorithm:
//  1. messageSecret = HKDF(sharedSecret, 32, "Bot Message")
//  2. key = HKDF(messageSecret, 32, targetID || meID || participant)
//  3. payload = nonce(12) || ciphertext || tag(16)
//  4. AAD = targetID || 0x00 || participant
//  5. AES-256-GCM open
func DecryptBotEdit(sharedSecret []byte, addr MessageAddressKey, data []byte) ([]byte, error) {
	if len(data) < NonceSize+TagSize {
		return nil, fmt.Errorf("e2ee: edit payload too short (%d bytes)", len(data))
	}
	key, err := deriveEditKey(sharedSecret, addr)
	if err != nil {
		return nil, err
	}
	nonce, sealed := data[:NonceSize], data[NonceSize:]
	return Open(key, nonce, sealed, buildAAD(addr.TargetID, addr.Participant))
}

// EncryptBotEdit is the sending side of DecryptBotEdit, producing
// nonce || ciphertext || tag with the caller-supplied nonce.
func EncryptBotEdit(sharedSecret []byte, addr MessageAddressKey, nonce, plaintext []byte) ([]byte, error) {
	key, err := deriveEditKey(sharedSecret, addr)
	if err != nil {
		return nil, err
	}
	sealed, err := Seal(key, nonce, plaintext, buildAAD(addr.TargetID, addr.Participant))
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, nonce...), sealed...), nil
}

func deriveEditKey(sharedSecret []byte, addr MessageAddressKey) ([]byte, error) {
	messageSecret, err := DeriveMessageSecret(sharedSecret)
	if err != nil {
		return nil, err
	}
	return DeriveMessageKey(messageSecret, addr)
}
