package payload

import (
	"encoding/json"
	"fmt"
)

// VerifiedNameCertificate is the business-verification certificate attached
// to messages from verified accounts. Only the embedded display name is
// consumed by the inbound pipeline; signature verification happens upstream.
type VerifiedNameCertificate struct {
	Details   VerifiedNameDetails `json:"details"`
	Signature []byte              `json:"signature,omitempty"`
}

type VerifiedNameDetails struct {
	Serial       int64  `json:"serial,omitempty"`
	Issuer       string `json:"issuer,omitempty"`
	VerifiedName string `json:"verifiedName"`
}

// DecodeVerifiedNameCertificate parses a verified_name element payload.
func DecodeVerifiedNameCertificate(data []byte) (*VerifiedNameCertificate, error) {
	var cert VerifiedNameCertificate
	if err := json.Unmarshal(data, &cert); err != nil {
		return nil, fmt.Errorf("payload: failed to decode verified name certificate: %w", err)
	}
	return &cert, nil
}
