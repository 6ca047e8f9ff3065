package payload

import (
	"encoding/json"
	"fmt"
)

// Message is the structured payload carried inside an encrypted element.
// It is JSON on the wire once the element ciphertext has been opened.
type Message struct {
	Conversation          *string                       `json:"conversation,omitempty"`
	ExtendedText          *ExtendedTextMessage          `json:"extendedTextMessage,omitempty"`
	Image                 *ImageMessage                 `json:"imageMessage,omitempty"`
	Reaction              *ReactionMessage              `json:"reactionMessage,omitempty"`
	Protocol              *ProtocolMessage              `json:"protocolMessage,omitempty"`
	DeviceSent            *DeviceSentMessage            `json:"deviceSentMessage,omitempty"`
	SenderKeyDistribution *SenderKeyDistributionMessage `json:"senderKeyDistributionMessage,omitempty"`
	ContextInfo           *MessageContextInfo           `json:"messageContextInfo,omitempty"`
}

// ExtendedTextMessage is a text body with link/quote metadata.
type ExtendedTextMessage struct {
	Text        *string `json:"text,omitempty"`
	MatchedText *string `json:"matchedText,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ImageMessage references encrypted media by key rather than carrying bytes.
type ImageMessage struct {
	URL           *string `json:"url,omitempty"`
	MimeType      *string `json:"mimetype,omitempty"`
	Caption       *string `json:"caption,omitempty"`
	MediaKey      []byte  `json:"mediaKey,omitempty"`
	FileSHA256    []byte  `json:"fileSha256,omitempty"`
	FileEncSHA256 []byte  `json:"fileEncSha256,omitempty"`
	DirectPath    *string `json:"directPath,omitempty"`
}

// ReactionMessage attaches an emoji reaction to an earlier message.
type ReactionMessage struct {
	Key  *MessageKey `json:"key,omitempty"`
	Text *string     `json:"text,omitempty"`
}

// ProtocolMessage carries protocol-level actions such as edits and revokes.
type ProtocolMessage struct {
	Key           *MessageKey `json:"key,omitempty"`
	Type          *string     `json:"type,omitempty"`
	EditedMessage *Message    `json:"editedMessage,omitempty"`
}

// DeviceSentMessage is the relay envelope wrapped around payloads that one
// of the user's own devices sent to a peer; the inner message is the real
// content.
type DeviceSentMessage struct {
	DestinationJID *string  `json:"destinationJid,omitempty"`
	Message        *Message `json:"message,omitempty"`
}

// SenderKeyDistributionMessage updates the recipient's per-group decryption
// state. It is processed on receipt and produces no visible content.
type SenderKeyDistributionMessage struct {
	GroupID                             *string `json:"groupId,omitempty"`
	AxolotlSenderKeyDistributionMessage []byte  `json:"axolotlSenderKeyDistributionMessage,omitempty"`
}

// MessageContextInfo carries per-message key material, notably the message
// secret used for assistant message edits.
type MessageContextInfo struct {
	DeviceListMetadataVersion *int32 `json:"deviceListMetadataVersion,omitempty"`
	MessageSecret             []byte `json:"messageSecret,omitempty"`
}

// DecodeMessage parses a decrypted element payload.
func DecodeMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("payload: failed to decode message: %w", err)
	}
	return &msg, nil
}

// UnwrapDeviceSent unwraps a device-relay envelope, keeping the envelope's
// context info on the inner message when the inner one carries none. Returns
// the message unchanged when there is no envelope.
func (m *Message) UnwrapDeviceSent() *Message {
	if m == nil || m.DeviceSent == nil || m.DeviceSent.Message == nil {
		return m
	}
	inner := m.DeviceSent.Message
	if inner.ContextInfo == nil {
		inner.ContextInfo = m.ContextInfo
	}
	return inner
}

// Merge overlays later-decoded payload fields onto base, field by field.
// The field list is deliberately enumerated so the overlay contract stays
// auditable: a field present on overlay replaces the base field, absent
// fields leave the base untouched.
func Merge(base, overlay *Message) *Message {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}
	if overlay.Conversation != nil {
		base.Conversation = overlay.Conversation
	}
	if overlay.ExtendedText != nil {
		base.ExtendedText = overlay.ExtendedText
	}
	if overlay.Image != nil {
		base.Image = overlay.Image
	}
	if overlay.Reaction != nil {
		base.Reaction = overlay.Reaction
	}
	if overlay.Protocol != nil {
		base.Protocol = overlay.Protocol
	}
	if overlay.DeviceSent != nil {
		base.DeviceSent = overlay.DeviceSent
	}
	if overlay.SenderKeyDistribution != nil {
		base.SenderKeyDistribution = overlay.SenderKeyDistribution
	}
	if overlay.ContextInfo != nil {
		base.ContextInfo = overlay.ContextInfo
	}
	return base
}
